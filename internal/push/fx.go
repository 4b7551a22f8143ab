package push

import (
	"github.com/smallbiznis/atmn/internal/push/service"
	"go.uber.org/fx"
)

var Module = fx.Module("push.service",
	fx.Provide(service.New),
)
