package pull

import (
	"github.com/smallbiznis/atmn/internal/pull/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pull.service",
	fx.Provide(service.New),
)
