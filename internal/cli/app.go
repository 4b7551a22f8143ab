package cli

import (
	"context"
	"fmt"

	"github.com/smallbiznis/atmn/internal/api"
	"github.com/smallbiznis/atmn/internal/config"
	"github.com/smallbiznis/atmn/internal/customer"
	"github.com/smallbiznis/atmn/internal/feature"
	"github.com/smallbiznis/atmn/internal/logger"
	"github.com/smallbiznis/atmn/internal/plan"
	"github.com/smallbiznis/atmn/internal/pull"
	pulldomain "github.com/smallbiznis/atmn/internal/pull/domain"
	"github.com/smallbiznis/atmn/internal/push"
	pushdomain "github.com/smallbiznis/atmn/internal/push/domain"
	"go.uber.org/fx"
)

// runApp builds a short-lived fx app for one command, populates targets,
// runs fn between Start and Stop.
func runApp(ctx context.Context, cfg config.Config, prompter *Prompter, fn func(ctx context.Context) error, targets ...any) error {
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(
			func() pulldomain.Confirmer { return prompter },
			func() pushdomain.Confirmer { return prompter },
		),

		logger.Module,
		api.Module,
		feature.Module,
		plan.Module,
		customer.Module,
		pull.Module,
		push.Module,

		fx.Populate(targets...),
	)
	if err := app.Err(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	if err := app.Start(ctx); err != nil {
		return err
	}
	runErr := fn(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return err
	}
	return runErr
}
