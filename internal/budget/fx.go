package budget

import (
	"github.com/opencanteen/mensa/internal/budget/service"
	"go.uber.org/fx"
)

var Module = fx.Module("budget.service",
	fx.Provide(service.New),
)
