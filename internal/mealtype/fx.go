package mealtype

import (
	"github.com/opencanteen/mensa/internal/mealtype/service"
	"go.uber.org/fx"
)

var Module = fx.Module("mealtype.service",
	fx.Provide(service.New),
)
