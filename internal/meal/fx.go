package meal

import (
	"github.com/opencanteen/mensa/internal/meal/repository"
	"github.com/opencanteen/mensa/internal/meal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("meal.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
