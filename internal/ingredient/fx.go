package ingredient

import (
	"github.com/opencanteen/mensa/internal/ingredient/repository"
	"github.com/opencanteen/mensa/internal/ingredient/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ingredient.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
