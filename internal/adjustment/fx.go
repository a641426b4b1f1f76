package adjustment

import (
	"github.com/opencanteen/mensa/internal/adjustment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("adjustment.service",
	fx.Provide(service.New),
	fx.Provide(service.NewIndividual),
)
