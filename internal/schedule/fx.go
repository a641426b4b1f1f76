package schedule

import (
	"github.com/opencanteen/mensa/internal/schedule/repository"
	"github.com/opencanteen/mensa/internal/schedule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("schedule.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
