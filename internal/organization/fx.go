package organization

import (
	"github.com/opencanteen/mensa/internal/organization/repository"
	"github.com/opencanteen/mensa/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
