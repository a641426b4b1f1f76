package employee

import (
	"github.com/opencanteen/mensa/internal/employee/repository"
	"github.com/opencanteen/mensa/internal/employee/service"
	"go.uber.org/fx"
)

var Module = fx.Module("employee.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
