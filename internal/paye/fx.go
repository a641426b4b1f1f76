package paye

import (
	"github.com/opencanteen/mensa/internal/paye/service"
	"go.uber.org/fx"
)

var Module = fx.Module("paye.service",
	fx.Provide(service.New),
)
