package payroll

import (
	"github.com/opencanteen/mensa/internal/payroll/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payroll.service",
	fx.Provide(service.New),
)
