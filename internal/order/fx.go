package order

import (
	"github.com/opencanteen/mensa/internal/order/repository"
	"github.com/opencanteen/mensa/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
