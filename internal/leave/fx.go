package leave

import (
	"github.com/opencanteen/mensa/internal/leave/service"
	"go.uber.org/fx"
)

var Module = fx.Module("leave.service",
	fx.Provide(service.New),
)
