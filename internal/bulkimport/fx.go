package bulkimport

import (
	"github.com/opencanteen/mensa/internal/bulkimport/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bulkimport.service",
	fx.Provide(service.New),
)
