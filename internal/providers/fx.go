package providers

import (
	"github.com/opencanteen/mensa/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	pdf.Module,
)
