// Package api provides the HTTP API for the application
package api

import (
	"ghsummary/internal/platform/config"
	"ghsummary/internal/platform/logger"
	phttp "ghsummary/internal/platform/net/http"
	"ghsummary/internal/platform/store"

	"ghsummary/internal/modkit"
	"ghsummary/internal/modkit/httpkit"
	"ghsummary/internal/modkit/module"

	contribmod "ghsummary/internal/services/contrib/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	mods := []module.Module{
		contribmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its prefix
			m.MountRoutes(api)
		}
	})
}
