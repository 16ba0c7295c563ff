// Package module wires contribution reporting into the API using modkit
package module

import (
	"net/http"

	"ghsummary/internal/adapters/github"
	modkit "ghsummary/internal/modkit"
	"ghsummary/internal/modkit/httpkit"
	str "ghsummary/internal/platform/strings"
	contribhttp "ghsummary/internal/services/contrib/http"
	contribrepo "ghsummary/internal/services/contrib/repo"
	contribsvc "ghsummary/internal/services/contrib/service"
)

// Ports exposes the report service for cross-module lookups
type Ports struct {
	Reports *contribsvc.Service
}

// Module implements the contribution reports module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports Ports

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *contribsvc.Service
}

// New constructs the contrib module
// reads GITHUB_* config, builds the GraphQL client and both fetch adapters,
// and binds storage to the shared Postgres pool
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("contrib"),
		modkit.WithPrefix("/reports"),
	}, opts...)...)

	o := FromConfig(deps.Cfg)
	progress := NewLogProgress()

	client := github.NewClient(github.Options{
		Endpoint:      o.APIURL,
		Token:         o.Token,
		UserAgent:     o.UserAgent,
		Timeout:       o.Timeout,
		WaitThreshold: o.WaitThreshold,
		WaitBuffer:    o.WaitBuffer,
		PageSize:      o.PageSize,
		MaxPages:      o.MaxPages,
	})
	source := github.NewSource(client, progress)
	lines := github.NewLineCalculator(client, progress)
	storage := contribrepo.NewPG().Bind(deps.PG)

	svc := contribsvc.New(source, lines, storage, progress, contribsvc.Config{
		EarliestYear: o.EarliestYear,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Reports: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		contribhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.prefix, m.mws, func(rr httpkit.Router) {
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
