// Package app assembles the server out of its modules. It owns the gin
// engine with the cross-cutting middleware, the bootstrap state machine
// that loads module descriptors, materializes their collection schemas and
// mounts their route tables, and the startup report handed back to main.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nithya675/Consultant---Tracker/internal/registry"
)

// State is the last bootstrap phase the composer completed. Transitions are
// strictly forward; a process restart is the only way back to
// StateUninitialized.
type State int

const (
	StateUninitialized State = iota
	StateModulesLoaded
	StateSchemasMaterialized
	StateRoutesMounted
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateModulesLoaded:
		return "MODULES_LOADED"
	case StateSchemasMaterialized:
		return "SCHEMAS_MATERIALIZED"
	case StateRoutesMounted:
		return "ROUTES_MOUNTED"
	case StateRunning:
		return "RUNNING"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Report is the structured startup outcome: how far the state machine got,
// which modules mounted, and the result of every index-creation request.
// Index failures in here are non-fatal; the fatal cases come back as the
// error from Compose instead.
type Report struct {
	State   State
	Modules []string
	Indexes []registry.IndexResult
}

// FailedIndexes narrows the index results down to the hard failures.
func (r Report) FailedIndexes() []registry.IndexResult {
	var failed []registry.IndexResult
	for _, res := range r.Indexes {
		if res.Outcome == registry.IndexFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Options carries the composer's collaborators. Modules and Schemas default
// to fresh registries, Logger to a discard logger; DB, Router and Bootstrap
// have no useful defaults.
type Options struct {
	Modules   *registry.ModuleRegistry
	Schemas   *registry.SchemaRegistry
	DB        registry.IndexEnsurer
	Router    gin.IRouter
	APIPrefix string
	Bootstrap []*registry.Module
	Logger    *slog.Logger
}

// Composer drives bootstrap: register every module descriptor, materialize
// every owned collection schema, mount every route table, then declare the
// process running. One composer exists per server process. Compose runs
// single-threaded from main before any request-serving concurrency starts
// and is not safe for concurrent use; once it returns, both registries are
// read-only snapshots that handlers may read freely.
type Composer struct {
	modules   *registry.ModuleRegistry
	schemas   *registry.SchemaRegistry
	db        registry.IndexEnsurer
	router    gin.IRouter
	apiPrefix string
	bootstrap []*registry.Module
	logger    *slog.Logger

	state   State
	mounted map[string]string // lowercased full prefix -> module name
}

func NewComposer(opts Options) *Composer {
	if opts.Modules == nil {
		opts.Modules = registry.NewModuleRegistry()
	}
	if opts.Schemas == nil {
		opts.Schemas = registry.NewSchemaRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Composer{
		modules:   opts.Modules,
		schemas:   opts.Schemas,
		db:        opts.DB,
		router:    opts.Router,
		apiPrefix: opts.APIPrefix,
		bootstrap: opts.Bootstrap,
		logger:    opts.Logger,
		mounted:   make(map[string]string),
	}
}

// State reports the last completed bootstrap phase.
func (c *Composer) State() State { return c.state }

// Compose runs the state machine to completion. ctx bounds the database
// work: when it expires, unfinished indexes are reported as failed rather
// than holding startup hostage.
//
// Duplicate module names or prefixes, duplicate collection claims and mount
// collisions are programming errors: Compose returns them and the state
// stops short, before the server accepts traffic. A single index that will
// not build is an operational problem, not a programming one; it is logged,
// recorded in the report, and the server starts anyway with that index
// missing.
//
// Compose called a second time on the same composer is a no-op pass:
// re-registering the same descriptors does nothing, re-ensuring indexes
// reports them as existing, and already-mounted prefixes are skipped.
func (c *Composer) Compose(ctx context.Context) (Report, error) {
	report := Report{State: c.state}

	// UNINITIALIZED -> MODULES_LOADED. Run every bootstrap registration in
	// order. The first duplicate aborts; the phase still counts as loaded
	// because the loading itself is what surfaced the error.
	var regErr error
	for _, m := range c.bootstrap {
		if err := c.modules.Register(m); err != nil {
			regErr = err
			break
		}
	}
	c.advance(StateModulesLoaded)
	report.State = c.state
	if regErr != nil {
		return report, fmt.Errorf("load modules: %w", regErr)
	}
	mods := c.modules.All()
	c.logger.Info("modules loaded", "count", len(mods))

	// MODULES_LOADED -> SCHEMAS_MATERIALIZED. Merge every owned schema,
	// then issue the index builds. Materialize waits for every request, so
	// no route is ever mounted while an index build is still in flight.
	schemas, err := c.schemas.CollectAll(mods)
	if err != nil {
		return report, fmt.Errorf("collect schemas: %w", err)
	}
	report.Indexes = c.schemas.Materialize(ctx, c.db, schemas)
	for _, res := range report.Indexes {
		if res.Outcome == registry.IndexFailed {
			c.logger.Error("index materialization failed",
				"collection", res.Collection,
				"index", res.Index,
				"attempts", res.Attempts,
				"error", res.Err,
			)
		}
	}
	c.advance(StateSchemasMaterialized)
	report.State = c.state
	c.logger.Info("schemas materialized",
		"collections", len(schemas),
		"indexes", len(report.Indexes),
		"failed", len(report.FailedIndexes()),
	)

	// SCHEMAS_MATERIALIZED -> ROUTES_MOUNTED. Attach route tables in
	// registration order under apiPrefix+modulePrefix. The lowercased
	// prefix map catches collisions the registry cannot see, such as two
	// prefixes differing only in case.
	for _, m := range mods {
		full := c.apiPrefix + m.Prefix
		key := strings.ToLower(full)
		if existing, ok := c.mounted[key]; ok {
			if existing == m.Name {
				report.Modules = append(report.Modules, m.Name)
				continue
			}
			return report, &registry.MountCollisionError{Prefix: full, Module: m.Name, Existing: existing}
		}
		m.Routes(c.router.Group(full))
		c.mounted[key] = m.Name
		report.Modules = append(report.Modules, m.Name)
		c.logger.Info("module mounted", "module", m.Name, "prefix", full, "tags", m.Tags)
	}
	c.advance(StateRoutesMounted)
	report.State = c.state

	// ROUTES_MOUNTED -> RUNNING. Nothing left that can fail; the caller
	// starts accepting connections.
	c.advance(StateRunning)
	report.State = c.state
	return report, nil
}

// advance moves the state forward, never backward.
func (c *Composer) advance(s State) {
	if s > c.state {
		c.state = s
	}
}
