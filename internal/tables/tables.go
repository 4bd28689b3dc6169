// Package tables holds the per-entity table definitions: configuration
// (columns, filters, actions, forms) layered on top of the generic grid
// core.
package tables

import (
	"context"

	"github.com/jask/stockgrid/internal/forms"
	"github.com/jask/stockgrid/internal/grid"
)

// Client is the slice of the API surface table definitions need.
type Client interface {
	grid.Fetcher
	forms.Submitter
	forms.Performer
}

// Deps carries the shared collaborators every definition receives.
type Deps struct {
	Ctx      context.Context
	API      Client
	Caps     grid.Capabilities
	Nav      grid.Navigator
	PageSize int
}

// Table bundles a controller with the definition-supplied callbacks the
// shell renders from.
type Table struct {
	Title      string
	Controller *grid.Controller
	// RowActions composes the per-record operations; visibility is
	// already decided here, the menu only filters on it.
	RowActions func(rec grid.Record) []grid.RowAction
	// TableActions are the whole-grid operations.
	TableActions func() []grid.TableAction
	// ExpandDetail renders the inline content beneath an expanded row.
	ExpandDetail func(rec grid.Record) string
}
