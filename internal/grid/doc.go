// Package grid contains the generic data-grid core: table state
// orchestration and declarative configuration contracts.
//
// Allowed here:
// - the table controller state machine (pagination, sort, filters,
//   selection, expansion, fetch sequencing)
// - column/filter/action declarations and the per-row action menu
//
// Not allowed here:
// - HTTP transport details (api), form rendering (forms) or low-level
//   drawing primitives (widgets)
package grid
