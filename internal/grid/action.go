package grid

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ActionColor is the semantic affordance of an action; the widget layer
// maps it to an actual style.
type ActionColor string

const (
	ColorNeutral ActionColor = ""
	ColorGreen   ActionColor = "green"
	ColorBlue    ActionColor = "blue"
	ColorRed     ActionColor = "red"
)

// Navigator turns a model type and id into a detail-view URL. The grid
// treats the result as an opaque string.
type Navigator func(modelType string, modelID int64) string

// Capabilities answers role checks when table definitions compose
// action visibility. The grid never interprets roles itself.
type Capabilities interface {
	HasRole(role string) bool
}

// RoleSet is a plain Capabilities implementation.
type RoleSet map[string]bool

func (r RoleSet) HasRole(role string) bool { return r[role] }

// RowAction is one user-invocable operation scoped to a single record.
type RowAction struct {
	Title    string
	Tooltip  string
	Color    ActionColor
	Icon     string
	Hidden   bool
	Disabled bool
	// ModelType and ModelID identify the navigation target for view
	// actions.
	ModelType string
	ModelID   int64
	OnClick   func() tea.Cmd
}

// TableAction is an operation scoped to the whole grid (add, import,
// bulk receive).
type TableAction struct {
	Title    string
	Tooltip  string
	Icon     string
	Hidden   bool
	Disabled bool
	OnClick  func() tea.Cmd
}

// The action kind builders below are pure: each copies the base,
// stamps the kind's fixed presentation on top and returns the result.
// Visibility and enablement stay whatever the caller computed.

// ViewAction navigates to the detail URL for the base's model
// type and id.
func ViewAction(base RowAction, nav Navigator) RowAction {
	a := base
	a.Color = ColorNeutral
	a.Icon = "→"
	if a.Title == "" {
		a.Title = "View"
	}
	modelType, modelID := a.ModelType, a.ModelID
	a.OnClick = func() tea.Cmd {
		if nav == nil {
			return nil
		}
		return NavigateCmd(nav(modelType, modelID))
	}
	return a
}

// DuplicateAction prefills a create form from the current record.
func DuplicateAction(base RowAction) RowAction {
	a := base
	a.Title = "Duplicate"
	a.Color = ColorGreen
	a.Icon = "⧉"
	return a
}

// EditAction opens an edit form bound to the record's primary key.
func EditAction(base RowAction) RowAction {
	a := base
	a.Title = "Edit"
	a.Color = ColorBlue
	a.Icon = "✎"
	return a
}

// DeleteAction opens a delete confirmation for the record.
func DeleteAction(base RowAction) RowAction {
	a := base
	a.Title = "Delete"
	a.Color = ColorRed
	a.Icon = "✗"
	return a
}

// CancelAction cancels an in-progress order or operation.
func CancelAction(base RowAction) RowAction {
	a := base
	a.Title = "Cancel"
	a.Color = ColorRed
	a.Icon = "⊘"
	return a
}
