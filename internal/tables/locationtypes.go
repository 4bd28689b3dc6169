package tables

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/stockgrid/internal/forms"
	"github.com/jask/stockgrid/internal/grid"
)

const locationTypeURL = "/api/stock/location-type/"

// LocationTypes builds the stock location type management table: plain
// CRUD, no parent context.
func LocationTypes(d Deps) *Table {
	columns := []grid.Column{
		{Accessor: "icon", Title: "Icon", Sortable: true},
		{Accessor: "name", Title: "Name", Sortable: true, Locked: true},
		{Accessor: "description", Title: "Description"},
		{Accessor: "location_count", Title: "Locations", Sortable: true},
	}

	ctrl := grid.NewController(d.Ctx, d.API, grid.ControllerConfig{
		Name:     "location-types",
		URL:      locationTypeURL,
		Columns:  columns,
		PageSize: d.PageSize,
	})

	fields := func() []forms.Field {
		return []forms.Field{
			{Name: "name", Label: "Name", Required: true},
			{Name: "description", Label: "Description"},
			{Name: "icon", Label: "Icon"},
		}
	}

	t := &Table{Title: "Location Types", Controller: ctrl}

	t.RowActions = func(rec grid.Record) []grid.RowAction {
		pk, _ := ctrl.PrimaryKey(rec)
		record := rec
		return []grid.RowAction{
			grid.EditAction(grid.RowAction{
				Hidden: !d.Caps.HasRole("stock_location.change"),
				OnClick: func() tea.Cmd {
					// The edit response is the full record and cannot
					// change page membership, so patch in place.
					f := forms.NewEdit(d.Ctx, d.API, locationTypeURL, pk, "Edit Location Type", fields(), record,
						forms.Success(ctrl, forms.SuccessPatch))
					return forms.OpenCmd(f)
				},
			}),
			grid.DeleteAction(grid.RowAction{
				Hidden: !d.Caps.HasRole("stock_location.delete"),
				OnClick: func() tea.Cmd {
					f := forms.NewDelete(d.Ctx, d.API, locationTypeURL, pk, "Delete Location Type",
						forms.Success(ctrl, forms.SuccessRefetch))
					return forms.OpenCmd(f)
				},
			}),
		}
	}

	t.TableActions = func() []grid.TableAction {
		return []grid.TableAction{
			{
				Title:  "Add Location Type",
				Icon:   "+",
				Hidden: !d.Caps.HasRole("stock_location.add"),
				OnClick: func() tea.Cmd {
					f := forms.NewCreate(d.Ctx, d.API, locationTypeURL, "Add Location Type", fields(),
						forms.Success(ctrl, forms.SuccessRefetch))
					return forms.OpenCmd(f)
				},
			},
		}
	}

	return t
}
