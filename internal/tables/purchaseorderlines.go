package tables

import (
	"net/url"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/stockgrid/internal/forms"
	"github.com/jask/stockgrid/internal/grid"
	"github.com/jask/stockgrid/internal/widgets"
)

// Purchase order status codes, as served by the backend.
const (
	poStatusPending = 10
	poStatusPlaced  = 20
	poStatusOnHold  = 25
)

const poLineURL = "/api/order/po-line/"
const poURL = "/api/order/po/"

// PurchaseOrderLines builds the line-item table for one purchase order.
func PurchaseOrderLines(d Deps, order grid.Record) *Table {
	orderID, _ := grid.AsInt64(order["pk"])
	status, _ := grid.AsFloat(order["status"])
	orderOpen := status == poStatusPending || status == poStatusPlaced || status == poStatusOnHold
	orderPlaced := status == poStatusPlaced

	base := url.Values{}
	base.Set("order", strconv.FormatInt(orderID, 10))
	base.Set("part_detail", "true")

	columns := []grid.Column{
		{
			Accessor: "part",
			Title:    "Part",
			Sortable: true,
			Ordering: "part_name",
			Locked:   true,
			Render: func(rec grid.Record) string {
				return grid.FormatValue(grid.Resolve(rec, "part_detail.name"))
			},
		},
		{Accessor: "part_detail.IPN", Title: "IPN", Sortable: true, Ordering: "IPN"},
		{Accessor: "part_detail.description", Title: "Description"},
		{Accessor: "reference", Title: "Reference", Sortable: true},
		{Accessor: "quantity", Title: "Quantity", Sortable: true, Locked: true},
		{
			Accessor: "received",
			Title:    "Received",
			Render: func(rec grid.Record) string {
				received, _ := grid.AsFloat(rec["received"])
				quantity, _ := grid.AsFloat(rec["quantity"])
				return widgets.Progress(received, quantity)
			},
		},
		{Accessor: "supplier_part_detail.packaging", Title: "Packaging", Hidden: true},
		{Accessor: "supplier_part_detail.pack_quantity", Title: "Pack Quantity"},
		{Accessor: "sku", Title: "Supplier Code", Sortable: true, Ordering: "SKU", Locked: true},
		{Accessor: "mpn", Title: "Manufacturer Code", Sortable: true, Ordering: "MPN", Hidden: true},
		{Accessor: "purchase_price", Title: "Unit Price", Sortable: true},
		{Accessor: "total_price", Title: "Total Price", Sortable: true},
		{Accessor: "target_date", Title: "Target Date", Sortable: true},
		{Accessor: "destination_detail.name", Title: "Destination"},
		{Accessor: "notes", Title: "Notes", Hidden: true},
		{Accessor: "link", Title: "Link", Hidden: true},
	}

	filters := []grid.Filter{
		{Name: "received", Label: "Received", Description: "Show line items which have been received"},
	}

	ctrl := grid.NewController(d.Ctx, d.API, grid.ControllerConfig{
		Name:      "purchase-order-lines",
		URL:       poLineURL,
		Columns:   columns,
		Filters:   filters,
		PageSize:  d.PageSize,
		BaseQuery: base,
	})

	lineFields := func() []forms.Field {
		return []forms.Field{
			{Name: "part", Label: "Supplier part", Required: true},
			{Name: "quantity", Label: "Quantity", Required: true},
			{Name: "purchase_price", Label: "Unit price"},
			{Name: "destination", Label: "Destination"},
			{Name: "notes", Label: "Notes"},
		}
	}

	newLine := func(initial grid.Record) *forms.Form {
		fields := lineFields()
		for i := range fields {
			if v := grid.Resolve(initial, fields[i].Name); v != nil {
				fields[i].Value = grid.FormatValue(v)
			}
		}
		f := forms.NewCreate(d.Ctx, d.API, poLineURL, "Add Line Item", fields, forms.Success(ctrl, forms.SuccessRefetch))
		f.MapPayload = func(values map[string]any) map[string]any {
			values["order"] = orderID
			return values
		}
		return f
	}

	receive := func(items []grid.Record) *forms.Form {
		fields := []forms.Field{{Name: "location", Label: "Destination location"}}
		f := forms.NewPerform(d.Ctx, d.API, poURL, orderID, "receive", "Receive Line Items", fields,
			func(map[string]any) tea.Cmd {
				ctrl.ClearSelected()
				return ctrl.Refresh()
			})
		f.MapPayload = func(values map[string]any) map[string]any {
			lines := make([]map[string]any, 0, len(items))
			for _, rec := range items {
				pk, ok := ctrl.PrimaryKey(rec)
				if !ok {
					continue
				}
				received, _ := grid.AsFloat(rec["received"])
				quantity, _ := grid.AsFloat(rec["quantity"])
				outstanding := quantity - received
				if outstanding <= 0 {
					continue
				}
				lines = append(lines, map[string]any{"line_item": pk, "quantity": outstanding})
			}
			payload := map[string]any{"items": lines}
			if loc, _ := values["location"].(string); loc != "" {
				payload["location"] = loc
			}
			return payload
		}
		return f
	}

	t := &Table{Title: "Purchase Order Lines", Controller: ctrl}

	t.RowActions = func(rec grid.Record) []grid.RowAction {
		pk, _ := ctrl.PrimaryKey(rec)
		received, _ := grid.AsFloat(rec["received"])
		quantity, _ := grid.AsFloat(rec["quantity"])
		fullyReceived := received >= quantity
		buildOrder, hasBuild := grid.AsInt64(rec["build_order"])

		record := rec
		return []grid.RowAction{
			{
				Title:  "Receive line item",
				Color:  grid.ColorGreen,
				Icon:   "⇥",
				Hidden: fullyReceived || !orderPlaced,
				OnClick: func() tea.Cmd {
					return forms.OpenCmd(receive([]grid.Record{record}))
				},
			},
			grid.ViewAction(grid.RowAction{
				Title:     "View Build Order",
				Hidden:    !hasBuild,
				ModelType: "build",
				ModelID:   buildOrder,
			}, d.Nav),
			grid.EditAction(grid.RowAction{
				Hidden: !d.Caps.HasRole("purchase_order.change"),
				OnClick: func() tea.Cmd {
					f := forms.NewEdit(d.Ctx, d.API, poLineURL, pk, "Edit Line Item", lineFields(), record,
						forms.Success(ctrl, forms.SuccessRefetch))
					return forms.OpenCmd(f)
				},
			}),
			grid.DuplicateAction(grid.RowAction{
				Hidden: !orderOpen || !d.Caps.HasRole("purchase_order.add"),
				OnClick: func() tea.Cmd {
					return forms.OpenCmd(newLine(record))
				},
			}),
			grid.DeleteAction(grid.RowAction{
				Hidden: !d.Caps.HasRole("purchase_order.delete"),
				OnClick: func() tea.Cmd {
					f := forms.NewDelete(d.Ctx, d.API, poLineURL, pk, "Delete Line Item",
						forms.Success(ctrl, forms.SuccessRefetch))
					return forms.OpenCmd(f)
				},
			}),
		}
	}

	t.TableActions = func() []grid.TableAction {
		return []grid.TableAction{
			{
				Title:  "Add Line Item",
				Icon:   "+",
				Hidden: !orderOpen || !d.Caps.HasRole("purchase_order.add"),
				OnClick: func() tea.Cmd {
					return forms.OpenCmd(newLine(nil))
				},
			},
			{
				Title:    "Receive selected",
				Icon:     "⇥",
				Hidden:   !orderPlaced || !d.Caps.HasRole("purchase_order.change"),
				Disabled: len(ctrl.SelectedIDs()) == 0,
				OnClick: func() tea.Cmd {
					return forms.OpenCmd(receive(ctrl.SelectedRecords()))
				},
			},
		}
	}

	return t
}
