package tables

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jask/stockgrid/internal/grid"
	"github.com/jask/stockgrid/internal/widgets"
)

const buildLineURL = "/api/build/line/"

// Build order status labels.
var buildStatusLabels = map[int64]string{
	10: "Pending",
	20: "Production",
	25: "On Hold",
	30: "Cancelled",
	40: "Complete",
}

// BuildAllocations lists outstanding build order allocations for one
// part. Rows with allocated stock expand to show the allocation
// breakdown inline.
func BuildAllocations(d Deps, partID int64) *Table {
	base := url.Values{}
	base.Set("part", strconv.FormatInt(partID, 10))
	base.Set("consumable", "false")
	base.Set("part_detail", "true")
	base.Set("assembly_detail", "true")
	base.Set("build_detail", "true")
	base.Set("order_outstanding", "true")

	columns := []grid.Column{
		{
			Accessor: "build",
			Title:    "Build Order",
			Sortable: true,
			Locked:   true,
			Render: func(rec grid.Record) string {
				return grid.FormatValue(grid.Resolve(rec, "build_detail.reference"))
			},
		},
		{
			Accessor: "assembly_detail",
			Title:    "Assembly",
			Locked:   true,
			Render: func(rec grid.Record) string {
				return grid.FormatValue(grid.Resolve(rec, "assembly_detail.name"))
			},
		},
		{Accessor: "assembly_detail.IPN", Title: "Assembly IPN"},
		{Accessor: "part_detail.name", Title: "Part", Hidden: true},
		{Accessor: "part_detail.IPN", Title: "Part IPN", Hidden: true},
		{Accessor: "build_detail.title", Title: "Description"},
		{
			Accessor: "build_detail.status",
			Title:    "Order Status",
			Locked:   true,
			Render: func(rec grid.Record) string {
				code, ok := grid.AsInt64(grid.Resolve(rec, "build_detail.status"))
				if !ok {
					return "-"
				}
				if label, ok := buildStatusLabels[code]; ok {
					return label
				}
				return strconv.FormatInt(code, 10)
			},
		},
		{
			Accessor: "allocated",
			Title:    "Required Stock",
			Sortable: true,
			Locked:   true,
			Render: func(rec grid.Record) string {
				allocated, _ := grid.AsFloat(rec["allocated"])
				quantity, _ := grid.AsFloat(rec["quantity"])
				return widgets.Progress(allocated, quantity)
			},
		},
	}

	filters := []grid.Filter{
		{Name: "include_variants", Label: "Include Variants", Description: "Include allocations against variant parts"},
	}

	ctrl := grid.NewController(d.Ctx, d.API, grid.ControllerConfig{
		Name:      "build-allocations",
		URL:       buildLineURL,
		Columns:   columns,
		Filters:   filters,
		PageSize:  d.PageSize,
		BaseQuery: base,
		// Only rows with allocated stock reveal an allocation breakdown.
		Expandable: func(rec grid.Record) bool {
			allocated, _ := grid.AsFloat(rec["allocated"])
			return allocated > 0
		},
	})

	t := &Table{Title: "Build Allocations", Controller: ctrl}

	t.RowActions = func(rec grid.Record) []grid.RowAction {
		buildID, _ := grid.AsInt64(rec["build"])
		return []grid.RowAction{
			grid.ViewAction(grid.RowAction{
				Title:     "View Build Order",
				Hidden:    !d.Caps.HasRole("build.view"),
				ModelType: "build",
				ModelID:   buildID,
			}, d.Nav),
		}
	}

	t.ExpandDetail = func(rec grid.Record) string {
		allocations, ok := rec["allocations"].([]any)
		if !ok || len(allocations) == 0 {
			allocated, _ := grid.AsFloat(rec["allocated"])
			return fmt.Sprintf("%s allocated", grid.FormatValue(allocated))
		}
		lines := make([]string, 0, len(allocations))
		for _, raw := range allocations {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			quantity, _ := grid.AsFloat(entry["quantity"])
			location := grid.FormatValue(grid.Resolve(entry, "location_detail.name"))
			stockItem := grid.FormatValue(grid.Resolve(entry, "stock_item"))
			lines = append(lines, fmt.Sprintf("stock item %s  qty %s  @ %s", stockItem, grid.FormatValue(quantity), location))
		}
		return strings.Join(lines, "\n")
	}

	return t
}
