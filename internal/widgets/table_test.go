package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestTableRenderLayout(t *testing.T) {
	tbl := Table{
		Headers: []string{"Name", "Quantity"},
		Rows: []Row{
			{Cells: []string{"Bolt", "25"}},
			{Cells: []string{"Washer", "100"}, Selected: true},
		},
		Cursor: 0,
	}
	out := ansi.Strip(tbl.Render(60, 20))
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "Name") || !strings.Contains(lines[0], "Quantity") {
		t.Fatalf("header missing: %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "✓") {
		t.Fatalf("selected row should carry a marker: %q", lines[2])
	}
	if strings.HasPrefix(lines[1], "✓") {
		t.Fatalf("unselected row must not carry a marker: %q", lines[1])
	}
}

func TestTableRenderExpandedDetail(t *testing.T) {
	tbl := Table{
		Headers: []string{"Build", "Allocated"},
		Rows: []Row{
			{Cells: []string{"BO-001", "4/10"}, Expanded: true, Detail: "stock item 3  qty 4\nstock item 9  qty 2"},
		},
	}
	out := ansi.Strip(tbl.Render(60, 20))
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected row plus two detail lines, got %d", len(lines))
	}
	if !strings.Contains(lines[1], "▼") {
		t.Fatalf("expanded row should carry the expansion marker: %q", lines[1])
	}
	if !strings.Contains(lines[2], "stock item 3") || !strings.Contains(lines[3], "stock item 9") {
		t.Fatalf("detail lines missing: %v", lines[2:])
	}
}

func TestTableRenderRespectsHeight(t *testing.T) {
	rows := make([]Row, 30)
	for i := range rows {
		rows[i] = Row{Cells: []string{"x"}}
	}
	out := Table{Headers: []string{"Col"}, Rows: rows}.Render(20, 5)
	if got := len(strings.Split(out, "\n")); got > 5 {
		t.Fatalf("render exceeded height: %d lines", got)
	}
}

func TestTableRenderTruncatesWideCells(t *testing.T) {
	tbl := Table{
		Headers: []string{"Description"},
		Rows:    []Row{{Cells: []string{strings.Repeat("long ", 40)}}},
	}
	for _, line := range strings.Split(ansi.Strip(tbl.Render(30, 5)), "\n") {
		if w := ansi.StringWidth(line); w > 30 {
			t.Fatalf("line exceeds width: %d", w)
		}
	}
}

func TestPadCell(t *testing.T) {
	if got := padCell("ab", 4); got != "ab  " {
		t.Fatalf("expected padding, got %q", got)
	}
	if got := ansi.StringWidth(padCell("abcdef", 4)); got != 4 {
		t.Fatalf("expected truncation to width, got %d", got)
	}
	if got := padCell("ab", 0); got != "" {
		t.Fatalf("zero width should be empty, got %q", got)
	}
}
