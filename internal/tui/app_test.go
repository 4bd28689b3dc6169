package tui

import (
	"context"
	"net/url"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/stockgrid/internal/grid"
	"github.com/jask/stockgrid/internal/prefs"
	"github.com/jask/stockgrid/internal/tables"
)

type stubFetcher struct {
	rows []grid.Record
}

func (f *stubFetcher) List(ctx context.Context, resource string, query url.Values) ([]grid.Record, int, error) {
	return f.rows, len(f.rows), nil
}

func testTable(name string, rows []grid.Record) *tables.Table {
	ctrl := grid.NewController(context.Background(), &stubFetcher{rows: rows}, grid.ControllerConfig{
		Name: name,
		URL:  "/api/test/",
		Columns: []grid.Column{
			{Accessor: "name", Title: "Name", Locked: true},
			{Accessor: "quantity", Title: "Quantity", Sortable: true},
		},
	})
	return &tables.Table{
		Title:      name,
		Controller: ctrl,
		RowActions: func(rec grid.Record) []grid.RowAction {
			return []grid.RowAction{{Title: "Edit"}}
		},
	}
}

func loadTables(a *App) {
	for _, t := range a.tables {
		msg := t.Controller.Init()().(grid.RowsLoadedMsg)
		_, _ = a.Update(msg)
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestAppRendersLoadedRows(t *testing.T) {
	rows := []grid.Record{
		{"pk": float64(1), "name": "Bolt", "quantity": float64(25)},
		{"pk": float64(2), "name": "Washer", "quantity": float64(100)},
	}
	a := New([]*tables.Table{testTable("parts", rows)}, &prefs.Store{Dir: t.TempDir()})
	if cmd := a.Init(); cmd == nil {
		t.Fatalf("init should schedule the first fetches")
	}
	loadTables(a)

	view := a.View()
	if !strings.Contains(view, "Bolt") || !strings.Contains(view, "Washer") {
		t.Fatalf("loaded rows missing from view")
	}
	if !strings.Contains(view, "page 1/1") {
		t.Fatalf("footer missing from view")
	}
}

func TestAppRoutesRowsToOwningTable(t *testing.T) {
	first := testTable("one", []grid.Record{{"pk": float64(1), "name": "only"}})
	second := testTable("two", nil)
	a := New([]*tables.Table{first, second}, nil)
	loadTables(a)

	if len(first.Controller.Rows()) != 1 {
		t.Fatalf("first table should have its rows")
	}
	if len(second.Controller.Rows()) != 0 {
		t.Fatalf("second table must not receive the first table's rows")
	}
}

func TestAppTabSwitching(t *testing.T) {
	a := New([]*tables.Table{testTable("one", nil), testTable("two", nil)}, nil)
	loadTables(a)

	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a = model.(*App)
	if a.active != 1 {
		t.Fatalf("tab should advance, got %d", a.active)
	}
	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a = model.(*App)
	if a.active != 0 {
		t.Fatalf("tab should wrap, got %d", a.active)
	}
}

func TestAppSelectionKey(t *testing.T) {
	rows := []grid.Record{{"pk": float64(7), "name": "Bolt"}}
	a := New([]*tables.Table{testTable("parts", rows)}, nil)
	loadTables(a)

	model, _ := a.Update(keyRune(' '))
	a = model.(*App)
	if !a.tables[0].Controller.IsSelected(7) {
		t.Fatalf("space should select the current row")
	}
	if !strings.Contains(a.View(), "1 selected") {
		t.Fatalf("footer should report the selection")
	}
}

func TestAppMenuOpensOverRow(t *testing.T) {
	rows := []grid.Record{{"pk": float64(7), "name": "Bolt"}}
	a := New([]*tables.Table{testTable("parts", rows)}, nil)
	loadTables(a)

	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a = model.(*App)
	if a.openMenu() == nil {
		t.Fatalf("enter should open the row menu")
	}
	if !strings.Contains(a.View(), "Edit") {
		t.Fatalf("open menu should render its actions")
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(*App)
	if a.openMenu() != nil {
		t.Fatalf("esc should close the menu")
	}
}

func TestAppQuit(t *testing.T) {
	a := New([]*tables.Table{testTable("parts", nil)}, nil)
	_, cmd := a.Update(keyRune('q'))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}
