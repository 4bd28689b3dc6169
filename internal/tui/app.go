// Package tui is the application shell: it hosts the table views,
// routes messages to their controllers and composites modal overlays.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/stockgrid/internal/forms"
	"github.com/jask/stockgrid/internal/grid"
	"github.com/jask/stockgrid/internal/prefs"
	"github.com/jask/stockgrid/internal/tables"
	"github.com/jask/stockgrid/internal/widgets"
)

type keyMap struct {
	Quit     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Select   key.Binding
	Expand   key.Binding
	Menu     key.Binding
	Sort     key.Binding
	Filter   key.Binding
	Columns  key.Binding
	Refresh  key.Binding
	Actions  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c")),
		NextTab:  key.NewBinding(key.WithKeys("tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab")),
		Up:       key.NewBinding(key.WithKeys("up", "k")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		PrevPage: key.NewBinding(key.WithKeys("left", "h", "[")),
		NextPage: key.NewBinding(key.WithKeys("right", "l", "]")),
		Select:   key.NewBinding(key.WithKeys(" ")),
		Expand:   key.NewBinding(key.WithKeys("x")),
		Menu:     key.NewBinding(key.WithKeys("enter", "m")),
		Sort:     key.NewBinding(key.WithKeys("s")),
		Filter:   key.NewBinding(key.WithKeys("f")),
		Columns:  key.NewBinding(key.WithKeys("c")),
		Refresh:  key.NewBinding(key.WithKeys("r")),
		Actions:  key.NewBinding(key.WithKeys("a")),
	}
}

// picker is the shared cursor state for the column/filter/action
// modals.
type picker struct {
	kind   pickerKind
	cursor int
}

type pickerKind int

const (
	pickColumns pickerKind = iota
	pickFilters
	pickActions
)

// App ties the table views together.
type App struct {
	tables []*tables.Table
	active int
	keys   keyMap
	// menus keeps per-row menu state keyed by table name and primary
	// key, so each row owns independent opened state.
	menus     map[string]map[int64]*grid.ActionMenu
	form      *forms.Form
	picker    *picker
	spin      spinner.Model
	prefs     *prefs.Store
	status    string
	statusErr bool
	width     int
	height    int
}

func New(tabs []*tables.Table, store *prefs.Store) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	a := &App{
		tables: tabs,
		keys:   defaultKeys(),
		menus:  make(map[string]map[int64]*grid.ActionMenu),
		spin:   sp,
		prefs:  store,
		status: "Ready",
		width:  120,
		height: 36,
	}
	a.restoreColumnPrefs()
	return a
}

func (a *App) restoreColumnPrefs() {
	if a.prefs == nil {
		return
	}
	for _, t := range a.tables {
		hidden, err := a.prefs.HiddenColumns(t.Controller.Name())
		if err != nil || hidden == nil {
			continue
		}
		cols := t.Controller.Columns()
		for _, c := range cols.Switchable() {
			cols.SetHidden(c.Accessor, false)
		}
		for _, accessor := range hidden {
			cols.SetHidden(accessor, true)
		}
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spin.Tick}
	for _, t := range a.tables {
		cmds = append(cmds, t.Controller.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) current() *tables.Table {
	if a.active < 0 || a.active >= len(a.tables) {
		return nil
	}
	return a.tables[a.active]
}

// menuFor returns the action menu owned by one row, composing its
// actions fresh when the row opens it for the first time.
func (a *App) menuFor(t *tables.Table, rec grid.Record) *grid.ActionMenu {
	pk, ok := t.Controller.PrimaryKey(rec)
	if !ok {
		return grid.NewActionMenu("Actions", t.RowActions(rec))
	}
	byRow, ok := a.menus[t.Controller.Name()]
	if !ok {
		byRow = make(map[int64]*grid.ActionMenu)
		a.menus[t.Controller.Name()] = byRow
	}
	if m, ok := byRow[pk]; ok && m.Opened() {
		return m
	}
	// Recompose on each fresh open so visibility tracks current record
	// state.
	m := grid.NewActionMenu("Actions", t.RowActions(rec))
	byRow[pk] = m
	return m
}

func (a *App) openMenu() *grid.ActionMenu {
	t := a.current()
	if t == nil {
		return nil
	}
	rec, ok := t.Controller.Current()
	if !ok {
		return nil
	}
	pk, ok := t.Controller.PrimaryKey(rec)
	if !ok {
		return nil
	}
	if m, ok := a.menus[t.Controller.Name()][pk]; ok && m.Opened() {
		return m
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case spinner.TickMsg:
		loading := false
		for _, t := range a.tables {
			if t.Controller.Loading() {
				loading = true
			}
		}
		if loading || a.form != nil {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(m)
			return a, cmd
		}
		return a, nil
	case grid.RowsLoadedMsg:
		for _, t := range a.tables {
			if t.Controller.HandleRows(m) {
				if err := t.Controller.Err(); err != nil {
					a.setError(err)
				} else {
					a.setStatus(fmt.Sprintf("%d records", t.Controller.Count()))
				}
				break
			}
		}
		return a, a.spin.Tick
	case grid.NavigateMsg:
		a.setStatus("open: " + m.URL)
	case forms.OpenMsg:
		a.form = m.Form
		return a, tea.Batch(a.spin.Tick)
	case forms.ResultMsg:
		if a.form == nil {
			return a, nil
		}
		cmd := a.form.HandleResult(m)
		if a.form.Done() {
			a.setStatus(a.form.Title() + ": done")
			a.form = nil
		} else if m.Err != nil {
			a.setError(m.Err)
		}
		return a, cmd
	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal priority: form, then pickers, then an open row menu, then
	// the table itself.
	if a.form != nil {
		if a.form.Done() {
			a.form = nil
			return a, nil
		}
		cmd, _ := a.form.Update(msg)
		if a.form.Done() {
			a.form = nil
		}
		return a, cmd
	}
	if a.picker != nil {
		return a.handlePickerKey(msg)
	}
	if menu := a.openMenu(); menu != nil {
		return a.handleMenuKey(menu, msg)
	}
	return a.handleTableKey(msg)
}

func (a *App) handleMenuKey(menu *grid.ActionMenu, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		menu.Move(-1)
	case key.Matches(msg, a.keys.Down):
		menu.Move(1)
	case msg.String() == "esc":
		menu.Close()
	case msg.Type == tea.KeyEnter:
		// The menu consumes the key; the row below never sees it.
		cmd, consumed := menu.SelectCurrent()
		if consumed {
			return a, cmd
		}
	case key.Matches(msg, a.keys.Menu):
		menu.Toggle()
	}
	return a, nil
}

func (a *App) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := a.current()
	if t == nil {
		return a, nil
	}
	ctrl := t.Controller
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.NextTab):
		a.active = (a.active + 1) % len(a.tables)
	case key.Matches(msg, a.keys.PrevTab):
		a.active = (a.active - 1 + len(a.tables)) % len(a.tables)
	case key.Matches(msg, a.keys.Up):
		ctrl.MoveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		ctrl.MoveCursor(1)
	case key.Matches(msg, a.keys.PrevPage):
		if ctrl.Page() > 1 {
			return a, ctrl.SetPage(ctrl.Page() - 1)
		}
	case key.Matches(msg, a.keys.NextPage):
		if ctrl.Page() < ctrl.MaxPage() {
			return a, ctrl.SetPage(ctrl.Page() + 1)
		}
	case key.Matches(msg, a.keys.Select):
		if rec, ok := ctrl.Current(); ok {
			if pk, ok := ctrl.PrimaryKey(rec); ok {
				ctrl.ToggleSelection(pk)
			}
		}
	case key.Matches(msg, a.keys.Expand):
		if rec, ok := ctrl.Current(); ok && ctrl.CanExpand(rec) {
			if pk, ok := ctrl.PrimaryKey(rec); ok {
				ctrl.ToggleExpansion(pk)
			}
		}
	case key.Matches(msg, a.keys.Menu):
		if rec, ok := ctrl.Current(); ok {
			menu := a.menuFor(t, rec)
			if !menu.Toggle() {
				a.setStatus("no actions for this row")
			}
		}
	case key.Matches(msg, a.keys.Sort):
		return a, a.cycleSort(ctrl)
	case key.Matches(msg, a.keys.Filter):
		if len(ctrl.Filters().Filters()) > 0 {
			a.picker = &picker{kind: pickFilters}
		}
	case key.Matches(msg, a.keys.Columns):
		if len(ctrl.Columns().Switchable()) > 0 {
			a.picker = &picker{kind: pickColumns}
		}
	case key.Matches(msg, a.keys.Refresh):
		a.setStatus("refreshing...")
		return a, ctrl.Refresh()
	case key.Matches(msg, a.keys.Actions):
		if t.TableActions != nil && len(visibleTableActions(t)) > 0 {
			a.picker = &picker{kind: pickActions}
		}
	}
	return a, nil
}

// cycleSort steps through the sortable columns: ascending, descending,
// then the next column.
func (a *App) cycleSort(ctrl *grid.Controller) tea.Cmd {
	var sortable []grid.Column
	for _, c := range ctrl.Columns().Columns() {
		if c.Sortable {
			sortable = append(sortable, c)
		}
	}
	if len(sortable) == 0 {
		return nil
	}
	current, desc := ctrl.Sort()
	if current == "" {
		return ctrl.SetSort(sortable[0].Accessor, false)
	}
	for i, c := range sortable {
		if c.Accessor == current {
			if !desc {
				return ctrl.SetSort(current, true)
			}
			next := sortable[(i+1)%len(sortable)]
			return ctrl.SetSort(next.Accessor, false)
		}
	}
	return ctrl.SetSort(sortable[0].Accessor, false)
}

func visibleTableActions(t *tables.Table) []grid.TableAction {
	if t.TableActions == nil {
		return nil
	}
	all := t.TableActions()
	out := make([]grid.TableAction, 0, len(all))
	for _, action := range all {
		if !action.Hidden {
			out = append(out, action)
		}
	}
	return out
}

func (a *App) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := a.current()
	if t == nil {
		a.picker = nil
		return a, nil
	}
	ctrl := t.Controller
	length := 0
	switch a.picker.kind {
	case pickColumns:
		length = len(ctrl.Columns().Switchable())
	case pickFilters:
		length = len(ctrl.Filters().Filters())
	case pickActions:
		length = len(visibleTableActions(t))
	}
	switch {
	case msg.String() == "esc":
		a.picker = nil
	case key.Matches(msg, a.keys.Up):
		if a.picker.cursor > 0 {
			a.picker.cursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.picker.cursor < length-1 {
			a.picker.cursor++
		}
	case msg.Type == tea.KeyEnter || key.Matches(msg, a.keys.Select):
		return a.pickerSelect(t)
	}
	return a, nil
}

func (a *App) pickerSelect(t *tables.Table) (tea.Model, tea.Cmd) {
	ctrl := t.Controller
	switch a.picker.kind {
	case pickColumns:
		switchable := ctrl.Columns().Switchable()
		if a.picker.cursor < len(switchable) {
			accessor := switchable[a.picker.cursor].Accessor
			ctrl.Columns().Toggle(accessor)
			if a.prefs != nil {
				if err := a.prefs.SaveHiddenColumns(ctrl.Name(), ctrl.Columns().HiddenAccessors()); err != nil {
					a.setError(err)
				}
			}
		}
	case pickFilters:
		all := ctrl.Filters().Filters()
		if a.picker.cursor < len(all) {
			f := all[a.picker.cursor]
			if f.Value == "" {
				cmd, err := ctrl.SetFilter(f.Name, "true")
				if err != nil {
					a.setError(err)
					return a, nil
				}
				return a, cmd
			}
			return a, ctrl.ClearFilter(f.Name)
		}
	case pickActions:
		visible := visibleTableActions(t)
		if a.picker.cursor < len(visible) {
			action := visible[a.picker.cursor]
			if action.Disabled {
				a.setStatus(action.Title + " is unavailable")
				return a, nil
			}
			a.picker = nil
			if action.OnClick != nil {
				return a, action.OnClick()
			}
		}
	}
	return a, nil
}

func (a *App) setStatus(text string) {
	a.status = text
	a.statusErr = false
}

func (a *App) setError(err error) {
	if err == nil {
		return
	}
	a.status = err.Error()
	a.statusErr = true
}

func (a *App) View() string {
	t := a.current()
	if t == nil {
		return "no tables configured"
	}
	base := a.renderTable(t)
	if a.form != nil {
		return widgets.RenderPopup(base, a.form.View(), a.width, a.height)
	}
	if a.picker != nil {
		return widgets.RenderPopup(base, a.renderPicker(t), a.width, a.height)
	}
	if menu := a.openMenu(); menu != nil {
		card := widgets.Menu{Title: menu.Title, Items: menu.Visible(), Cursor: menu.Cursor()}.Render(a.width, a.height)
		return widgets.RenderPopup(base, card, a.width, a.height)
	}
	return base
}

func (a *App) renderTable(t *tables.Table) string {
	ctrl := t.Controller
	var b strings.Builder

	names := make([]string, len(a.tables))
	for i, tab := range a.tables {
		name := tab.Title
		if i == a.active {
			name = widgets.TitleStyle.Render(name)
		} else {
			name = widgets.FaintStyle.Render(name)
		}
		names[i] = name
	}
	b.WriteString(strings.Join(names, "  |  "))
	b.WriteString("\n\n")

	sortCol, sortDesc := ctrl.Sort()
	visible := ctrl.Columns().Visible()
	headers := make([]string, 0, len(visible)+1)
	for _, c := range visible {
		title := c.Title
		if c.Accessor == sortCol {
			if sortDesc {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		headers = append(headers, title)
	}
	headers = append(headers, "") // action trigger column

	rows := make([]widgets.Row, 0, len(ctrl.Rows()))
	for _, rec := range ctrl.Rows() {
		cells := make([]string, 0, len(visible)+1)
		for _, c := range visible {
			cells = append(cells, c.Cell(rec))
		}
		trigger := ""
		if grid.NewActionMenu("Actions", t.RowActions(rec)).HasTrigger() {
			trigger = "⋯"
		}
		cells = append(cells, trigger)
		pk, hasPK := ctrl.PrimaryKey(rec)
		row := widgets.Row{Cells: cells}
		if hasPK {
			row.Selected = ctrl.IsSelected(pk)
			row.Expanded = ctrl.IsExpanded(pk)
			if row.Expanded && t.ExpandDetail != nil {
				row.Detail = t.ExpandDetail(rec)
			}
		}
		rows = append(rows, row)
	}
	b.WriteString(widgets.Table{Headers: headers, Rows: rows, Cursor: ctrl.Cursor()}.Render(a.width, a.height-6))
	b.WriteString("\n\n")
	b.WriteString(a.renderFooter(t))
	return b.String()
}

func (a *App) renderFooter(t *tables.Table) string {
	ctrl := t.Controller
	parts := []string{fmt.Sprintf("page %d/%d", ctrl.Page(), ctrl.MaxPage())}
	if n := len(ctrl.SelectedIDs()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if active := ctrl.Filters().Active(); len(active) > 0 {
		names := make([]string, len(active))
		for i, f := range active {
			names[i] = f.Name
		}
		parts = append(parts, "filters: "+strings.Join(names, ","))
	}
	if ctrl.Loading() {
		parts = append(parts, a.spin.View()+"loading")
	}
	line := widgets.StatusStyle.Render(strings.Join(parts, "  "))
	status := a.status
	style := widgets.StatusStyle
	if a.statusErr {
		style = widgets.ErrorStyle
	}
	hints := widgets.FaintStyle.Render("[enter] actions  [space] select  [x] expand  [s] sort  [f] filter  [c] columns  [a] table actions  [r] refresh  [q] quit")
	return line + "\n" + style.Render(status) + "\n" + hints
}

func (a *App) renderPicker(t *tables.Table) string {
	ctrl := t.Controller
	var title string
	var lines []string
	switch a.picker.kind {
	case pickColumns:
		title = "Columns"
		for i, c := range ctrl.Columns().Switchable() {
			marker := "  "
			if i == a.picker.cursor {
				marker = "▶ "
			}
			state := "[ ]"
			if ctrl.Columns().IsVisible(c.Accessor) {
				state = "[x]"
			}
			lines = append(lines, fmt.Sprintf("%s%s %s", marker, state, c.Title))
		}
		lines = append(lines, "", "[enter] Toggle  [esc] Close")
	case pickFilters:
		title = "Filters"
		for i, f := range ctrl.Filters().Filters() {
			marker := "  "
			if i == a.picker.cursor {
				marker = "▶ "
			}
			state := "[ ]"
			if f.Value != "" {
				state = "[x]"
			}
			lines = append(lines, fmt.Sprintf("%s%s %s  %s", marker, state, f.Label, f.Description))
		}
		lines = append(lines, "", "[enter] Toggle  [esc] Close")
	case pickActions:
		title = "Table Actions"
		for i, action := range visibleTableActions(t) {
			marker := "  "
			if i == a.picker.cursor {
				marker = "▶ "
			}
			label := action.Title
			if action.Disabled {
				label = widgets.FaintStyle.Render(label + " (unavailable)")
			}
			lines = append(lines, marker+label)
		}
		lines = append(lines, "", "[enter] Run  [esc] Close")
	}
	return widgets.TitleStyle.Render(title) + "\n" + strings.Join(lines, "\n")
}
