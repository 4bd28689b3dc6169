package grid

import (
	"context"
	"net/url"
	"sort"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
)

// Fetcher retrieves one page of records from the remote list endpoint.
type Fetcher interface {
	List(ctx context.Context, resource string, query url.Values) (results []Record, count int, err error)
}

// ExpandPolicy decides per record whether an inline detail may be
// revealed beneath it.
type ExpandPolicy func(rec Record) bool

// ControllerConfig is the read-only configuration a table definition
// hands to NewController. It must not be mutated afterwards.
type ControllerConfig struct {
	// Name routes RowsLoadedMsg values back to this controller.
	Name string
	// URL is the remote list resource.
	URL string
	// Columns and Filters are declarative configuration consumed by
	// reference.
	Columns []Column
	Filters []Filter
	// PKField is the primary key field of returned records ("pk" when
	// empty).
	PKField string
	// PageSize defaults to 25.
	PageSize int
	// BaseQuery holds fixed parameters every fetch carries (e.g. the
	// parent order id, detail serialization flags).
	BaseQuery url.Values
	// Expandable gates row expansion; nil means no row expands.
	Expandable ExpandPolicy
}

// Controller owns the full table state: pagination, sort, filters,
// selection, expansion, the current row set and loading/error state.
// It schedules fetches as bubbletea commands and applies only the
// response matching the most recently issued request.
type Controller struct {
	ctx context.Context
	cfg ControllerConfig

	columns *ColumnSet
	filters *FilterSet
	fetcher Fetcher

	page     int
	pageSize int
	sortCol  string
	sortDesc bool

	rows     []Record
	count    int
	cursor   int
	selected map[int64]struct{}
	expanded map[int64]struct{}

	loading bool
	err     error

	// seq fingerprints the latest issued request; older in-flight
	// responses are discarded on arrival.
	seq int
}

func NewController(ctx context.Context, fetcher Fetcher, cfg ControllerConfig) *Controller {
	if cfg.PKField == "" {
		cfg.PKField = "pk"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 25
	}
	return &Controller{
		ctx:      ctx,
		cfg:      cfg,
		columns:  NewColumnSet(cfg.Columns),
		filters:  NewFilterSet(cfg.Filters...),
		fetcher:  fetcher,
		page:     1,
		pageSize: cfg.PageSize,
		selected: make(map[int64]struct{}),
		expanded: make(map[int64]struct{}),
	}
}

func (c *Controller) Name() string        { return c.cfg.Name }
func (c *Controller) URL() string         { return c.cfg.URL }
func (c *Controller) Columns() *ColumnSet { return c.columns }
func (c *Controller) Filters() *FilterSet { return c.filters }
func (c *Controller) Rows() []Record      { return c.rows }
func (c *Controller) Count() int          { return c.count }
func (c *Controller) Loading() bool       { return c.loading }
func (c *Controller) Err() error          { return c.err }
func (c *Controller) Page() int           { return c.page }
func (c *Controller) PageSize() int       { return c.pageSize }

// Sort reports the active sort column and direction.
func (c *Controller) Sort() (column string, desc bool) {
	return c.sortCol, c.sortDesc
}

// MaxPage derives the last page number from the last known count.
func (c *Controller) MaxPage() int {
	if c.count <= 0 || c.pageSize <= 0 {
		return 1
	}
	return (c.count + c.pageSize - 1) / c.pageSize
}

// PrimaryKey extracts the record's id using the configured key field.
func (c *Controller) PrimaryKey(rec Record) (int64, bool) {
	return AsInt64(Resolve(rec, c.cfg.PKField))
}

// Init issues the first fetch.
func (c *Controller) Init() tea.Cmd { return c.fetch() }

// Refresh refetches the current page with unchanged parameters.
func (c *Controller) Refresh() tea.Cmd { return c.fetch() }

// SetPage moves to page n (clamped to [1, MaxPage]) and refetches.
func (c *Controller) SetPage(n int) tea.Cmd {
	if n < 1 {
		n = 1
	}
	if m := c.MaxPage(); c.count > 0 && n > m {
		n = m
	}
	c.page = n
	return c.fetch()
}

// SetSort orders by a sortable column and refetches. Unknown or
// unsortable accessors leave the state untouched.
func (c *Controller) SetSort(accessor string, desc bool) tea.Cmd {
	if _, ok := c.columns.SortableColumn(accessor); !ok {
		return nil
	}
	c.sortCol = accessor
	c.sortDesc = desc
	c.page = 1
	return c.fetch()
}

// SetFilter assigns a declared filter and refetches from page one.
func (c *Controller) SetFilter(name, value string) (tea.Cmd, error) {
	if err := c.filters.Set(name, value); err != nil {
		return nil, err
	}
	c.page = 1
	return c.fetch(), nil
}

// ClearFilter deactivates one filter and refetches.
func (c *Controller) ClearFilter(name string) tea.Cmd {
	c.filters.Clear(name)
	c.page = 1
	return c.fetch()
}

func (c *Controller) fetch() tea.Cmd {
	c.loading = true
	c.seq++
	seq := c.seq
	query := c.buildQuery()
	ctx, fetcher := c.ctx, c.fetcher
	name, resource := c.cfg.Name, c.cfg.URL
	return func() tea.Msg {
		results, count, err := fetcher.List(ctx, resource, query)
		return RowsLoadedMsg{Table: name, Seq: seq, Count: count, Results: results, Err: err}
	}
}

func (c *Controller) buildQuery() url.Values {
	query := url.Values{}
	for k, vs := range c.cfg.BaseQuery {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	query.Set("page", strconv.Itoa(c.page))
	query.Set("page_size", strconv.Itoa(c.pageSize))
	if c.sortCol != "" {
		if col, ok := c.columns.SortableColumn(c.sortCol); ok {
			key := col.SortKey()
			if c.sortDesc {
				key = "-" + key
			}
			query.Set("ordering", key)
		}
	}
	c.filters.Query(query)
	return query
}

// HandleRows applies a fetch result. It returns false when the message
// belongs to another table or was superseded by a newer request, in
// which case nothing changes. On error the last good rows are kept.
func (c *Controller) HandleRows(msg RowsLoadedMsg) bool {
	if msg.Table != c.cfg.Name {
		return false
	}
	if msg.Seq != c.seq {
		// A newer fetch is already in flight or applied.
		return false
	}
	c.loading = false
	if msg.Err != nil {
		c.err = msg.Err
		return true
	}
	c.err = nil
	c.rows = msg.Results
	c.count = msg.Count
	c.pruneStale()
	if c.cursor >= len(c.rows) {
		c.cursor = 0
	}
	return true
}

// pruneStale drops selection and expansion entries whose ids are gone
// from the current row set, keeping both sets subsets of present keys.
func (c *Controller) pruneStale() {
	present := make(map[int64]struct{}, len(c.rows))
	for _, rec := range c.rows {
		if pk, ok := c.PrimaryKey(rec); ok {
			present[pk] = struct{}{}
		}
	}
	for id := range c.selected {
		if _, ok := present[id]; !ok {
			delete(c.selected, id)
		}
	}
	for id := range c.expanded {
		if _, ok := present[id]; !ok {
			delete(c.expanded, id)
		}
	}
}

// Cursor handling; the cursor is presentation state and never triggers
// a fetch.

func (c *Controller) Cursor() int { return c.cursor }

func (c *Controller) MoveCursor(delta int) {
	next := c.cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= len(c.rows) {
		next = len(c.rows) - 1
	}
	if next < 0 {
		next = 0
	}
	c.cursor = next
}

// Current returns the record under the cursor.
func (c *Controller) Current() (Record, bool) {
	if c.cursor < 0 || c.cursor >= len(c.rows) {
		return nil, false
	}
	return c.rows[c.cursor], true
}

// Selection operations mutate the selected set only; no fetch.

func (c *Controller) ToggleSelection(id int64) {
	if _, ok := c.selected[id]; ok {
		delete(c.selected, id)
		return
	}
	c.selected[id] = struct{}{}
}

func (c *Controller) ClearSelected() {
	c.selected = make(map[int64]struct{})
}

func (c *Controller) IsSelected(id int64) bool {
	_, ok := c.selected[id]
	return ok
}

// SelectedIDs returns the selected primary keys in ascending order.
func (c *Controller) SelectedIDs() []int64 {
	out := make([]int64, 0, len(c.selected))
	for id := range c.selected {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SelectedRecords returns the selected rows in row order.
func (c *Controller) SelectedRecords() []Record {
	out := make([]Record, 0, len(c.selected))
	for _, rec := range c.rows {
		if pk, ok := c.PrimaryKey(rec); ok && c.IsSelected(pk) {
			out = append(out, rec)
		}
	}
	return out
}

// Expansion operations.

// CanExpand applies the caller-supplied policy. An already expanded row
// stays collapsible even if the policy no longer holds for it.
func (c *Controller) CanExpand(rec Record) bool {
	pk, ok := c.PrimaryKey(rec)
	if ok && c.IsExpanded(pk) {
		return true
	}
	return c.cfg.Expandable != nil && c.cfg.Expandable(rec)
}

func (c *Controller) ToggleExpansion(id int64) {
	if _, ok := c.expanded[id]; ok {
		delete(c.expanded, id)
		return
	}
	c.expanded[id] = struct{}{}
}

func (c *Controller) IsExpanded(id int64) bool {
	_, ok := c.expanded[id]
	return ok
}

// UpdateRecord patches exactly one row in place by primary key, with no
// network round trip. Used by edit flows whose success response is the
// complete updated record.
func (c *Controller) UpdateRecord(patched Record) bool {
	pk, ok := AsInt64(Resolve(patched, c.cfg.PKField))
	if !ok {
		return false
	}
	for i, rec := range c.rows {
		cur, ok := c.PrimaryKey(rec)
		if ok && cur == pk {
			c.rows[i] = patched
			return true
		}
	}
	return false
}
