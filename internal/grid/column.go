package grid

import (
	"fmt"
	"math"
	"strconv"
)

// Column declares how one field of a record is presented.
type Column struct {
	Accessor string
	Title    string
	Sortable bool
	// Ordering overrides the sort key sent to the server; the accessor
	// is used when empty.
	Ordering string
	// Locked columns are always shown and never offered in the
	// visibility picker.
	Locked bool
	// Hidden columns start out invisible; the user can enable them
	// unless the column is locked.
	Hidden bool
	// Render produces the cell content from the full record. When nil
	// the raw accessor value is shown.
	Render func(rec Record) string
}

// Cell renders the column's content for one record.
func (c Column) Cell(rec Record) string {
	if c.Render != nil {
		return c.Render(rec)
	}
	return FormatValue(Resolve(rec, c.Accessor))
}

// SortKey is the ordering field sent to the remote resource.
func (c Column) SortKey() string {
	if c.Ordering != "" {
		return c.Ordering
	}
	return c.Accessor
}

// FormatValue renders a raw accessor value for display. Absent values
// show as a dash, whole floats drop their fraction (JSON numbers decode
// as float64).
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		if t == "" {
			return "-"
		}
		return t
	case bool:
		if t {
			return "yes"
		}
		return "no"
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// ColumnSet owns the declared columns plus the user's visibility
// choices. The declaration slice is treated as read-only configuration.
type ColumnSet struct {
	cols   []Column
	hidden map[string]bool
}

func NewColumnSet(cols []Column) *ColumnSet {
	s := &ColumnSet{cols: cols, hidden: make(map[string]bool, len(cols))}
	for _, c := range cols {
		if c.Hidden && !c.Locked {
			s.hidden[c.Accessor] = true
		}
	}
	return s
}

// Columns returns every declared column in order.
func (s *ColumnSet) Columns() []Column { return s.cols }

// Visible returns the columns currently shown, in declaration order.
func (s *ColumnSet) Visible() []Column {
	out := make([]Column, 0, len(s.cols))
	for _, c := range s.cols {
		if c.Locked || !s.hidden[c.Accessor] {
			out = append(out, c)
		}
	}
	return out
}

// Switchable returns the columns offered in the visibility picker.
func (s *ColumnSet) Switchable() []Column {
	out := make([]Column, 0, len(s.cols))
	for _, c := range s.cols {
		if !c.Locked {
			out = append(out, c)
		}
	}
	return out
}

// IsVisible reports whether the column with the given accessor is shown.
func (s *ColumnSet) IsVisible(accessor string) bool {
	for _, c := range s.cols {
		if c.Accessor == accessor {
			return c.Locked || !s.hidden[accessor]
		}
	}
	return false
}

// Toggle flips visibility for a switchable column. Locked and unknown
// accessors are ignored.
func (s *ColumnSet) Toggle(accessor string) {
	for _, c := range s.cols {
		if c.Accessor != accessor {
			continue
		}
		if c.Locked {
			return
		}
		s.hidden[accessor] = !s.hidden[accessor]
		return
	}
}

// SetHidden forces visibility state, used when restoring saved
// preferences. Locked columns cannot be hidden.
func (s *ColumnSet) SetHidden(accessor string, hidden bool) {
	for _, c := range s.cols {
		if c.Accessor != accessor {
			continue
		}
		if c.Locked {
			return
		}
		if hidden {
			s.hidden[accessor] = true
		} else {
			delete(s.hidden, accessor)
		}
		return
	}
}

// HiddenAccessors lists the currently hidden columns, for persistence.
func (s *ColumnSet) HiddenAccessors() []string {
	out := make([]string, 0, len(s.hidden))
	for _, c := range s.cols {
		if !c.Locked && s.hidden[c.Accessor] {
			out = append(out, c.Accessor)
		}
	}
	return out
}

// SortableColumn finds the column matching an accessor if it offers
// sorting.
func (s *ColumnSet) SortableColumn(accessor string) (Column, bool) {
	for _, c := range s.cols {
		if c.Accessor == accessor && c.Sortable {
			return c, true
		}
	}
	return Column{}, false
}
