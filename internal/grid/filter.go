package grid

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Filter declares one query-parameter filter. Name maps 1:1 to the
// query parameter the backend expects; an empty Value means inactive.
type Filter struct {
	Name        string
	Label       string
	Description string
	Value       string
}

// FilterSet holds the declared filters in order. Later declarations
// with a duplicate name overwrite earlier ones.
type FilterSet struct {
	filters []Filter
}

func NewFilterSet(filters ...Filter) *FilterSet {
	s := &FilterSet{}
	for _, f := range filters {
		if i := s.index(f.Name); i >= 0 {
			s.filters[i] = f
			continue
		}
		s.filters = append(s.filters, f)
	}
	return s
}

func (s *FilterSet) index(name string) int {
	for i, f := range s.filters {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Filters returns all declared filters in order.
func (s *FilterSet) Filters() []Filter { return s.filters }

// Get returns the filter with the given name.
func (s *FilterSet) Get(name string) (Filter, bool) {
	if i := s.index(name); i >= 0 {
		return s.filters[i], true
	}
	return Filter{}, false
}

// Set assigns a value to a declared filter. Unknown names are rejected,
// with a nearest-name hint when a close match exists.
func (s *FilterSet) Set(name, value string) error {
	i := s.index(name)
	if i < 0 {
		if hint := s.suggest(name); hint != "" {
			return fmt.Errorf("unknown filter %q (did you mean %q?)", name, hint)
		}
		return fmt.Errorf("unknown filter %q", name)
	}
	s.filters[i].Value = value
	return nil
}

// Clear deactivates one filter; ClearAll deactivates every filter.
func (s *FilterSet) Clear(name string) {
	if i := s.index(name); i >= 0 {
		s.filters[i].Value = ""
	}
}

func (s *FilterSet) ClearAll() {
	for i := range s.filters {
		s.filters[i].Value = ""
	}
}

// Active returns the filters with a non-empty value, in order.
func (s *FilterSet) Active() []Filter {
	out := make([]Filter, 0, len(s.filters))
	for _, f := range s.filters {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}

// Query adds each active filter to the outgoing query, parameter names
// verbatim.
func (s *FilterSet) Query(v url.Values) {
	for _, f := range s.Active() {
		v.Set(f.Name, f.Value)
	}
}

func (s *FilterSet) suggest(name string) string {
	best := ""
	bestDist := 4 // anything further is noise, not a typo
	lower := strings.ToLower(name)
	for _, f := range s.filters {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(f.Name))
		if d < bestDist {
			best, bestDist = f.Name, d
		}
	}
	return best
}
