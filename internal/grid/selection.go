package grid

import "sort"

// Selection is the set of day keys whose distance label is revealed.
// The zero value is ready to use.
type Selection struct {
	keys map[string]struct{}
}

// NewSelection returns a Selection with keys already toggled on.
func NewSelection(keys ...string) *Selection {
	s := &Selection{}
	for _, k := range keys {
		s.Toggle(k)
	}
	return s
}

// Toggle flips key and reports whether it is now selected.
func (s *Selection) Toggle(key string) bool {
	if s.keys == nil {
		s.keys = make(map[string]struct{})
	}
	if _, ok := s.keys[key]; ok {
		delete(s.keys, key)
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

// Has reports whether key is selected. A nil Selection selects nothing.
func (s *Selection) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.keys[key]
	return ok
}

// Keys returns the selected keys in calendar order.
func (s *Selection) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
