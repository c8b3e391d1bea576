package controller

import "sort"

// Selection is the set of checked record ids.
//
// It does not know which records are rendered; List keeps it a subset of
// the visible window by calling Retain whenever the window is replaced.
type Selection struct {
	ids map[string]struct{}
}

// Toggle flips one id.
func (s *Selection) Toggle(id string) {
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// SelectAll adds every id. Calling it twice changes nothing.
func (s *Selection) SelectAll(ids []string) {
	if s.ids == nil {
		s.ids = make(map[string]struct{}, len(ids))
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// ToggleAll selects every id, or clears the set when all of them are
// already selected.
func (s *Selection) ToggleAll(ids []string) {
	if len(ids) > 0 && s.HasAll(ids) {
		s.Clear()
		return
	}
	s.SelectAll(ids)
}

// Clear empties the set.
func (s *Selection) Clear() {
	s.ids = nil
}

// Retain drops every id not in keep.
func (s *Selection) Retain(keep []string) {
	if len(s.ids) == 0 {
		return
	}
	allowed := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		allowed[id] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := allowed[id]; !ok {
			delete(s.ids, id)
		}
	}
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// HasAll reports whether every id is selected.
func (s *Selection) HasAll(ids []string) bool {
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids, sorted.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
