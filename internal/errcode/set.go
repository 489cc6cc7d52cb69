package errcode

import (
	"slices"
)

// Set is an unordered collection of codes with deterministic iteration via Sorted.
type Set struct {
	m map[Code]struct{}
}

// NewSet returns a set holding codes.
func NewSet(codes ...Code) *Set {
	s := &Set{m: make(map[Code]struct{}, len(codes))}
	for _, c := range codes {
		s.m[c] = struct{}{}
	}
	return s
}

// Add inserts c and reports whether it was new.
func (s *Set) Add(c Code) bool {
	if s.m == nil {
		s.m = make(map[Code]struct{})
	}
	if _, ok := s.m[c]; ok {
		return false
	}
	s.m[c] = struct{}{}
	return true
}

// Has reports membership. A nil set is empty.
func (s *Set) Has(c Code) bool {
	if s == nil {
		return false
	}
	_, ok := s.m[c]
	return ok
}

// Len returns the number of codes.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.m)
}

// Sorted returns the members in ascending order.
func (s *Set) Sorted() []Code {
	if s == nil {
		return nil
	}
	out := make([]Code, 0, len(s.m))
	for c := range s.m {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// FromStrings converts a configured list into a Set, skipping blanks.
func FromStrings(values []string) *Set {
	s := NewSet()
	for _, v := range values {
		if v == "" {
			continue
		}
		s.Add(Code(v))
	}
	return s
}
