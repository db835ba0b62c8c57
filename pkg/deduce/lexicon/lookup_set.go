package lexicon

import "sort"

// LookupSet is a deduplicated string collection with a matching pipeline.
// Stored items keep their original form; the pipeline is applied to them
// once on insertion and to every probe string on lookup, so a lowercase
// pipeline yields case-insensitive membership.
//
// A LookupSet is safe for concurrent reads once it is no longer modified.
type LookupSet struct {
	pipeline Pipeline
	items    map[string]struct{}
	keys     map[string]int // matching key -> number of items mapping to it
}

// NewLookupSet creates an empty set with the given matching pipeline.
func NewLookupSet(pipeline ...Transform) *LookupSet {
	return &LookupSet{
		pipeline: Pipeline(pipeline),
		items:    make(map[string]struct{}),
		keys:     make(map[string]int),
	}
}

// Add inserts items. Empty strings are ignored.
func (s *LookupSet) Add(items ...string) {
	for _, item := range items {
		if item == "" {
			continue
		}
		if _, ok := s.items[item]; ok {
			continue
		}
		s.items[item] = struct{}{}
		s.keys[s.pipeline.Apply(item)]++
	}
}

// AddSet inserts every item of o.
func (s *LookupSet) AddSet(o *LookupSet) {
	if o == nil {
		return
	}
	for item := range o.items {
		s.Add(item)
	}
}

// Remove deletes item if present.
func (s *LookupSet) Remove(item string) {
	if _, ok := s.items[item]; !ok {
		return
	}
	delete(s.items, item)
	key := s.pipeline.Apply(item)
	if s.keys[key] <= 1 {
		delete(s.keys, key)
	} else {
		s.keys[key]--
	}
}

// Contains reports whether the probe matches a stored item under the
// matching pipeline. A nil set contains nothing.
func (s *LookupSet) Contains(probe string) bool {
	if s == nil {
		return false
	}
	_, ok := s.keys[s.pipeline.Apply(probe)]
	return ok
}

// Minus returns a copy of s without the items that o contains.
func (s *LookupSet) Minus(o *LookupSet) *LookupSet {
	out := NewLookupSet(s.pipeline...)
	for item := range s.items {
		if !o.Contains(item) {
			out.Add(item)
		}
	}
	return out
}

// Len returns the number of stored items.
func (s *LookupSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns the stored items in sorted order.
func (s *LookupSet) Items() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.items))
	for item := range s.items {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

// Pipeline returns the matching pipeline.
func (s *LookupSet) Pipeline() Pipeline {
	if s == nil {
		return nil
	}
	return s.pipeline
}
