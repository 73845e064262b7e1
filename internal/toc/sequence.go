package toc

import "strconv"

// DefaultIDPrefix is prepended to synthesized anchor ids.
const DefaultIDPrefix = "NCXGen"

// IDSequence issues anchor ids of the form {prefix}{n} for a single run.
// Ids listed as taken are skipped.
type IDSequence struct {
	prefix string
	next   int
	taken  map[string]bool
	issued int
}

// NewIDSequence creates a sequence starting at {prefix}1.
func NewIDSequence(prefix string) *IDSequence {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	return &IDSequence{
		prefix: prefix,
		next:   1,
		taken:  make(map[string]bool),
	}
}

// Reserve marks ids that already exist in the document.
func (s *IDSequence) Reserve(ids map[string]bool) {
	for id := range ids {
		s.taken[id] = true
	}
}

// Next returns the next unused id.
func (s *IDSequence) Next() string {
	for {
		id := s.prefix + strconv.Itoa(s.next)
		s.next++
		if s.taken[id] {
			continue
		}
		s.taken[id] = true
		s.issued++
		return id
	}
}

// Issued returns how many ids the sequence has handed out.
func (s *IDSequence) Issued() int {
	return s.issued
}
