package jdbcsink

import "strings"

// groupKey derives the identity of rows that can share one statement: the
// table name followed by the non-key field names in their given order, then
// the key field names in theirs. Any difference in field set, order, or
// key/non-key split yields a different key.
//
// Callers filter empty binding lists before deriving keys; an empty list here
// is a programmer error.
func groupKey(table string, bindings []Binding) string {
	if len(bindings) == 0 {
		panic("jdbcsink: group key requires at least one binding")
	}

	var sb strings.Builder
	sb.WriteString(table)
	for _, b := range bindings {
		if !b.Key {
			sb.WriteString(b.Field)
		}
	}
	for _, b := range bindings {
		if b.Key {
			sb.WriteString(b.Field)
		}
	}
	return sb.String()
}

// partitionColumns splits binding field names into non-key and key column
// lists, preserving relative order within each.
func partitionColumns(bindings []Binding) (nonKey, key []string) {
	for _, b := range bindings {
		if b.Key {
			key = append(key, b.Field)
		} else {
			nonKey = append(nonKey, b.Field)
		}
	}
	return nonKey, key
}

// group accumulates the rows for one statement template. The template is
// computed when the group is created and frozen; rows only grow until the
// group is emitted, after which the group is gone from the store.
type group struct {
	statement string
	rows      [][]Binding
}

// groupStore holds the partially-filled groups of one traversal, keyed by
// group key. Keys are also kept in creation order, which drives the
// tie-break whenever several groups are equally eligible for emission:
// first created, first emitted.
//
// Templates are memoized for the traversal's lifetime, not the group's: a
// key that recurs after its group was emitted gets a fresh group but the
// frozen template, so the statement builder runs at most once per distinct
// key per traversal.
type groupStore struct {
	groups    map[string]*group
	order     []string
	templates map[string]string
}

func newGroupStore() *groupStore {
	return &groupStore{
		groups:    make(map[string]*group),
		templates: make(map[string]string),
	}
}

func (s *groupStore) len() int { return len(s.groups) }

// ensure returns the group for key, creating it on first sight. build runs
// at most once per key per traversal, even when the key recurs after an
// emission.
func (s *groupStore) ensure(key string, build func() string) *group {
	if g, ok := s.groups[key]; ok {
		return g
	}
	stmt, ok := s.templates[key]
	if !ok {
		stmt = build()
		s.templates[key] = stmt
	}
	g := &group{statement: stmt}
	s.groups[key] = g
	s.order = append(s.order, key)
	return g
}

// keyAtSize returns the earliest-created key whose group holds exactly n
// rows, if any.
func (s *groupStore) keyAtSize(n int) (string, bool) {
	for _, key := range s.order {
		if len(s.groups[key].rows) == n {
			return key, true
		}
	}
	return "", false
}

// first returns the earliest-created remaining key. The store must be
// non-empty.
func (s *groupStore) first() string { return s.order[0] }

// remove detaches and returns the group for key. The key's memoized
// template stays behind for any later recurrence.
func (s *groupStore) remove(key string) *group {
	g := s.groups[key]
	delete(s.groups, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return g
}
