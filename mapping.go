package jdbcsink

import (
	"maps"
	"slices"
)

// Extractor turns a record payload into the ordered bindings for one row of
// its target table. Implementations decide which payload fields become
// columns and which of those columns are primary keys.
//
// The binding order an Extractor returns matters: it defines the column order
// of the generated statement and the identity of the group the row lands in.
// Two rows whose bindings name the same columns in a different order do not
// share a statement.
//
// Returning an empty slice skips the record silently (a no-op row, e.g. a
// delete with no representable payload). Extractors do not report errors
// mid-traversal; validation belongs in their construction.
type Extractor interface {
	// Table returns the target table rows extracted by this Extractor
	// belong to.
	Table() string

	// Extract returns the bindings for one row. rec is provided for
	// position-dependent extraction and diagnostics; payload is rec's
	// already-validated field map.
	Extract(payload map[string]any, rec Record) []Binding
}

// StatementBuilder renders the statement template shared by every row of a
// group. It is consulted exactly once per distinct group per traversal, with
// the non-key and key column names in the order they were first observed.
type StatementBuilder interface {
	Build(table string, nonKeyColumns, keyColumns []string) string
}

// StatementBuilderFunc adapts a plain function to the [StatementBuilder]
// interface.
type StatementBuilderFunc func(table string, nonKeyColumns, keyColumns []string) string

func (f StatementBuilderFunc) Build(table string, nonKeyColumns, keyColumns []string) string {
	return f(table, nonKeyColumns, keyColumns)
}

// Mapping pairs the extractor and statement builder for one origin.
type Mapping struct {
	Extractor Extractor
	Builder   StatementBuilder
}

// FieldExtractor is the default [Extractor]: it maps payload fields straight
// to columns of a single table.
//
// With a field list, only the named fields are extracted and bindings follow
// the list order; fields missing from a payload are skipped. Without one,
// every payload field is extracted in sorted name order so that payloads with
// the same field set always produce the same group key.
type FieldExtractor struct {
	table  string
	fields []string
	keys   map[string]struct{}
}

// NewFieldExtractor returns a FieldExtractor for table. keyFields names the
// primary-key columns; fields, when non-empty, is the ordered whitelist of
// payload fields to extract.
func NewFieldExtractor(table string, keyFields []string, fields ...string) *FieldExtractor {
	keys := make(map[string]struct{}, len(keyFields))
	for _, f := range keyFields {
		keys[f] = struct{}{}
	}
	return &FieldExtractor{table: table, fields: fields, keys: keys}
}

func (e *FieldExtractor) Table() string { return e.table }

func (e *FieldExtractor) Extract(payload map[string]any, _ Record) []Binding {
	names := e.fields
	if len(names) == 0 {
		names = slices.Sorted(maps.Keys(payload))
	}

	bindings := make([]Binding, 0, len(names))
	for _, name := range names {
		value, ok := payload[name]
		if !ok {
			continue
		}
		_, isKey := e.keys[name]
		bindings = append(bindings, Binding{Field: name, Value: value, Key: isKey})
	}
	return bindings
}
