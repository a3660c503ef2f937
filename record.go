package jdbcsink

// Record is one unit pulled from the source stream. Origin identifies where
// the record came from (e.g., a topic) and selects its target mapping;
// Partition and Offset exist for diagnostics only.
//
// Payload must be a non-nil map[string]any to be processed. A nil payload or
// any other dynamic type is malformed and aborts the traversal.
type Record struct {
	Origin    string
	Partition int32
	Offset    int64
	Payload   any
}

// Binding is one field's name, value, and key-role for a single row. Bindings
// are created fresh per record by an Extractor and are never mutated after
// creation.
type Binding struct {
	Field string
	Value any
	Key   bool
}
