package jdbcsink

import (
	"errors"
	"fmt"
)

// ErrExhausted is returned by [Iterator.Next] when no pending records and no
// buffered groups remain. It is the normal end of a traversal, not a failure,
// and plays the same role io.EOF plays for readers: test for it with
// errors.Is before treating a Next error as fatal.
var ErrExhausted = errors.New("jdbcsink: no more batches")

// MalformedPayloadError reports a record whose payload is absent or not a
// field map. It is fatal: the traversal is aborted and every subsequent Next
// call returns the same error.
type MalformedPayloadError struct {
	Origin    string
	Partition int32
	Offset    int64
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("jdbcsink: payload on origin %s partition %d offset %d is not a field map",
		e.Origin, e.Partition, e.Offset)
}
