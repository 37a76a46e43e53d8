package store

import "fmt"

// StoreError marks any vector-store failure. Connection failures are
// fatal to the caller; no retry is attempted anywhere in the pipeline.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("vector store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
