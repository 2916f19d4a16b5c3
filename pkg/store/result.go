package store

import "fmt"

// ItemError records one failed item inside a bulk write.
type ItemError struct {
	ID     string
	Reason string
}

// BulkResult is the uniform outcome of every bulk insert/update. Errors
// non-empty means at least one item failed and the caller must treat the
// whole batch as failed; the store never rolls back the items that did
// land.
type BulkResult struct {
	Errors []ItemError
	Items  int
}

// Failed reports whether the batch must be treated as failed.
func (r BulkResult) Failed() bool {
	return len(r.Errors) > 0
}

// FirstError returns an error naming the first failing item, or nil.
func (r BulkResult) FirstError() error {
	if len(r.Errors) == 0 {
		return nil
	}
	e := r.Errors[0]
	return fmt.Errorf("store: bulk write failed on item %s: %s", e.ID, e.Reason)
}

// BulkFailure builds a single-item failed result from an error.
func BulkFailure(id string, err error) BulkResult {
	return BulkResult{Errors: []ItemError{{ID: id, Reason: err.Error()}}}
}
