package catalog

import "fmt"

// FetchError reports a failed catalog fetch. Status is 0 when no HTTP
// response was received.
type FetchError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch products from %s (status %d): %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch products from %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
