package aapi

import "fmt"

// TransportError is a failed page request. Records already yielded before
// it remain valid, so callers may treat the fetch as incomplete rather than
// wrong.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s %d: %s", ErrMsgUnexpectedStatus, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrMsgRequestFailed, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Transport marks the error as a transport failure.
func (e *TransportError) Transport() bool { return true }
