package store

import (
	"errors"
	"fmt"
)

// TransportError is any non-2xx response or network-level failure from the
// remote store. The response body text is carried verbatim so the caller can
// surface the store's own message (constraint violations included) without
// parsing it into a typed reason.
type TransportError struct {
	Status int    // HTTP status, 0 for network-level failures
	Body   string // response body text, or the underlying error message
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("store: request failed: %s", e.Body)
	}
	if e.Body == "" {
		return fmt.Sprintf("store: status %d", e.Status)
	}
	return fmt.Sprintf("store: status %d: %s", e.Status, e.Body)
}

// AsTransportError unwraps err into a *TransportError if it is one.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
