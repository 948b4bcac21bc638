package provider

import (
	"errors"
	"fmt"

	"github.com/casualjim/persona/personality"
)

// Errors surfaced while reading a vendor response.
var (
	ErrUnreadableResponse = errors.New("response body is not readable")
	ErrMalformedFragment  = errors.New("malformed stream fragment")
)

// HTTPError is returned when a vendor answers with a non-success status.
type HTTPError struct {
	Provider personality.Name
	Status   int
	Body     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Provider.Title(), e.Status, e.Body)
}
