package ops

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultListLimit is the fallback page size when neither the caller nor
// the config specifies one.
const DefaultListLimit = 20

// MaxListLimit bounds the page size of listing operations.
const MaxListLimit = 100

// Pagination describes the window of a listing result.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
