package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort by creation time, so they are
// used directly as MongoDB _id values for spots, plans and users.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
