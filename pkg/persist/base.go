// Package persist holds small persistence helpers shared by storage
// layers: id generation today, with room for more as storage needs grow.
package persist

import (
	"github.com/jaevor/go-nanoid"
)

// idGenerator creates short unique IDs.
var idGenerator func() string

func init() {
	gen, err := nanoid.Standard(21)
	if err != nil {
		panic("failed to create nanoid generator: " + err.Error())
	}
	idGenerator = gen
}

// NewID generates a new unique identifier.
func NewID() string {
	return idGenerator()
}
