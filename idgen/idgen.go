// Package idgen provides the identifiers handed out by the layout engines:
// group ids for sibling clusters and uuids for freshly created tasks.
package idgen

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	nanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// GroupPrefix is prepended to every generated group id.
	GroupPrefix = "group-"

	// Alphabet defines the character set used for the random portion of a group id.
	Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	// Length is the number of random characters in a group id.
	Length = 9
)

// Generator hands out group ids.
type Generator interface {
	GroupID() string
}

// Random generates group ids backed by nanoid.
type Random struct{}

// GroupID returns group-<random>.
func (Random) GroupID() string {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		// nanoid only fails when the system entropy source does.
		return GroupPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:Length]
	}
	return GroupPrefix + id
}

// Counter generates deterministic group ids (group-1, group-2, ...).
// The zero value is ready to use and safe for concurrent use.
type Counter struct {
	n atomic.Int64
}

// GroupID returns the next sequential group id.
func (c *Counter) GroupID() string {
	return fmt.Sprintf("%s%d", GroupPrefix, c.n.Add(1))
}

// TaskUUID returns a random uuid with the hyphens stripped.
func TaskUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Default is the generator used when none is supplied.
var Default Generator = Random{}

// Or returns g, or Default when g is nil.
func Or(g Generator) Generator {
	if g == nil {
		return Default
	}
	return g
}
