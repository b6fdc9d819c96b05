// Package slugs turns stream ids into file names.
package slugs

import (
	"strconv"

	goslug "github.com/gosimple/slug"
)

// fallback names a stream whose id has no sluggable characters.
const fallback = "stream"

// FileSlug converts a stream id to a lowercase, filesystem-safe name.
// Ids with nothing to slug ("!!!") become "stream".
func FileSlug(id string) string {
	if slugged := goslug.Make(id); slugged != "" {
		return slugged
	}
	return fallback
}

// Namer hands out distinct slugs. Ids that slug to the same name get
// "-2", "-3", ... suffixes in the order they are seen.
type Namer struct {
	taken map[string]bool
}

// NewNamer returns an empty Namer.
func NewNamer() *Namer {
	return &Namer{taken: make(map[string]bool)}
}

// Next returns the first free slug for id.
func (n *Namer) Next(id string) string {
	base := FileSlug(id)
	name := base
	for i := 2; n.taken[name]; i++ {
		name = base + "-" + strconv.Itoa(i)
	}
	n.taken[name] = true
	return name
}
