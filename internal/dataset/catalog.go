package dataset

import (
	"errors"
	"fmt"
)

// ErrRejected marks a dataset identifier that is not on the allow-list.
// The message deliberately carries no filesystem or URL detail.
var ErrRejected = errors.New("dataset not available for lookup")

// Catalog is the explicit allow-list of dataset identifiers. Every
// identifier is validated here before any file path or URL is derived from
// it, so untrusted input can never steer the fetcher outside the list.
type Catalog struct {
	order   []string
	allowed map[string]struct{}
}

// NewCatalog builds a catalog from the configured identifier list.
func NewCatalog(ids []string) *Catalog {
	c := &Catalog{allowed: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if _, dup := c.allowed[id]; dup {
			continue
		}
		c.allowed[id] = struct{}{}
		c.order = append(c.order, id)
	}
	return c
}

// Resolve validates id against the allow-list and returns the dataset file
// name for it. Unknown identifiers fail with ErrRejected and no I/O.
func (c *Catalog) Resolve(id string) (string, error) {
	if _, ok := c.allowed[id]; !ok {
		return "", fmt.Errorf("dataset %q: %w", id, ErrRejected)
	}
	return id + ".db", nil
}

// Contains reports whether id is on the allow-list.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.allowed[id]
	return ok
}

// IDs returns the allow-listed identifiers in configuration order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
