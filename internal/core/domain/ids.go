package domain

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// ID prefixes for persisted entities.
const (
	PrefixUser  = "usr"
	PrefixCase  = "case"
	PrefixEvent = "evt"
)

// NewID returns a K-sortable, prefix-qualified identifier ("case_01h2x…").
// It panics on an invalid prefix, which is a programming error.
func NewID(prefix string) string {
	tid, err := typeid.Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("domain: invalid id prefix %q: %v", prefix, err))
	}
	return tid.String()
}
