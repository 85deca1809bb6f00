// Package credential resolves the upstream API key each handler calls with.
package credential

import (
	"errors"
	"fmt"
	"sort"
)

// Handler names. Each one is configured with its own key even though both
// call the same upstream endpoint.
const (
	Polish    = "polish"
	Framework = "framework"
)

// ErrMissing is returned by Require when no key is configured.
var ErrMissing = errors.New("credential: not configured")

// Resolver looks up the secret for a handler.
type Resolver interface {
	Lookup(handler string) (string, bool)
}

// Static is a Resolver over a fixed map built once at startup.
type Static map[string]string

func (s Static) Lookup(handler string) (string, bool) {
	key, ok := s[handler]
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// Handlers lists every handler name known to s, sorted.
func (s Static) Handlers() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Require is Lookup with the missing case as an error.
func Require(r Resolver, handler string) (string, error) {
	key, ok := r.Lookup(handler)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissing, handler)
	}
	return key, nil
}
