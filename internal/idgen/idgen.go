package idgen

import "github.com/google/uuid"

// Namespace scopes name based identifiers
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/viant/careflow"))

// NewFunc returns a random identifier. Override in tests for determinism.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier
func New() string { return NewFunc() }

// Named returns a deterministic identifier derived from the supplied parts
func Named(parts ...string) string {
	var data []byte
	for i, part := range parts {
		if i > 0 {
			data = append(data, 0)
		}
		data = append(data, part...)
	}
	return uuid.NewSHA1(Namespace, data).String()
}
