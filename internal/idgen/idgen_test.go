package idgen

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNamed(t *testing.T) {
	first := Named("prior-auth", "1.0.0")
	assert.Equal(t, first, Named("prior-auth", "1.0.0"))
	assert.NotEqual(t, first, Named("prior-auth", "1.0.1"))
	assert.NotEqual(t, Named("ab", "c"), Named("a", "bc"))

	parsed, err := uuid.Parse(first)
	assert.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())
}

func TestNew(t *testing.T) {
	defer func(fn func() string) { NewFunc = fn }(NewFunc)
	NewFunc = func() string { return "fixed" }
	assert.Equal(t, "fixed", New())
}
