package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNow(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	original := NowFunc
	defer func() { NowFunc = original }()

	NowFunc = Fixed(at)
	assert.Equal(t, time.UTC, Now().Location())
	assert.True(t, at.Equal(Now()))
}
