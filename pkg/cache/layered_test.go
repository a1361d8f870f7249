package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLayeredL1TTLIsCapped(t *testing.T) {
	lc := &LayeredCache{memTTL: 30 * time.Second}

	assert.Equal(t, 30*time.Second, lc.l1TTL(0), "no expiry still ages out of L1")
	assert.Equal(t, 30*time.Second, lc.l1TTL(time.Hour))
	assert.Equal(t, 5*time.Second, lc.l1TTL(5*time.Second))
}
