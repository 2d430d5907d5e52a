package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestIPLimiterEvictsIdleBuckets(t *testing.T) {
	l := newIPLimiter(rate.Limit(1), 1)
	defer l.close()

	assert.True(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"))

	l.mu.Lock()
	l.limiters["10.0.0.1"].lastSeen = time.Now().Add(-idleCutoff - time.Minute)
	l.mu.Unlock()

	l.evictIdle(time.Now().Add(-idleCutoff))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.limiters, "10.0.0.1")
	assert.Contains(t, l.limiters, "10.0.0.2")
}

func TestIPLimiterBucketsArePerIP(t *testing.T) {
	l := newIPLimiter(rate.Limit(0), 1)
	defer l.close()

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"), "burst of one is spent")
	assert.True(t, l.allow("10.0.0.2"), "other clients keep their own bucket")
}

func TestIPLimiterCloseIsIdempotent(t *testing.T) {
	l := newIPLimiter(rate.Limit(1), 1)
	l.close()
	l.close()
}
