package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitConsumesBurstWithoutBlocking(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	start := time.Now()
	rl.Wait()
	rl.Wait()
	rl.Wait()
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestWaitBlocksWhenExhausted(t *testing.T) {
	rl := NewRateLimiter(1, 300*time.Millisecond)

	rl.Wait()
	start := time.Now()
	rl.Wait()
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestRefillCapsAtMaxTokens(t *testing.T) {
	rl := NewRateLimiter(2, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	rl.mu.Lock()
	rl.refill()
	tokens := rl.tokens
	rl.mu.Unlock()

	assert.Equal(t, 2, tokens)
}
