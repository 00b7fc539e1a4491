package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucket_RefillsEverySecond(t *testing.T) {
	now := time.Unix(1000, 0)
	tb := NewTokenBucket(2)
	tb.now = func() time.Time { return now }
	tb.lastSec = now.Unix()

	assert.True(t, tb.allow())
	assert.True(t, tb.allow())
	assert.False(t, tb.allow())

	now = now.Add(time.Second)
	assert.True(t, tb.allow())
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	h := RateLimit(1)(ok)
	codes := []int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/proposals", nil))
		codes = append(codes, rec.Code)
	}
	assert.Contains(t, codes, http.StatusTooManyRequests)

	rec := httptest.NewRecorder()
	RateLimit(0)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
