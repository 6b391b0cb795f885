package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_PORT", "")
	t.Setenv("VIEW_TOKEN_SECRET", "")
	t.Setenv("VIEW_WINDOW", "")
	t.Setenv("AUDIT_BATCH_SIZE", "")

	s := Load()
	assert.Equal(t, "8080", s.AppPort)
	assert.Equal(t, "s3cret", s.ViewTokenSecret)
	assert.Equal(t, 24*time.Hour, s.ViewWindow)
	assert.Equal(t, DefaultViewMaxEntries, s.ViewMaxEntries)
	assert.Equal(t, 100, s.AuditBatchSize)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "a")
	t.Setenv("VIEW_TOKEN_SECRET", "b")
	t.Setenv("VIEW_WINDOW", "1h")
	t.Setenv("AUDIT_BATCH_SIZE", "7")
	t.Setenv("UNREAD_CACHE_TTL", "not-a-duration")

	s := Load()
	assert.Equal(t, "b", s.ViewTokenSecret)
	assert.Equal(t, time.Hour, s.ViewWindow)
	assert.Equal(t, 7, s.AuditBatchSize)
	assert.Equal(t, 5*time.Minute, s.UnreadCacheTTL)
}
