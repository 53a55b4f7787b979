package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleSatisfies(t *testing.T) {
	t.Run("admin satisfies admin and editor", func(t *testing.T) {
		assert.True(t, RoleAdmin.Satisfies(RoleAdmin))
		assert.True(t, RoleAdmin.Satisfies(RoleEditor))
	})

	t.Run("editor does not satisfy admin", func(t *testing.T) {
		assert.True(t, RoleEditor.Satisfies(RoleEditor))
		assert.False(t, RoleEditor.Satisfies(RoleAdmin))
	})

	t.Run("unknown roles satisfy nothing", func(t *testing.T) {
		assert.False(t, Role("owner").Satisfies(RoleEditor))
		assert.False(t, RoleAdmin.Satisfies(Role("owner")))
	})

	t.Run("IsValid", func(t *testing.T) {
		assert.True(t, RoleAdmin.IsValid())
		assert.True(t, RoleEditor.IsValid())
		assert.False(t, Role("").IsValid())
	})
}

func TestSessionIsExpiredAt(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{CreatedAt: now.Add(-time.Hour), ExpiresAt: now}

	assert.False(t, s.IsExpiredAt(now.Add(-time.Nanosecond)))
	assert.True(t, s.IsExpiredAt(now), "expiry instant itself is expired")
	assert.True(t, s.IsExpiredAt(now.Add(time.Second)))
}
