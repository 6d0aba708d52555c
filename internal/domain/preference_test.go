package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestNotificationPreference_InMuteWindow(t *testing.T) {
	t.Run("no window configured", func(t *testing.T) {
		pref := DefaultPreference(uuid.New())
		assert.False(t, pref.InMuteWindow(3))
	})

	t.Run("same-day window", func(t *testing.T) {
		pref := &NotificationPreference{MuteFrom: intPtr(9), MuteTo: intPtr(17)}

		assert.True(t, pref.InMuteWindow(9))
		assert.True(t, pref.InMuteWindow(12))
		assert.False(t, pref.InMuteWindow(17))
		assert.False(t, pref.InMuteWindow(20))
		assert.False(t, pref.InMuteWindow(3))
	})

	t.Run("window spanning midnight", func(t *testing.T) {
		pref := &NotificationPreference{MuteFrom: intPtr(22), MuteTo: intPtr(6)}

		assert.True(t, pref.InMuteWindow(23))
		assert.True(t, pref.InMuteWindow(0))
		assert.True(t, pref.InMuteWindow(5))
		assert.False(t, pref.InMuteWindow(6))
		assert.False(t, pref.InMuteWindow(10))
		assert.False(t, pref.InMuteWindow(21))
	})
}

func TestNotificationPreference_ResolveChannel(t *testing.T) {
	userID := uuid.New()

	t.Run("default preference uses email", func(t *testing.T) {
		pref := DefaultPreference(userID)
		assert.Equal(t, ChannelEmail, pref.ResolveChannel())
	})

	t.Run("preferred channel wins when enabled", func(t *testing.T) {
		pref := &NotificationPreference{
			EmailEnabled: true,
			SMSEnabled:   true,
			Preferred:    ChannelSMS,
		}
		assert.Equal(t, ChannelSMS, pref.ResolveChannel())
	})

	t.Run("disabled preferred channel falls back to priority order", func(t *testing.T) {
		pref := &NotificationPreference{
			WhatsAppEnabled: true,
			SMSEnabled:      true,
			Preferred:       ChannelEmail,
		}
		assert.Equal(t, ChannelWhatsApp, pref.ResolveChannel())
	})

	t.Run("any preference follows priority order", func(t *testing.T) {
		pref := &NotificationPreference{
			SMSEnabled: true,
			Preferred:  ChannelAny,
		}
		assert.Equal(t, ChannelSMS, pref.ResolveChannel())
	})

	t.Run("all channels disabled yields nothing", func(t *testing.T) {
		pref := &NotificationPreference{Preferred: ChannelAny}
		assert.Equal(t, Channel(""), pref.ResolveChannel())
	})
}
