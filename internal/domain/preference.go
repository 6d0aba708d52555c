package domain

import "github.com/google/uuid"

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
	ChannelAny      Channel = "any"
)

// channelPriority is the fallback order used when the preferred channel
// is "any" or unavailable.
var channelPriority = []Channel{ChannelEmail, ChannelWhatsApp, ChannelSMS}

type NotificationPreference struct {
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	EmailEnabled    bool      `json:"email_enabled" db:"email_enabled"`
	SMSEnabled      bool      `json:"sms_enabled" db:"sms_enabled"`
	WhatsAppEnabled bool      `json:"whatsapp_enabled" db:"whatsapp_enabled"`
	Preferred       Channel   `json:"preferred" db:"preferred"`
	MuteFrom        *int      `json:"mute_from,omitempty" db:"mute_from"`
	MuteTo          *int      `json:"mute_to,omitempty" db:"mute_to"`
}

// DefaultPreference is applied when a user has no stored preference row.
func DefaultPreference(userID uuid.UUID) *NotificationPreference {
	return &NotificationPreference{
		UserID:       userID,
		EmailEnabled: true,
		Preferred:    ChannelAny,
	}
}

// InMuteWindow reports whether nowHour falls inside the user's quiet
// hours. A window with from > to spans midnight.
func (p *NotificationPreference) InMuteWindow(nowHour int) bool {
	if p.MuteFrom == nil || p.MuteTo == nil {
		return false
	}
	from, to := *p.MuteFrom, *p.MuteTo
	if from <= to {
		return nowHour >= from && nowHour < to
	}
	return nowHour >= from || nowHour < to
}

func (p *NotificationPreference) Allows(ch Channel) bool {
	switch ch {
	case ChannelEmail:
		return p.EmailEnabled
	case ChannelWhatsApp:
		return p.WhatsAppEnabled
	case ChannelSMS:
		return p.SMSEnabled
	default:
		return false
	}
}

// ResolveChannel picks the single delivery channel: the preferred one if
// set and enabled, otherwise the first enabled channel in priority order
// email, whatsapp, sms. Empty string means no channel is allowed.
func (p *NotificationPreference) ResolveChannel() Channel {
	if p.Preferred != "" && p.Preferred != ChannelAny && p.Allows(p.Preferred) {
		return p.Preferred
	}
	for _, ch := range channelPriority {
		if p.Allows(ch) {
			return ch
		}
	}
	return ""
}
