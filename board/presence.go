package board

import "time"

// ActiveThreshold is how recently a user must have acted to be labelled
// active rather than idle.
const ActiveThreshold = 10 * time.Second

type PresenceLabel string

const (
	LabelOffline   PresenceLabel = "offline"
	LabelObserving PresenceLabel = "observing"
	LabelActive    PresenceLabel = "active"
	LabelIdle      PresenceLabel = "idle"
)

// DerivePresence computes the view label from raw facts. The server never
// stores this; every observer re-derives it from (presence, lastSeen) and
// its own disconnect signal, so the one derivation lives here.
// Precedence: offline > observing > active > idle.
func DerivePresence(u User, disconnected bool, now time.Time) PresenceLabel {
	switch {
	case disconnected:
		return LabelOffline
	case u.Presence == PresenceObserving:
		return LabelObserving
	case now.UnixMilli()-u.LastSeen <= ActiveThreshold.Milliseconds():
		return LabelActive
	default:
		return LabelIdle
	}
}
