package board

import (
	"math/rand"
)

// palette assigned to joining users who do not pick a color themselves.
var palette = []string{
	"#ff6b6b",
	"#feca57",
	"#48dbfb",
	"#1dd1a1",
	"#5f27cd",
	"#ff9ff3",
	"#54a0ff",
	"#00d2d3",
	"#c8d6e5",
	"#576574",
}

// roster is a room's user set. All mutation happens inside the owning
// room's serialized scope.
type roster struct {
	clock Clock
	users map[string]*User
	order []string
}

func newRoster(clock Clock) *roster {
	return &roster{
		clock: clock,
		users: make(map[string]*User),
	}
}

// Add registers a user under its connection id. A missing name defaults to
// User-<last 4 of the connection id>; a missing color gets a free palette
// entry, uniqueness best-effort only.
func (ro *roster) Add(connID, name, color string) User {
	if name == "" {
		tail := connID
		if len(tail) > 4 {
			tail = tail[len(tail)-4:]
		}
		name = "User-" + tail
	}
	if color == "" {
		color = ro.pickColor()
	}
	now := ro.clock.Now().UnixMilli()
	user := &User{
		ID:       connID,
		Name:     name,
		Color:    color,
		JoinedAt: now,
		LastSeen: now,
		Presence: PresenceActive,
	}
	if _, exists := ro.users[connID]; !exists {
		ro.order = append(ro.order, connID)
	}
	ro.users[connID] = user
	return *user
}

func (ro *roster) Remove(connID string) (User, bool) {
	user, ok := ro.users[connID]
	if !ok {
		return User{}, false
	}
	delete(ro.users, connID)
	for i, id := range ro.order {
		if id == connID {
			ro.order = append(ro.order[:i], ro.order[i+1:]...)
			break
		}
	}
	return *user, true
}

// MarkActivity refreshes lastSeen and promotes the user back to active
// unless they explicitly chose observing.
func (ro *roster) MarkActivity(connID string) (User, bool) {
	user, ok := ro.users[connID]
	if !ok {
		return User{}, false
	}
	user.LastSeen = ro.clock.Now().UnixMilli()
	if user.Presence != PresenceObserving {
		user.Presence = PresenceActive
	}
	return *user, true
}

func (ro *roster) SetPresenceMode(connID string, mode PresenceMode) (User, bool) {
	user, ok := ro.users[connID]
	if !ok {
		return User{}, false
	}
	if mode == PresenceObserving {
		user.Presence = PresenceObserving
	} else {
		user.Presence = PresenceActive
	}
	user.LastSeen = ro.clock.Now().UnixMilli()
	return *user, true
}

// Users lists the records in join order.
func (ro *roster) Users() []User {
	users := make([]User, 0, len(ro.order))
	for _, id := range ro.order {
		users = append(users, *ro.users[id])
	}
	return users
}

func (ro *roster) Len() int { return len(ro.users) }

func (ro *roster) pickColor() string {
	used := make(map[string]bool, len(ro.users))
	for _, u := range ro.users {
		used[u.Color] = true
	}
	for _, c := range palette {
		if !used[c] {
			return c
		}
	}
	return palette[rand.Intn(len(palette))]
}
