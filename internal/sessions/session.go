package sessions

import "time"

// RefreshSession is a revocable server-side record backing an opaque refresh
// token. One record per issued token, keyed by its own id; a user may hold
// several at once (multi-device).
type RefreshSession struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	DeviceInfo string    `json:"deviceInfo"`
	CreatedAt  time.Time `json:"createdAt"`
	LastUsedAt time.Time `json:"lastUsedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}
