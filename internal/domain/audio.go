package domain

import "time"

// AudioObject is a transient blob registered for deletion after ExpiresAt.
type AudioObject struct {
	Key          string
	OriginalName string
	ContentType  string
	URL          string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Expired reports whether the object is eligible for reaping at now.
func (a AudioObject) Expired(now time.Time) bool {
	return now.After(a.ExpiresAt)
}
