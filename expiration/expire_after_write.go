package expiration

import (
	"time"

	"github.com/krisalay/glob-cache/types"
)

/*
ExpireAfterWrite ages an entry from the moment it was stored.
Reads never extend its life. An entry is expired once now - CreatedAt > ttl,
so an entry exactly ttl old is still served.
*/
type ExpireAfterWrite struct{}

func (ExpireAfterWrite) IsExpired(ent *types.ResultEntry, ttl time.Duration, now time.Time) bool {
	return now.Sub(ent.CreatedAt) > ttl
}

// OnWrite stamps the creation instant. Overwrites restart the clock.
func (ExpireAfterWrite) OnWrite(ent *types.ResultEntry, now time.Time) {
	ent.CreatedAt = now
}
