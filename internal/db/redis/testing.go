package redis

import (
	"time"

	"github.com/redis/rueidis"
)

// NewStoreForTest wraps an existing client, typically a rueidis mock.
func NewStoreForTest(c rueidis.Client, localTTL time.Duration) *Store {
	return &Store{client: c, localTTL: localTTL}
}
