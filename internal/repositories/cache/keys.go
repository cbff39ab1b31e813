package cache

import "fmt"

type EntityType string

const (
	EntityUser        EntityType = "user"
	EntityIdempotency EntityType = "idempotency"
)

type KeyType string

const (
	KeyID   KeyType = "id"
	KeyUser KeyType = "user"
)

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}

// UserKey is the cache key for a user record looked up by ID.
func UserKey(userID string) string {
	return GenerateKey(EntityUser, KeyID, userID)
}

// IdempotencyKey scopes a client-supplied Idempotency-Key to one user and
// one route, so a key reused on another endpoint never replays.
func IdempotencyKey(userID, route, key string) string {
	return GenerateKey(EntityIdempotency, KeyUser, userID) + ":" + route + ":" + key
}
