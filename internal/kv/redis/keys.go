package redis

import "strings"

// DefaultNamespace prefixes every key timemark writes to Redis.
const DefaultNamespace = "timemark:"

// key returns the Redis key for a store key
func (s *Store) key(k string) string {
	return s.namespace + k
}

// stripNamespace turns a Redis key back into a store key
func (s *Store) stripNamespace(redisKey string) (string, bool) {
	if !strings.HasPrefix(redisKey, s.namespace) || len(redisKey) == len(s.namespace) {
		return "", false
	}
	return redisKey[len(s.namespace):], true
}
