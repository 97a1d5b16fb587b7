package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// PlayerSessionKey returns the cache key for a player's login session.
func (r *CacheKeyStruct) PlayerSessionKey(username string) string {
	return fmt.Sprintf("login:%s", username)
}

var CacheKey = NewCacheKeyStruct()
