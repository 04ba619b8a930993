package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// InstructorSessionKey returns the cache key for an instructor's login session.
func (r *CacheKeyStruct) InstructorSessionKey(instructorID string) string {
	return fmt.Sprintf("login:instructor:%s", instructorID)
}

// StartRateKey returns the cache key for the per-IP rate window on exam start.
func (r *CacheKeyStruct) StartRateKey(ip string) string {
	return fmt.Sprintf("rate:iniciar:%s", ip)
}

var CacheKey = NewCacheKeyStruct()
