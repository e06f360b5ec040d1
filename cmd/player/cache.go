package main

import (
	"log"

	"github.com/Nixie-Tech-LLC/stheno/internal/cache"
)

// InitCache selects and returns the configured content cache backend
func InitCache(env Environment) cache.Cache {
	if env.CacheBackend == "redis" {
		log.Printf("Using Redis content cache at %s", env.RedisAddress)
		return cache.NewRedisCache(env.RedisAddress, env.RedisUsername, env.RedisPassword)
	}

	local, err := cache.NewLocalCache(env.CacheDir)
	if err != nil {
		log.Fatalf("failed to initialize local content cache: %v", err)
	}
	log.Printf("Using local content cache in %s", env.CacheDir)
	return local
}
