package session

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/ryvynn-app/ryvynn/internal/pkg/cache"
	"github.com/ryvynn-app/ryvynn/internal/pkg/env"
)

var sessionStore *session.Store

func NewSessionStore() *session.Store {
	// Sessions live in database 1, the cache uses DB 0
	storage := newRedisStorage(1)

	sessionStore = session.New(session.Config{
		Storage:        storage,
		CookieHTTPOnly: true,
		Expiration:     time.Hour * 24,
		KeyLookup:      "cookie:session_id",
	})

	return sessionStore
}

func GetSessionStore() *session.Store {
	return sessionStore
}

// NewLimiterStorage returns a redis-backed storage for fiber's limiter
// middleware, kept in its own database so limiter flushes cannot touch
// sessions.
func NewLimiterStorage() *redis.Storage {
	return newRedisStorage(2)
}

// newRedisStorage reuses the cache connection settings for a fiber
// storage on the given redis database.
func newRedisStorage(db int) *redis.Storage {
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: db,
		Reset:    false,
	})
}

// DestroySession drops the caller's session, ignoring lookup errors
func DestroySession(c *fiber.Ctx) {
	if sessionStore == nil {
		return
	}
	if sess, err := sessionStore.Get(c); err == nil {
		_ = sess.Destroy()
	}
}
