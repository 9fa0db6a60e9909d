package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-reorder-service/internal/interface/middleware"
)

// Limits carries what every module needs to build its rate limiters.
// A nil Redis turns every limiter into a pass-through.
type Limits struct {
	Redis *redis.Client
	Allow middleware.AllowFunc
}

func (l Limits) perMinute(n int, key middleware.KeyFunc) gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, n, time.Minute, key, l.Allow)
}
