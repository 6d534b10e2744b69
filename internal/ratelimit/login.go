package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const keyLogin = "login:attempt:%s"

// Login throttling: a burst of attempts, then roughly one every six
// seconds as the bucket refills.
const (
	loginRate  = 0.1667
	loginBurst = 10
)

// LoginLimiter throttles login attempts per username. A nil limiter
// (redis unconfigured) allows everything, and redis outages fail open
// so authentication stays available.
type LoginLimiter struct {
	log    *zap.Logger
	bucket *TokenBucket
}

func NewLoginLimiter(log *zap.Logger, bucket *TokenBucket) *LoginLimiter {
	if bucket == nil {
		return nil
	}
	return &LoginLimiter{
		log:    log.Named("ratelimit.login"),
		bucket: bucket,
	}
}

func (l *LoginLimiter) Allow(ctx context.Context, username string) *Result {
	if l == nil || l.bucket == nil {
		return &Result{Allowed: true}
	}

	key := fmt.Sprintf(keyLogin, strings.ToLower(strings.TrimSpace(username)))
	res, err := l.bucket.Allow(ctx, key, loginRate, loginBurst)
	if err != nil {
		l.log.Warn("rate limit check failed, allowing request", zap.Error(err))
		return &Result{Allowed: true}
	}
	return res
}
