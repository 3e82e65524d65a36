package handler

import (
	"context"
	"fmt"
	"go-finance-api/common"
	"go-finance-api/logger"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Limiter is implemented by service.RateLimiter.
type Limiter interface {
	Allow(ctx context.Context, scope, client string, limit int, window time.Duration) (bool, error)
	Forget(ctx context.Context, scope, client string) error
}

// RateLimitRule configures one limited route group.
type RateLimitRule struct {
	Scope   string
	Limit   int
	Window  time.Duration
	Message string
	// SkipSuccessful counts only responses with a status of 400 or above.
	SkipSuccessful bool
}

// remoteHost is the host part of the connection address.
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ClientIPResolver decides which address a request is counted against.
// X-Forwarded-For is read only when the connection comes from a trusted
// proxy; the nil resolver always uses the connection address.
type ClientIPResolver struct {
	trusted []netip.Prefix
}

// NewClientIPResolver accepts proxy addresses or CIDR ranges.
func NewClientIPResolver(proxies []string) (*ClientIPResolver, error) {
	res := &ClientIPResolver{}
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.Contains(p, "/") {
			prefix, err := netip.ParsePrefix(p)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", p, err)
			}
			res.trusted = append(res.trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(p)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", p, err)
		}
		res.trusted = append(res.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return res, nil
}

func (c *ClientIPResolver) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range c.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP walks X-Forwarded-For from the right, skipping trusted proxies,
// and returns the first hop that is not one of them.
func (c *ClientIPResolver) ClientIP(r *http.Request) string {
	host := remoteHost(r)
	if c == nil || len(c.trusted) == 0 || !c.isTrusted(host) {
		return host
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	client := host
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if _, err := netip.ParseAddr(hop); err != nil {
			break
		}
		client = hop
		if !c.isTrusted(hop) {
			break
		}
	}
	return client
}

// RateLimitMiddleware enforces rule per client IP as resolved by ips. When the limiter cannot
// reach its store the request is let through.
func RateLimitMiddleware(limiter Limiter, rule RateLimitRule, ips *ClientIPResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			client := ips.ClientIP(r)
			log := logger.Log.WithFields(logrus.Fields{"scope": rule.Scope, "client": client})

			allowed, err := limiter.Allow(r.Context(), rule.Scope, client, rule.Limit, rule.Window)
			if err != nil {
				log.WithError(err).Warn("Rate limiter unavailable, allowing request")
			}
			if !allowed {
				log.Warn("Rate limit exceeded")
				common.NewAppError(http.StatusTooManyRequests, rule.Message, nil).Send(w)
				return
			}

			if !rule.SkipSuccessful {
				next.ServeHTTP(w, r)
				return
			}
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			if rec.status < http.StatusBadRequest {
				if err := limiter.Forget(r.Context(), rule.Scope, client); err != nil {
					log.WithError(err).Warn("Failed to release rate limit hit")
				}
			}
		})
	}
}
