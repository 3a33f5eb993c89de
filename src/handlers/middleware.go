// src/handlers/middleware.go
package handlers

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/focoagora/backend/src/logger"
	"github.com/focoagora/backend/src/utils"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

type contextKey string

const (
	requestIDContextKey contextKey = "requestID"
	userIDContextKey    contextKey = "userID"

	// UserHeader identifies the caller. Authentication happens upstream of this service.
	UserHeader = "X-User-ID"
)

var userIDRegex = regexp.MustCompile(`^[A-Za-z0-9._@-]{1,64}$`)

// ContextualLoggerMiddleware creates a logger carrying a requestID for each request.
func ContextualLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		ctxLogger := logger.L.With(slog.String("requestID", requestID))

		ctx := logger.ToContext(r.Context(), ctxLogger)
		ctx = context.WithValue(ctx, requestIDContextKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserMiddleware reads the user ID header and propagates it to the handlers and the logger.
func UserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger := logger.FromContext(r.Context())

		userID := strings.TrimSpace(r.Header.Get(UserHeader))
		if userID == "" {
			ctxLogger.Debug("UserMiddleware: user header missing", "path", r.URL.Path)
			utils.SendJSONError(w, UserHeader+" header required", http.StatusUnauthorized)
			return
		}
		if !userIDRegex.MatchString(userID) {
			ctxLogger.Warn("UserMiddleware: malformed user id", "path", r.URL.Path)
			utils.SendJSONError(w, "malformed "+UserHeader+" header", http.StatusBadRequest)
			return
		}

		enrichedLogger := ctxLogger.With(slog.String("userID", userID))
		ctx := logger.ToContext(r.Context(), enrichedLogger)
		ctx = context.WithValue(ctx, userIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok && userID != ""
}

// rateLimiterIdleTTL is how long a client's bucket survives without requests.
const rateLimiterIdleTTL = 10 * time.Minute

// RateLimiter keeps one token bucket per client address. Idle buckets expire.
type RateLimiter struct {
	mu      sync.Mutex
	clients *cache.Cache
	idle    time.Duration
	rps     rate.Limit
	burst   int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return newRateLimiter(rps, burst, rateLimiterIdleTTL)
}

func newRateLimiter(rps float64, burst int, idle time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: cache.New(idle, idle/2),
		idle:    idle,
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	var l *rate.Limiter
	if v, found := rl.clients.Get(key); found {
		l = v.(*rate.Limiter)
	} else {
		l = rate.NewLimiter(rl.rps, rl.burst)
	}
	rl.clients.Set(key, l, rl.idle)
	return l
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !rl.limiterFor(host).Allow() {
			logger.FromContext(r.Context()).Warn("Rate limit exceeded", "path", r.URL.Path, "client", host)
			utils.SendJSONError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware allows the configured origins; requests without an Origin pass through untouched.
func CORSMiddleware(allowed []string) func(http.Handler) http.Handler {
	allowedOrigins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		allowedOrigins[strings.TrimSpace(o)] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowedOrigins[origin] || allowedOrigins["*"] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, "+UserHeader+", If-None-Match")
				w.Header().Set("Access-Control-Expose-Headers", "ETag, X-Request-ID")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
