package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/time/rate"
)

const (
	// RateLimitWindow окно, за которое IP может сделать RateLimitRequests запросов.
	RateLimitWindow = 15 * time.Minute
	// RateLimitRequests запросов на окно.
	RateLimitRequests = 100
)

// TooManyRequests тело ответа 429.
type TooManyRequests struct {
	Error      string `json:"error"`
	RetryAfter string `json:"retryAfter"`
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter token bucket на каждый IP. Ведро ёмкостью burst
// пополняется равномерно, burst токенов за window.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	window   time.Duration
	lastScan time.Time
	now      func() time.Time
}

// NewIPRateLimiter создаёт ограничитель на burst запросов за window.
func NewIPRateLimiter(burst int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(burst)),
		burst:    burst,
		window:   window,
		now:      time.Now,
	}
}

// Allow расходует токен для ip.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// sweep удаляет IP, не появлявшиеся дольше окна. Их ведро к этому
// моменту уже полное, так что сброс ничего не меняет.
func (l *IPRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastScan) < l.window {
		return
	}
	l.lastScan = now
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.window {
			delete(l.visitors, ip)
		}
	}
}

// RateLimitMiddleware отвечает 429, когда IP исчерпал лимит. Ключ берётся
// из RemoteAddr; подменять его через middleware.RealIP можно только за
// доверенным прокси.
func RateLimitMiddleware(log *slog.Logger, limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.Allow(ip) {
				log.Warn("too many requests",
					slog.String("ip", ip),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				w.Header().Set("Retry-After", "900")
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, TooManyRequests{
					Error:      "Too many requests from this IP, please try again later.",
					RetryAfter: "15 minutes",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
