package rest

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/storybeats-labs/storybeats/internal/metrics"
)

// requestLogger emits one structured line per request and feeds the request
// counter, labeled with the matched route pattern rather than the raw path.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()

		h.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

const (
	// maxTrackedClients caps the limiter map; past it, idle entries are pruned.
	maxTrackedClients = 1024
	clientIdleCutoff  = 10 * time.Minute
)

type limitedClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// perClientLimit allows n requests per window for each client IP and replies
// 429 beyond that. Every route gets its own limiter map.
func perClientLimit(n int, window time.Duration) func(http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		clients = make(map[string]*limitedClient)
	)
	every := rate.Every(window / time.Duration(n))

	allow := func(ip string) bool {
		mu.Lock()
		defer mu.Unlock()

		c, ok := clients[ip]
		if !ok {
			c = &limitedClient{limiter: rate.NewLimiter(every, n)}
			clients[ip] = c
		}
		c.lastSeen = time.Now()

		if len(clients) > maxTrackedClients {
			for addr, cl := range clients {
				if time.Since(cl.lastSeen) > clientIdleCutoff {
					delete(clients, addr)
				}
			}
		}
		return c.limiter.Allow()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allow(clientIP(r)) {
				writeError(w, http.StatusTooManyRequests, fmt.Sprintf("Rate limit exceeded: %d requests per %v allowed", n, window))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the proxy-forwarded address so limits keep working behind
// a load balancer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
