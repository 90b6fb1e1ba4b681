package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"text-detector-go/internal/logger"
)

const sessionCookie = "detector_session"

type ctxKey struct{}

// sessionID returns the ID placed on the context by withSession.
func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// withSession gives every browser a stable session ID cookie, refreshed
// on each request, and logs the request once it has been served.
func withSession(log *logger.Logger, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(sessionCookie); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.New().String()
			}
			// re-issued on every request so the cookie slides with the store TTL
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			start := time.Now()
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
			log.WithRequest(r).
				WithField("session", id).
				WithField("duration_ms", time.Since(start).Milliseconds()).
				Debug("request served")
		})
	}
}
