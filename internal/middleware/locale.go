package middleware

import (
	"net/http"
	"time"

	"github.com/qfast/qfast/internal/locale"
)

// localeCookie persists the resolved locale across requests. Host
// detection stays authoritative; the cookie only keeps clients consistent
// when they move between hosts.
const localeCookie = "qfast-locale"

// LocaleMiddleware resolves the request host to a locale and stores it in
// the request context. Every response also carries the resolved locale in
// a Content-Language header.
type LocaleMiddleware struct {
	detector *locale.Detector
}

// NewLocaleMiddleware creates a new locale detection middleware.
func NewLocaleMiddleware(detector *locale.Detector) *LocaleMiddleware {
	return &LocaleMiddleware{detector: detector}
}

// Handler returns middleware that annotates requests with their locale.
func (m *LocaleMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := m.detector.Detect(r.Host)
		w.Header().Set("Content-Language", code)

		if c, err := r.Cookie(localeCookie); err != nil || c.Value != code {
			http.SetCookie(w, &http.Cookie{
				Name:     localeCookie,
				Value:    code,
				Path:     "/",
				MaxAge:   int((365 * 24 * time.Hour).Seconds()),
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(locale.WithLocale(r.Context(), code)))
	})
}
