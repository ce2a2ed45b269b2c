// Package locale maps inbound hosts to one of the two supported locales
// and formats monetary amounts for them.
package locale

import (
	"context"
	"net"
	"strings"

	"golang.org/x/text/language"
)

// Supported locale codes.
const (
	Czech   = "cs"
	English = "en"
)

// Tags for the x/text machinery, keyed by locale code.
var tags = map[string]language.Tag{
	Czech:   language.Czech,
	English: language.English,
}

// Detector resolves the locale for an inbound request host. Production
// hosts match by exact domain; development hosts match by port.
type Detector struct {
	domains       map[string]string
	devPorts      map[string]string
	defaultLocale string
}

// NewDetector builds a detector from the configured domain and port maps.
// An unknown or empty default falls back to Czech.
func NewDetector(domains, devPorts map[string]string, defaultLocale string) *Detector {
	if _, ok := tags[defaultLocale]; !ok {
		defaultLocale = Czech
	}
	return &Detector{
		domains:       domains,
		devPorts:      devPorts,
		defaultLocale: defaultLocale,
	}
}

// Detect resolves a raw Host header to a locale code. Precedence: exact
// domain match, dev port match, a ".co" top-level domain as an English
// hint, then the configured default.
func (d *Detector) Detect(host string) string {
	domain, port := splitHost(host)

	if locale, ok := d.domains[domain]; ok {
		return locale
	}
	if locale, ok := d.devPorts[port]; ok {
		return locale
	}
	if strings.HasSuffix(domain, ".co") {
		return English
	}
	return d.defaultLocale
}

// Tag returns the language tag for a locale code, defaulting to the
// detector's default locale for unknown codes.
func (d *Detector) Tag(locale string) language.Tag {
	if tag, ok := tags[locale]; ok {
		return tag
	}
	return tags[d.defaultLocale]
}

// Supported reports whether code names a locale this app ships.
func Supported(code string) bool {
	_, ok := tags[code]
	return ok
}

type contextKey struct{}

// WithLocale stores a resolved locale code in the context.
func WithLocale(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, contextKey{}, code)
}

// FromContext returns the locale resolved for the request, defaulting to
// Czech when detection never ran.
func FromContext(ctx context.Context) string {
	if code, ok := ctx.Value(contextKey{}).(string); ok {
		return code
	}
	return Czech
}

// splitHost normalizes a Host header into a bare lowercase domain and an
// optional port. A leading "www." is dropped so both apex and www hosts
// match one configured domain.
func splitHost(host string) (domain, port string) {
	host = strings.TrimSpace(strings.ToLower(host))
	if h, p, err := net.SplitHostPort(host); err == nil {
		host, port = h, p
	}
	domain = strings.TrimPrefix(host, "www.")
	return domain, port
}
