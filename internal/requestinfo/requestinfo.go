// internal/requestinfo/requestinfo.go
//
// Per-request metadata: user-agent fingerprint, client IP, and
// best-effort geolocation.  The structs are inert—no pointers to
// database handles or large buffers—so they are safe to log or
// JSON-encode.  The login audit log is the main consumer.
//
// Dependencies
// • github.com/avct/uasurfer          (UA parsing)
// • github.com/oschwald/geoip2-golang (MaxMind lookup, optional)

package requestinfo

import (
	"context"
	"net"
	"strings"
	"time"

	surfer "github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

// UA holds the parsed user-agent properties the audit log cares about.
type UA struct {
	Raw     string // entire User-Agent header
	Browser string // "Chrome", "Firefox", "Safari", …
	OS      string // "Windows", "macOS", "Android", …
	Device  string // "Desktop", "Phone", "Tablet", …
	IsBot   bool
}

// Geo holds IP-based hints.  Fields stay empty when no database is
// configured or the address has no match.
type Geo struct {
	IP         net.IP
	CountryISO string // "US", "CA", "FR", …
	City       string
}

// RequestInfo is stored in the request context by the Enrich middleware.
type RequestInfo struct {
	UA        UA
	Geo       Geo
	Path      string
	Timestamp time.Time
}

// Resolver owns the optional GeoLite2 handle.  The zero value (or a
// resolver built from an empty path) parses UAs but skips geo lookups.
type Resolver struct {
	geo *geoip2.Reader
}

// NewResolver opens the city database when a path is given.  A missing
// or unreadable file is an error; an empty path is not.
func NewResolver(cityDBPath string) (*Resolver, error) {
	if cityDBPath == "" {
		return &Resolver{}, nil
	}
	rd, err := geoip2.Open(cityDBPath)
	if err != nil {
		return nil, err
	}
	return &Resolver{geo: rd}, nil
}

// Close releases the MaxMind handle, if any.
func (rv *Resolver) Close() error {
	if rv.geo == nil {
		return nil
	}
	return rv.geo.Close()
}

/*──────────────────────────── context plumbing ─────────────────────────────*/

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich, or nil
// when the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

/*──────────────────────────── parsing helpers ──────────────────────────────*/

// parseUA converts the raw header into the slim UA struct.
func parseUA(raw string) UA {
	u := surfer.Parse(raw)

	osName := strings.TrimPrefix(u.OS.Name.String(), "OS")
	if osName == "MacOSX" {
		osName = "macOS"
	}

	return UA{
		Raw:     raw,
		Browser: strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		OS:      osName,
		Device:  deviceClass(u.DeviceType),
		IsBot:   u.IsBot(),
	}
}

func deviceClass(dt surfer.DeviceType) string {
	switch dt {
	case surfer.DeviceComputer:
		return "Desktop"
	case surfer.DevicePhone:
		return "Phone"
	case surfer.DeviceTablet:
		return "Tablet"
	case surfer.DeviceTV:
		return "TV"
	case surfer.DeviceConsole:
		return "Console"
	case surfer.DeviceWearable:
		return "Wearable"
	default:
		return "Unknown"
	}
}

// lookupGeo returns best-effort Geo data.
func (rv *Resolver) lookupGeo(ip net.IP) Geo {
	if rv.geo == nil || ip == nil {
		return Geo{IP: ip}
	}
	rec, err := rv.geo.City(ip)
	if err != nil {
		return Geo{IP: ip}
	}
	return Geo{
		IP:         ip,
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
}
