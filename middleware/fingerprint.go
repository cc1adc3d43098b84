package middleware

import (
	"context"
	"net/http"

	goGate "github.com/hirewire/goGate"
	"github.com/hirewire/goGate/internal/device"
)

type deviceInfoContextKey struct{}
type fingerprintContextKey struct{}

// DeviceInfo mirrors the classifier output attached by [Fingerprint].
type DeviceInfo struct {
	Device  string
	Browser string
	OS      string
}

// DeviceInfoFromContext returns the classification attached by
// [Fingerprint].
func DeviceInfoFromContext(ctx context.Context) (DeviceInfo, bool) {
	info, ok := ctx.Value(deviceInfoContextKey{}).(DeviceInfo)
	return info, ok
}

// FingerprintFromContext returns the hex fingerprint attached by
// [Fingerprint].
func FingerprintFromContext(ctx context.Context) (string, bool) {
	fp, ok := ctx.Value(fingerprintContextKey{}).(string)
	return fp, ok
}

// Fingerprint derives a stable device identifier from the user agent and
// client IP and attaches it, with the device classification, to the
// request context. Purely observational; no request is rejected here.
func Fingerprint(gate *goGate.Gate) func(http.Handler) http.Handler {
	enabled := gate.Config().Device.Enabled

	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = withClientContext(r)

			ua := r.UserAgent()
			ip := goGate.ClientIPFromContext(r.Context())

			info := device.Classify(ua)
			ctx := context.WithValue(r.Context(), deviceInfoContextKey{}, DeviceInfo{
				Device:  info.Device,
				Browser: info.Browser,
				OS:      info.OS,
			})
			ctx = context.WithValue(ctx, fingerprintContextKey{}, device.FingerprintHex(ua, ip))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
