package device

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Device classes reported by Classify.
const (
	ClassDesktop = "Desktop"
	ClassMobile  = "Mobile"
	ClassTablet  = "Tablet"
)

// Info describes a classified client device.
type Info struct {
	Device  string
	Browser string
	OS      string
}

// Fingerprint returns a stable identifier for a client, derived from
// the user agent and IP. The separator keeps ("ab","c") and ("a","bc")
// from colliding.
func Fingerprint(userAgent, ip string) [32]byte {
	return sha256.Sum256([]byte(userAgent + "|" + ip))
}

// FingerprintHex is Fingerprint rendered as a lowercase hex string.
func FingerprintHex(userAgent, ip string) string {
	sum := Fingerprint(userAgent, ip)
	return hex.EncodeToString(sum[:])
}

// Classify inspects a user agent string and reports the device class,
// browser family and operating system. Unknown inputs classify as a
// desktop with "Unknown" browser and OS. Matching is substring based
// and deliberately coarse.
func Classify(userAgent string) Info {
	ua := strings.ToLower(userAgent)

	info := Info{Device: ClassDesktop, Browser: "Unknown", OS: "Unknown"}

	// Tablet checks run before mobile: tablet agents often carry
	// "mobile" too.
	switch {
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"):
		info.Device = ClassTablet
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "iphone"),
		strings.Contains(ua, "android"):
		info.Device = ClassMobile
	}

	switch {
	case strings.Contains(ua, "edg/"), strings.Contains(ua, "edge"):
		info.Browser = "Edge"
	case strings.Contains(ua, "opr/"), strings.Contains(ua, "opera"):
		info.Browser = "Opera"
	case strings.Contains(ua, "chrome"):
		info.Browser = "Chrome"
	case strings.Contains(ua, "firefox"):
		info.Browser = "Firefox"
	case strings.Contains(ua, "safari"):
		info.Browser = "Safari"
	}

	switch {
	case strings.Contains(ua, "windows"):
		info.OS = "Windows"
	case strings.Contains(ua, "android"):
		info.OS = "Android"
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"),
		strings.Contains(ua, "ios"):
		info.OS = "iOS"
	case strings.Contains(ua, "mac os"), strings.Contains(ua, "macintosh"):
		info.OS = "macOS"
	case strings.Contains(ua, "linux"):
		info.OS = "Linux"
	}

	return info
}
