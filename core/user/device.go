package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Device is a recorded login session. Removing one does not revoke
// already-issued tokens.
type Device struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	LastLogin string `json:"lastLogin"` // RFC3339
	IP        string `json:"ip"`
	IsCurrent bool   `json:"isCurrent"`
}

// DeviceInfo carries the request attributes a login captures.
type DeviceInfo struct {
	UserAgent string
	IP        string
}

// NewDeviceID generates a time+random device identifier (dev-<millis>-<rand>).
func NewDeviceID() string {
	return fmt.Sprintf("dev-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// DeviceName classifies a user-agent string into an {OS} x {Browser} label.
// Best-effort only; the match order mirrors the legacy client table
// (notably: Android UAs contain "Linux" and report as Linux PC, iPhone UAs
// contain "like Mac OS X" and report as MacBook/iMac, Edge UAs contain
// "Chrome" and report as Chrome).
func DeviceName(userAgent string) string {
	ua := strings.ToLower(userAgent)

	name := "Unknown Device"
	switch {
	case strings.Contains(ua, "windows"):
		name = "Windows PC"
	case strings.Contains(ua, "macintosh"), strings.Contains(ua, "mac os x"):
		name = "MacBook/iMac"
	case strings.Contains(ua, "linux"):
		name = "Linux PC"
	case strings.Contains(ua, "android"):
		name = "Android Device"
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ipod"):
		name = "iOS Device"
	}

	switch {
	case strings.Contains(ua, "chrome"):
		name += " (Chrome)"
	case strings.Contains(ua, "firefox"):
		name += " (Firefox)"
	case strings.Contains(ua, "safari"):
		name += " (Safari)"
	case strings.Contains(ua, "edge"):
		name += " (Edge)"
	}
	return name
}
