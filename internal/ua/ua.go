// internal/ua/ua.go
//
// User-Agent parsing.
//
// Wraps `github.com/avct/uasurfer` so the access log and request info never
// see its enums.  Only the attributes the storefront logs are kept.
package ua

import (
	"strconv"
	"strings"

	surfer "github.com/avct/uasurfer"
)

// Info carries the parsed attributes.
//
// Example (Safari on iPhone):
//
//	Browser   "Safari"
//	Version   "17.4"
//	OS        "iOS"
//	OSVersion "17.4"
//	Device    "Mobile"
//	IsBot     false
//
// Device is one of "Desktop", "Mobile", "Tablet", "Bot", or "Other".
type Info struct {
	Browser   string
	Version   string
	OS        string
	OSVersion string
	Device    string
	Platform  string
	IsBot     bool
}

// Parse converts a raw header into Info.  An empty header yields Device
// "Other" and empty names.
func Parse(raw string) Info {
	if strings.TrimSpace(raw) == "" {
		return Info{Device: "Other"}
	}
	u := surfer.Parse(raw)

	info := Info{
		Browser:   strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version:   version(u.Browser.Version),
		OS:        strings.TrimPrefix(u.OS.Name.String(), "OS"),
		OSVersion: version(u.OS.Version),
		Platform:  strings.TrimPrefix(u.OS.Platform.String(), "Platform"),
		IsBot:     u.IsBot(),
	}

	switch {
	case info.IsBot:
		info.Device = "Bot"
	case u.DeviceType == surfer.DeviceComputer:
		info.Device = "Desktop"
	case u.DeviceType == surfer.DeviceTablet:
		info.Device = "Tablet"
	case u.DeviceType == surfer.DevicePhone, u.DeviceType == surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}
	return info
}

// version renders a dotted version without trailing zero parts:
// 17.0.0 → "17", 17.4.0 → "17.4", 17.4.1 → "17.4.1".
func version(v surfer.Version) string {
	parts := []int{int(v.Major), int(v.Minor), int(v.Patch)}
	for len(parts) > 0 && parts[len(parts)-1] == 0 {
		parts = parts[:len(parts)-1]
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strconv.Itoa(p)
	}
	return strings.Join(out, ".")
}
