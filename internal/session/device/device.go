// Package device derives human-readable device summaries and stable
// fingerprints from client metadata, for session records and the settings page.
package device

import (
	"encoding/hex"
	"fmt"

	"github.com/mssola/useragent"
	"golang.org/x/crypto/blake2b"
)

// Summarize turns a User-Agent string into a short "Browser on OS" label.
func Summarize(ua string) string {
	if ua == "" {
		return "Unknown device"
	}

	parsed := useragent.New(ua)
	name, _ := parsed.Browser()
	os := parsed.OSInfo().Name

	// The parser echoes unrecognized input back as the OS name. Treat an
	// echo as unknown rather than leaking raw header bytes into summaries.
	if os == ua {
		os = ""
	}
	if name == ua {
		name = ""
	}

	switch {
	case name == "" && os == "":
		return "Unknown device"
	case name == "":
		return os
	case os == "":
		return name
	}
	return fmt.Sprintf("%s on %s", name, os)
}

// Fingerprint computes a keyed hash over User-Agent and client IP. The key
// makes fingerprints incomparable across deployments, so a leaked session
// dump cannot be correlated with another environment's.
func Fingerprint(key []byte, ua, ip string) string {
	// blake2b keys are capped at 64 bytes.
	if len(key) > 64 {
		key = key[:64]
	}
	h, err := blake2b.New256(key)
	if err != nil {
		// Only reachable with an oversized key, which is truncated above.
		panic(fmt.Sprintf("device fingerprint hash: %v", err))
	}
	h.Write([]byte(ua))
	h.Write([]byte{0})
	h.Write([]byte(ip))
	return hex.EncodeToString(h.Sum(nil))
}
