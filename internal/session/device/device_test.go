package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const chromeOnWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"chrome on windows", chromeOnWindows, "Chrome on Windows 10"},
		{"empty user agent", "", "Unknown device"},
		{"garbage user agent", "definitely-not-a-browser", "Unknown device"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.ua))
		})
	}
}

func TestFingerprint(t *testing.T) {
	key := []byte("fingerprint-key")

	t.Run("deterministic for same inputs", func(t *testing.T) {
		a := Fingerprint(key, chromeOnWindows, "203.0.113.7")
		b := Fingerprint(key, chromeOnWindows, "203.0.113.7")
		assert.Equal(t, a, b)
		assert.Len(t, a, 64, "hex-encoded 256-bit digest")
	})

	t.Run("differs across IPs", func(t *testing.T) {
		a := Fingerprint(key, chromeOnWindows, "203.0.113.7")
		b := Fingerprint(key, chromeOnWindows, "203.0.113.8")
		assert.NotEqual(t, a, b)
	})

	t.Run("differs across keys", func(t *testing.T) {
		a := Fingerprint([]byte("key-a"), chromeOnWindows, "203.0.113.7")
		b := Fingerprint([]byte("key-b"), chromeOnWindows, "203.0.113.7")
		assert.NotEqual(t, a, b)
	})

	t.Run("oversized key is truncated, not fatal", func(t *testing.T) {
		long := make([]byte, 100)
		assert.NotPanics(t, func() { Fingerprint(long, chromeOnWindows, "203.0.113.7") })
	})
}
