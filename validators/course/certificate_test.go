package courseValidator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCertificateCodePattern(t *testing.T) {
	valid := []string{
		"CPB-2026-7KQ4M",
		"CARE-2025-AB2CD",
		"XY-1999-23456",
	}
	for _, code := range valid {
		assert.True(t, certificateCodePattern.MatchString(code), "expected %s to match", code)
	}

	invalid := []string{
		"",
		"CPB-2026-7KQ4",       // short suffix
		"CPB-2026-7KQ4MM",     // long suffix
		"cpb-2026-7KQ4M",      // lowercase prefix
		"CPB-26-7KQ4M",        // short year
		"CPB-2026-7kq4m",      // lowercase suffix
		"CPB-2026-7KQ4M; --",  // injection shape
		"VERYLONGPREFIXX-2026-7KQ4M",
	}
	for _, code := range invalid {
		assert.False(t, certificateCodePattern.MatchString(code), "expected %s not to match", code)
	}
}
