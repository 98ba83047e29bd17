package utils

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCertificateCode_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^CPB-2026-[A-Z0-9]{5}$`)

	code, err := GenerateCertificateCode("CPB", 2026)
	require.NoError(t, err)
	assert.Regexp(t, pattern, code)
}

func TestGenerateCertificateCode_UnambiguousAlphabet(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateCertificateCode("CPB", 2026)
		require.NoError(t, err)

		suffix := code[strings.LastIndex(code, "-")+1:]
		require.Len(t, suffix, 5)
		for _, ch := range suffix {
			assert.NotContains(t, "0O1IL", string(ch), "code %s contains an ambiguous character", code)
		}
	}
}

func TestGenerateCertificateCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateCertificateCode("CPB", 2026)
		require.NoError(t, err)
		seen[code] = true
	}
	// 50 draws from a 31^5 space colliding down to a handful would mean the
	// generator is broken
	assert.Greater(t, len(seen), 45)
}

func TestRandomSuffix_DiscardsUnevenBytes(t *testing.T) {
	// 248..255 map unevenly onto the 31-character alphabet, so the draw must
	// skip them instead of taking the modulo
	src := bytes.NewReader([]byte{255, 250, 249, 248, 0, 1, 30, 31, 247, 61})

	suffix, err := randomSuffix(src, 5)
	require.NoError(t, err)
	assert.Equal(t, "AB9A9", suffix)
}

func TestRandomSuffix_ExhaustedSource(t *testing.T) {
	src := bytes.NewReader([]byte{255, 254})

	_, err := randomSuffix(src, 5)
	assert.Error(t, err)
}

func TestCertificateVerificationURL(t *testing.T) {
	url := CertificateVerificationURL("https://portal.example.org", "CPB-2026-7KQ4M")
	assert.Equal(t, "https://portal.example.org/certificates/CPB-2026-7KQ4M", url)
}
