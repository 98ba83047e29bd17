package utils

import (
	"crypto/rand"
	"fmt"
	"io"
)

// Alphabet for certificate code suffixes. Ambiguous characters (0/O, 1/I/L)
// are excluded because the code is read back by humans from printed
// certificates.
const certCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// certSuffixLength keeps the printed code short; collisions are handled by the
// unique index on the certificates table plus a bounded retry at issuance.
const certSuffixLength = 5

// certByteLimit is the largest multiple of the alphabet size that fits in a
// byte. Bytes at or above it are discarded so every alphabet character is
// equally likely.
const certByteLimit = byte(len(certCodeAlphabet) * (256 / len(certCodeAlphabet)))

// randomSuffix draws length alphabet characters from r, rejecting bytes that
// would map unevenly onto the alphabet.
func randomSuffix(r io.Reader, length int) (string, error) {
	suffix := make([]byte, 0, length)
	buf := make([]byte, 16)
	for len(suffix) < length {
		n, err := r.Read(buf)
		if err != nil {
			return "", err
		}
		for _, b := range buf[:n] {
			if b >= certByteLimit {
				continue
			}
			suffix = append(suffix, certCodeAlphabet[int(b)%len(certCodeAlphabet)])
			if len(suffix) == length {
				break
			}
		}
	}
	return string(suffix), nil
}

// GenerateCertificateCode produces a code of the form PREFIX-YYYY-XXXXX with a
// crypto/rand suffix.
func GenerateCertificateCode(prefix string, year int) (string, error) {
	suffix, err := randomSuffix(rand.Reader, certSuffixLength)
	if err != nil {
		return "", fmt.Errorf("certificate code entropy: %w", err)
	}

	return fmt.Sprintf("%s-%d-%s", prefix, year, suffix), nil
}

// CertificateVerificationURL builds the public URL encoded into the
// certificate's scannable code.
func CertificateVerificationURL(origin, code string) string {
	return fmt.Sprintf("%s/certificates/%s", origin, code)
}
