// Package otp implements RFC 6238 time-based one-time passwords over
// HMAC-SHA1. Verification is a pure function of (secret, code, time): no
// generator object outlives a request, so re-deriving the engine from the
// stored secret can never disagree with an earlier derivation.
package otp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	Digits = 6  // code length
	Period = 30 // seconds per time step (RFC 6238 default)

	// Skew is the accepted clock-drift window in time steps. A code for the
	// immediately preceding or following step still verifies.
	Skew = 1

	secretBytes = 20 // 160-bit secret (RFC 4226 recommendation)
)

var (
	ErrInvalidSecret = errors.New("otp: secret is not valid base32")

	secretRe = regexp.MustCompile("^[A-Z2-7]+=*$")
	codeRe   = regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, Digits))
)

// GenerateSecret returns a fresh base32-encoded shared secret.
func GenerateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("otp: generating secret: %w", err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}

// CodeAt returns the code for the time step containing t.
func CodeAt(secret string, t time.Time) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	return hotp(key, t.Unix()/Period), nil
}

// Verify reports whether code is valid for the secret at time t, accepting
// codes from the previous, current and next time step (Skew). Empty or
// malformed inputs fail closed: the answer is false, never a panic.
func Verify(secret, code string, t time.Time) bool {
	key, err := decodeSecret(secret)
	if err != nil {
		return false
	}
	code = strings.TrimSpace(code)
	if !codeRe.MatchString(code) {
		return false
	}

	counter := t.Unix() / Period
	for i := int64(-Skew); i <= Skew; i++ {
		expected := hotp(key, counter+i)
		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 {
			return true
		}
	}
	return false
}

// ProvisioningParams describes an otpauth:// key URI for authenticator apps.
type ProvisioningParams struct {
	Secret      string
	AccountName string
	Issuer      string
}

// ProvisioningURI renders the Key Uri Format understood by authenticator apps:
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
func ProvisioningURI(p ProvisioningParams) (string, error) {
	if _, err := decodeSecret(p.Secret); err != nil {
		return "", err
	}
	if p.AccountName == "" || p.Issuer == "" {
		return "", errors.New("otp: account name and issuer are required")
	}

	label := fmt.Sprintf("%s:%s", url.PathEscape(p.Issuer), url.PathEscape(p.AccountName))
	query := url.Values{}
	query.Set("secret", p.Secret)
	query.Set("issuer", p.Issuer)
	query.Set("algorithm", "SHA1")
	query.Set("digits", fmt.Sprintf("%d", Digits))
	query.Set("period", fmt.Sprintf("%d", Period))

	return fmt.Sprintf("otpauth://totp/%s?%s", label, query.Encode()), nil
}

func decodeSecret(secret string) ([]byte, error) {
	secret = strings.TrimSpace(strings.ToUpper(secret))
	if !secretRe.MatchString(secret) {
		return nil, ErrInvalidSecret
	}
	key, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.TrimRight(secret, "="))
	if err != nil {
		return nil, ErrInvalidSecret
	}
	return key, nil
}

// hotp implements the RFC 4226 HMAC-based one-time password truncation.
func hotp(key []byte, counter int64) string {
	msg := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		msg[i] = byte(counter & 0xff)
		counter >>= 8
	}

	mac := hmac.New(sha1.New, key)
	mac.Write(msg)
	sum := mac.Sum(nil)

	// Dynamic truncation: low 4 bits of the last byte pick the offset.
	offset := sum[len(sum)-1] & 0x0f
	value := (int(sum[offset]&0x7f) << 24) |
		(int(sum[offset+1]) << 16) |
		(int(sum[offset+2]) << 8) |
		int(sum[offset+3])

	return fmt.Sprintf("%0*d", Digits, value%int(math.Pow10(Digits)))
}
