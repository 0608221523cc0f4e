// Package otp derives time-boxed one-time codes from a shared seed and a
// principal's email. Nothing is persisted: the same inputs inside the same
// time window always produce the same code.
package otp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base32"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// SecretFor derives the per-principal TOTP secret. Emails are lowercased so
// the code survives case differences between signup and reset forms.
func SecretFor(seed, email string) string {
	mac := hmac.New(sha1.New, []byte(seed))
	mac.Write([]byte(strings.ToLower(email)))
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(mac.Sum(nil))
}

// Generate returns the numeric code for the current step-wide time window.
func Generate(seed, email string, step time.Duration, digits int) (string, error) {
	return GenerateAt(seed, email, step, digits, time.Now())
}

func GenerateAt(seed, email string, step time.Duration, digits int, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(SecretFor(seed, email), at, totp.ValidateOpts{
		Period:    uint(step.Seconds()),
		Digits:    otp.Digits(digits),
		Algorithm: otp.AlgorithmSHA1,
	})
}

// Check accepts the code for the current window or any window within +-skew
// steps, absorbing clock drift and slow users.
func Check(code, seed, email string, step time.Duration, digits int, skew uint) bool {
	return CheckAt(code, seed, email, step, digits, skew, time.Now())
}

func CheckAt(code, seed, email string, step time.Duration, digits int, skew uint, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, SecretFor(seed, email), at, totp.ValidateOpts{
		Period:    uint(step.Seconds()),
		Skew:      skew,
		Digits:    otp.Digits(digits),
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
