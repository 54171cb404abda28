// Package totp generates time-based one-time passwords (RFC 6238) and
// converts accounts to and from otpauth:// URIs.
package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"hash"
	"strings"
	"time"
)

var (
	rawEncoding    = base32.StdEncoding.WithPadding(base32.NoPadding)
	paddedEncoding = base32.StdEncoding
)

// Code is the result of one generation.
type Code struct {
	Value string
	// SecondsRemaining is in (0, Period]; it equals Period exactly on a window boundary.
	SecondsRemaining uint64
	Period           uint64
	Counter          uint64
	// Remaining is SecondsRemaining with sub-second precision, for smooth progress bars.
	Remaining time.Duration
}

// Fraction returns the share of the window still left, in (0, 1].
func (c Code) Fraction() float64 {
	if c.Period == 0 {
		return 0
	}
	return c.Remaining.Seconds() / float64(c.Period)
}

// DecodeSecret decodes a Base32 secret. Spaces are ignored and letters may be
// lowercase. Unpadded input must have a valid unpadded length and padded input
// must be correctly padded; nothing is padded or truncated to make it fit.
func DecodeSecret(secret string) ([]byte, error) {
	s := strings.ToUpper(strings.Join(strings.Fields(secret), ""))
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSecret)
	}
	enc := rawEncoding
	if strings.Contains(s, "=") {
		enc = paddedEncoding
	}
	key, err := enc.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSecret)
	}
	return key, nil
}

func hasher(alg Algorithm) (func() hash.Hash, error) {
	switch alg {
	case SHA1:
		return sha1.New, nil
	case SHA256:
		return sha256.New, nil
	case SHA512:
		return sha512.New, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
}

// elapsed is the time since the epoch in seconds. Times before the epoch count as 0.
func elapsed(a Account, now time.Time) uint64 {
	unix := now.Unix()
	if unix < 0 || uint64(unix) < a.Epoch {
		return 0
	}
	return uint64(unix) - a.Epoch
}

// Generate computes the code for the window containing now. It has no side effects.
func Generate(a Account, now time.Time) (Code, error) {
	if a.Period == 0 || a.Period > MaxPeriod {
		return Code{}, invalidField("period", "must be between 1 and %d seconds, got %d", MaxPeriod, a.Period)
	}
	if a.Digits < MinDigits || a.Digits > MaxDigits {
		return Code{}, invalidField("digits", "must be between %d and %d, got %d", MinDigits, MaxDigits, a.Digits)
	}
	newHash, err := hasher(a.Algorithm)
	if err != nil {
		return Code{}, err
	}
	key, err := DecodeSecret(a.Secret)
	if err != nil {
		return Code{}, err
	}

	el := elapsed(a, now)
	counter := el / a.Period
	value := hotp(newHash, key, counter, a.Digits)

	remaining := a.Period - el%a.Period
	// Sub-second part of the current second, only meaningful once past the epoch.
	precise := time.Duration(remaining) * time.Second
	if now.Unix() >= 0 && uint64(now.Unix()) >= a.Epoch {
		precise -= time.Duration(now.Nanosecond())
	}

	return Code{
		Value:            value,
		SecondsRemaining: remaining,
		Period:           a.Period,
		Counter:          counter,
		Remaining:        precise,
	}, nil
}

// hotp implements RFC 4226 dynamic truncation.
func hotp(newHash func() hash.Hash, key []byte, counter uint64, digits uint32) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(newHash, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	mod := uint32(1)
	for i := uint32(0); i < digits; i++ {
		mod *= 10
	}
	return fmt.Sprintf("%0*d", int(digits), bin%mod)
}
