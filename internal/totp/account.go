package totp

import (
	"fmt"
	"strings"
)

// Algorithm is the HMAC hash used for code generation.
type Algorithm string

const (
	SHA1   Algorithm = "SHA1"
	SHA256 Algorithm = "SHA256"
	SHA512 Algorithm = "SHA512"
)

const (
	DefaultAlgorithm = SHA1
	DefaultDigits    = 6
	DefaultPeriod    = 30

	MinDigits = 6
	MaxDigits = 8
	MaxPeriod = 86400
)

// ParseAlgorithm accepts the algorithm name in any case, with or without
// the dash used by some exporters ("sha-256").
func ParseAlgorithm(s string) (Algorithm, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	switch Algorithm(norm) {
	case SHA1, SHA256, SHA512:
		return Algorithm(norm), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
}

// Account is one named TOTP credential. The JSON shape is the persisted
// storage format and must stay stable.
type Account struct {
	Name      string    `json:"name"`
	Secret    string    `json:"secret"`
	Issuer    string    `json:"issuer"`
	Algorithm Algorithm `json:"algorithm"`
	Digits    uint32    `json:"digits"`
	Period    uint64    `json:"period"`
	Epoch     uint64    `json:"epoch"`
}

// NewAccount returns an account with the default algorithm, digits, period and epoch.
func NewAccount(name, secret, issuer string) Account {
	return Account{
		Name:      name,
		Secret:    secret,
		Issuer:    issuer,
		Algorithm: DefaultAlgorithm,
		Digits:    DefaultDigits,
		Period:    DefaultPeriod,
	}
}

// WithDefaults fills zero-valued parameters with their defaults.
// Records written by older versions may omit them.
func (a Account) WithDefaults() Account {
	if a.Algorithm == "" {
		a.Algorithm = DefaultAlgorithm
	}
	if a.Digits == 0 {
		a.Digits = DefaultDigits
	}
	if a.Period == 0 {
		a.Period = DefaultPeriod
	}
	return a
}

// Label is the display form "issuer:name", or just the name without an issuer.
func (a Account) Label() string {
	if a.Issuer == "" {
		return a.Name
	}
	return a.Issuer + ":" + a.Name
}

// Validate checks every field needed to generate a code.
func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return invalidField("name", "must not be empty")
	}
	if _, err := DecodeSecret(a.Secret); err != nil {
		return err
	}
	if _, err := ParseAlgorithm(string(a.Algorithm)); err != nil {
		return err
	}
	if a.Digits < MinDigits || a.Digits > MaxDigits {
		return invalidField("digits", "must be between %d and %d, got %d", MinDigits, MaxDigits, a.Digits)
	}
	if a.Period == 0 || a.Period > MaxPeriod {
		return invalidField("period", "must be between 1 and %d seconds, got %d", MaxPeriod, a.Period)
	}
	return nil
}
