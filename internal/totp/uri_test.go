package totp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURI_OmitsDefaults(t *testing.T) {
	acct := NewAccount("alice", "JBSWY3DPEHPK3PXP", "Example Corp")
	assert.Equal(t,
		"otpauth://totp/Example%20Corp:alice?secret=JBSWY3DPEHPK3PXP&issuer=Example+Corp",
		URI(acct))

	bare := NewAccount("bob", "JBSWY3DPEHPK3PXP", "")
	assert.Equal(t, "otpauth://totp/bob?secret=JBSWY3DPEHPK3PXP", URI(bare))
}

func TestURI_NonDefaultParameters(t *testing.T) {
	acct := Account{Name: "ops", Secret: "JBSWY3DPEHPK3PXP", Algorithm: SHA512, Digits: 8, Period: 60}
	uri := URI(acct)
	assert.Contains(t, uri, "algorithm=SHA512")
	assert.Contains(t, uri, "digits=8")
	assert.Contains(t, uri, "period=60")
	assert.NotContains(t, uri, "epoch=")
}

func TestURI_RoundTrip(t *testing.T) {
	accounts := []Account{
		NewAccount("github", "JBSWY3DPEHPK3PXP", "GitHub"),
		NewAccount("me@example.com", "HXDMVJECJJWSRB3HWIZR4IFUGFTMXBOZ", "Google"),
		NewAccount("name:with:colons", "JBSWY3DPEHPK3PXP", "Odd/Issuer"),
		{Name: "custom", Secret: "JBSWY3DPEHPK3PXP", Issuer: "X", Algorithm: SHA256, Digits: 7, Period: 45, Epoch: 1000},
		NewAccount("no-issuer", "JBSWY3DPEHPK3PXP", ""),
		NewAccount("work:alice", "JBSWY3DPEHPK3PXP", ""),
	}
	for _, acct := range accounts {
		t.Run(acct.Name, func(t *testing.T) {
			got, err := ParseURI(URI(acct))
			require.NoError(t, err)
			assert.Equal(t, acct, got)
		})
	}
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want Account
	}{
		{
			name: "defaults applied",
			uri:  "otpauth://totp/alice?secret=JBSWY3DPEHPK3PXP",
			want: NewAccount("alice", "JBSWY3DPEHPK3PXP", ""),
		},
		{
			name: "issuer from label",
			uri:  "otpauth://totp/ACME:alice?secret=JBSWY3DPEHPK3PXP",
			want: NewAccount("alice", "JBSWY3DPEHPK3PXP", "ACME"),
		},
		{
			name: "issuer parameter wins over label",
			uri:  "otpauth://totp/Old:alice?secret=JBSWY3DPEHPK3PXP&issuer=New",
			want: NewAccount("alice", "JBSWY3DPEHPK3PXP", "New"),
		},
		{
			name: "percent-encoded issuer",
			uri:  "otpauth://totp/My%20Corp%3Aalice?secret=JBSWY3DPEHPK3PXP&issuer=My%20Corp",
			want: NewAccount("alice", "JBSWY3DPEHPK3PXP", "My Corp"),
		},
		{
			name: "escaped colon without issuer stays in name",
			uri:  "otpauth://totp/work%3Aalice?secret=JBSWY3DPEHPK3PXP",
			want: NewAccount("work:alice", "JBSWY3DPEHPK3PXP", ""),
		},
		{
			name: "literal issuer",
			uri:  "otpauth://totp/My Corp:alice?secret=JBSWY3DPEHPK3PXP&issuer=My Corp",
			want: NewAccount("alice", "JBSWY3DPEHPK3PXP", "My Corp"),
		},
		{
			name: "case-insensitive scheme, type and algorithm",
			uri:  "OTPAUTH://TOTP/alice?secret=JBSWY3DPEHPK3PXP&algorithm=sha256&digits=8&period=60",
			want: Account{Name: "alice", Secret: "JBSWY3DPEHPK3PXP", Algorithm: SHA256, Digits: 8, Period: 60},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURI(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseURI_Errors(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want error
	}{
		{"missing secret", "otpauth://totp/alice?issuer=X", ErrInvalidURI},
		{"empty secret", "otpauth://totp/alice?secret=", ErrInvalidURI},
		{"wrong scheme", "https://totp/alice?secret=JBSWY3DPEHPK3PXP", ErrInvalidURI},
		{"hotp type", "otpauth://hotp/alice?secret=JBSWY3DPEHPK3PXP&counter=1", ErrInvalidURI},
		{"missing label", "otpauth://totp", ErrInvalidURI},
		{"empty name", "otpauth://totp/ACME:?secret=JBSWY3DPEHPK3PXP", ErrInvalidURI},
		{"non-numeric digits", "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&digits=six", ErrInvalidURI},
		{"unsupported algorithm", "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&algorithm=MD5", ErrUnsupportedAlgorithm},
		{"digits out of range", "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&digits=12", ErrValidationFailed},
		{"zero period", "otpauth://totp/a?secret=JBSWY3DPEHPK3PXP&period=0", ErrValidationFailed},
		{"bad secret", "otpauth://totp/a?secret=!!!", ErrInvalidSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURI(tt.uri)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
