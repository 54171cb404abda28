package totp

import (
	"encoding/base32"
	"errors"
	"testing"
	"time"

	"github.com/pquerna/otp"
	pqtotp "github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rfcSecret(ascii string) string {
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(ascii))
}

var (
	rfcSHA1   = rfcSecret("12345678901234567890")
	rfcSHA256 = rfcSecret("12345678901234567890123456789012")
	rfcSHA512 = rfcSecret("1234567890123456789012345678901234567890123456789012345678901234")
)

func TestGenerate_RFC6238Vectors(t *testing.T) {
	times := []int64{59, 1111111109, 1111111111, 1234567890, 2000000000, 20000000000}
	vectors := []struct {
		alg    Algorithm
		secret string
		codes  []string
	}{
		{SHA1, rfcSHA1, []string{"94287082", "07081804", "14050471", "89005924", "69279037", "65353130"}},
		{SHA256, rfcSHA256, []string{"46119246", "68084774", "67062674", "91819424", "90698825", "77737706"}},
		{SHA512, rfcSHA512, []string{"90693936", "25091201", "99943326", "93441116", "38618901", "47863826"}},
	}

	for _, v := range vectors {
		t.Run(string(v.alg), func(t *testing.T) {
			acct := Account{Name: "rfc", Secret: v.secret, Algorithm: v.alg, Digits: 8, Period: 30}
			for i, ts := range times {
				code, err := Generate(acct, time.Unix(ts, 0))
				require.NoError(t, err)
				assert.Equal(t, v.codes[i], code.Value, "time %d", ts)
			}
		})
	}
}

func TestGenerate_SixDigitScenario(t *testing.T) {
	acct := NewAccount("demo", "JBSWY3DPEHPK3PXP", "")
	code, err := Generate(acct, time.Unix(1111111109, 0))
	require.NoError(t, err)
	assert.Equal(t, "081804", code.Value)
	assert.Equal(t, uint64(1), code.SecondsRemaining)
	assert.Equal(t, uint64(37037036), code.Counter)
}

func TestGenerate_MatchesIndependentImplementation(t *testing.T) {
	algs := map[Algorithm]otp.Algorithm{
		SHA1:   otp.AlgorithmSHA1,
		SHA256: otp.AlgorithmSHA256,
		SHA512: otp.AlgorithmSHA512,
	}
	secrets := []string{"JBSWY3DPEHPK3PXP", "HXDMVJECJJWSRB3HWIZR4IFUGFTMXBOZ", rfcSHA256}

	for alg, pqAlg := range algs {
		for _, digits := range []uint32{6, 8} {
			for _, period := range []uint64{30, 60} {
				for _, secret := range secrets {
					now := time.Unix(1700000123, 0)
					acct := Account{Name: "x", Secret: secret, Algorithm: alg, Digits: digits, Period: period}
					got, err := Generate(acct, now)
					require.NoError(t, err)

					want, err := pqtotp.GenerateCodeCustom(secret, now, pqtotp.ValidateOpts{
						Period:    uint(period),
						Digits:    otp.Digits(digits),
						Algorithm: pqAlg,
					})
					require.NoError(t, err)
					assert.Equal(t, want, got.Value, "%s/%d/%d/%s", alg, digits, period, secret)
				}
			}
		}
	}
}

func TestGenerate_SecondsRemaining(t *testing.T) {
	acct := NewAccount("demo", "JBSWY3DPEHPK3PXP", "")

	tests := []struct {
		name string
		unix int64
		want uint64
	}{
		{"window boundary shows full period", 1111111110, 30},
		{"last second of window", 1111111109, 1},
		{"middle of window", 1111111125, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := Generate(acct, time.Unix(tt.unix, 0))
			require.NoError(t, err)
			assert.Equal(t, tt.want, code.SecondsRemaining)
			assert.Equal(t, uint64(30), code.Period)
		})
	}
}

func TestGenerate_RemainingHasSubSecondPrecision(t *testing.T) {
	acct := NewAccount("demo", "JBSWY3DPEHPK3PXP", "")
	code, err := Generate(acct, time.Unix(1111111125, int64(250*time.Millisecond)))
	require.NoError(t, err)
	assert.Equal(t, 14750*time.Millisecond, code.Remaining)
	assert.InDelta(t, 14.75/30, code.Fraction(), 1e-9)
}

func TestGenerate_CustomEpoch(t *testing.T) {
	acct := Account{Name: "e", Secret: rfcSHA1, Algorithm: SHA1, Digits: 8, Period: 30, Epoch: 1111111109}
	code, err := Generate(acct, time.Unix(1111111139, 0))
	require.NoError(t, err)
	assert.Equal(t, "94287082", code.Value)
}

func TestGenerate_BeforeEpochUsesFirstStep(t *testing.T) {
	acct := Account{Name: "e", Secret: rfcSHA1, Algorithm: SHA1, Digits: 8, Period: 30, Epoch: 2000}
	code, err := Generate(acct, time.Unix(1000, 0))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), code.Counter)
	assert.Equal(t, uint64(30), code.SecondsRemaining)
}

func TestGenerate_Errors(t *testing.T) {
	base := NewAccount("demo", "JBSWY3DPEHPK3PXP", "")

	tests := []struct {
		name   string
		mutate func(a *Account)
		want   error
	}{
		{"invalid characters", func(a *Account) { a.Secret = "not-base32!" }, ErrInvalidSecret},
		{"invalid length", func(a *Account) { a.Secret = "ABC" }, ErrInvalidSecret},
		{"empty secret", func(a *Account) { a.Secret = "" }, ErrInvalidSecret},
		{"unknown algorithm", func(a *Account) { a.Algorithm = "MD5" }, ErrUnsupportedAlgorithm},
		{"zero period", func(a *Account) { a.Period = 0 }, ErrValidationFailed},
		{"too many digits", func(a *Account) { a.Digits = 9 }, ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct := base
			tt.mutate(&acct)
			_, err := Generate(acct, time.Unix(1111111109, 0))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestDecodeSecret(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"MZXW6", "foo", false},
		{"mzxw6", "foo", false},
		{"MZXW 6", "foo", false},
		{"MZXW6===", "foo", false},
		{"MZXW6=", "", true},
		{"MZXW61", "", true},
		{"   ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := DecodeSecret(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSecret)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestAccountValidate(t *testing.T) {
	ok := NewAccount("github", "JBSWY3DPEHPK3PXP", "GitHub")
	require.NoError(t, ok.Validate())

	blank := ok
	blank.Name = "  "
	var verr *ValidationError
	require.True(t, errors.As(blank.Validate(), &verr))
	assert.Equal(t, "name", verr.Field)
}

func TestParseAlgorithm(t *testing.T) {
	for in, want := range map[string]Algorithm{"sha1": SHA1, "SHA256": SHA256, "sha-512": SHA512} {
		got, err := ParseAlgorithm(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseAlgorithm("md5")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}
