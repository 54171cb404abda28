package totp

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	uriScheme = "otpauth"
	uriType   = "totp"
)

// URI builds an otpauth://totp URI. Parameters equal to their defaults are
// omitted; the secret is always present. A non-zero epoch is carried in the
// non-standard "epoch" parameter so ParseURI restores the account exactly.
func URI(a Account) string {
	label := escapeLabel(a.Name)
	if a.Issuer != "" {
		label = escapeLabel(a.Issuer) + ":" + label
	}

	params := []string{"secret=" + url.QueryEscape(a.Secret)}
	if a.Issuer != "" {
		params = append(params, "issuer="+url.QueryEscape(a.Issuer))
	}
	if a.Algorithm != "" && a.Algorithm != DefaultAlgorithm {
		params = append(params, "algorithm="+string(a.Algorithm))
	}
	if a.Digits != 0 && a.Digits != DefaultDigits {
		params = append(params, "digits="+strconv.FormatUint(uint64(a.Digits), 10))
	}
	if a.Period != 0 && a.Period != DefaultPeriod {
		params = append(params, "period="+strconv.FormatUint(a.Period, 10))
	}
	if a.Epoch != 0 {
		params = append(params, "epoch="+strconv.FormatUint(a.Epoch, 10))
	}

	return uriScheme + "://" + uriType + "/" + label + "?" + strings.Join(params, "&")
}

// ParseURI parses an otpauth://totp URI into a validated account. Missing
// parameters take their defaults. The label and parameters may be
// percent-encoded or literal.
func ParseURI(raw string) (Account, error) {
	raw = strings.TrimSpace(raw)
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || !strings.EqualFold(scheme, uriScheme) {
		return Account{}, fmt.Errorf("%w: scheme must be %s://", ErrInvalidURI, uriScheme)
	}
	typ, rest, ok := strings.Cut(rest, "/")
	if !ok {
		return Account{}, fmt.Errorf("%w: missing label", ErrInvalidURI)
	}
	if !strings.EqualFold(typ, uriType) {
		return Account{}, fmt.Errorf("%w: unsupported type %q", ErrInvalidURI, typ)
	}
	label, query, _ := strings.Cut(rest, "?")
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query = query[:i]
	}

	params := parseQuery(query)

	var issuer, name string
	if rawIssuer, rawName, found := strings.Cut(label, ":"); found {
		issuer = unescape(rawIssuer, url.PathUnescape)
		name = unescape(rawName, url.PathUnescape)
	} else {
		// An escaped ':' belongs to the name unless it follows the issuer
		// given in the query, which some encoders escape too.
		name = unescape(label, url.PathUnescape)
		if p := params["issuer"]; p != "" {
			if rest, ok := strings.CutPrefix(name, p+":"); ok {
				issuer, name = p, rest
			}
		}
	}
	name = strings.TrimSpace(name)
	issuer = strings.TrimSpace(issuer)
	if name == "" {
		return Account{}, fmt.Errorf("%w: missing account name", ErrInvalidURI)
	}

	secret := params["secret"]
	if secret == "" {
		return Account{}, fmt.Errorf("%w: missing secret", ErrInvalidURI)
	}

	a := NewAccount(name, secret, issuer)
	if v, ok := params["issuer"]; ok && v != "" {
		a.Issuer = v
	}
	if v, ok := params["algorithm"]; ok {
		alg, err := ParseAlgorithm(v)
		if err != nil {
			return Account{}, err
		}
		a.Algorithm = alg
	}
	if v, ok := params["digits"]; ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Account{}, fmt.Errorf("%w: digits %q", ErrInvalidURI, v)
		}
		a.Digits = uint32(n)
	}
	if v, ok := params["period"]; ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Account{}, fmt.Errorf("%w: period %q", ErrInvalidURI, v)
		}
		a.Period = n
	}
	if v, ok := params["epoch"]; ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Account{}, fmt.Errorf("%w: epoch %q", ErrInvalidURI, v)
		}
		a.Epoch = n
	}

	if err := a.Validate(); err != nil {
		return Account{}, err
	}
	return a, nil
}

// parseQuery splits the query by hand so a literal '%' or space in one value
// does not reject the whole URI the way url.ParseQuery would.
func parseQuery(query string) map[string]string {
	params := make(map[string]string)
	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		k = strings.ToLower(unescape(k, url.QueryUnescape))
		if _, seen := params[k]; seen {
			continue
		}
		params[k] = strings.TrimSpace(unescape(v, url.QueryUnescape))
	}
	return params
}

// escapeLabel also escapes ':' since it separates issuer from name.
func escapeLabel(s string) string {
	return strings.ReplaceAll(url.PathEscape(s), ":", "%3A")
}

func unescape(s string, fn func(string) (string, error)) string {
	if out, err := fn(s); err == nil {
		return out
	}
	return s
}

