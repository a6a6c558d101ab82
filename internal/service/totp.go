package service

import (
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	totpPeriod     = 30
	totpDigits     = otp.DigitsSix
	totpSecretSize = 20
)

// TOTPEngine generates and verifies time-based one-time passwords compatible
// with standard authenticator apps (SHA1, 6 digits, 30 second period).
type TOTPEngine struct {
	Issuer string
}

// GenerateSecret returns a fresh base32 secret and the otpauth:// URI an
// authenticator app can enrol with.
func (e *TOTPEngine) GenerateSecret(account string) (secret, uri string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      e.Issuer,
		AccountName: account,
		SecretSize:  totpSecretSize,
		Period:      totpPeriod,
		Digits:      totpDigits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// ProvisioningURI rebuilds the otpauth:// URI for an existing secret.
func (e *TOTPEngine) ProvisioningURI(account, secret string) string {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", e.Issuer)
	v.Set("algorithm", "SHA1")
	v.Set("digits", "6")
	v.Set("period", "30")

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + e.Issuer + ":" + account,
		RawQuery: v.Encode(),
	}
	return u.String()
}

// VerifyCode checks a submitted code against the secret with one period of
// clock skew either side. Malformed input or an invalid secret fails closed.
func (e *TOTPEngine) VerifyCode(secret, code string, now time.Time) bool {
	code = strings.TrimSpace(code)
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	ok, err := totp.ValidateCustom(code, secret, now, totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      1,
		Digits:    totpDigits,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return ok
}
