package totp

import (
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/skip2/go-qrcode"
)

// DefaultIssuer is the issuer label shown in authenticator apps.
const DefaultIssuer = "TravelAdvisorApp"

const (
	period = 30
	skew   = 1
)

var b32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Authenticator issues TOTP seeds and checks one-time codes (RFC 6238, SHA1, 6 digits, 30s).
type Authenticator struct {
	issuer string
	now    func() time.Time
}

func NewAuthenticator(issuer string) *Authenticator {
	return &Authenticator{issuer: issuer, now: time.Now}
}

// GenerateSecret returns a fresh base32 seed.
func (a *Authenticator) GenerateSecret(account string) (string, error) {
	key, err := a.key(account, nil)
	if err != nil {
		return "", fmt.Errorf("generate totp secret: %w", err)
	}
	return key.Secret(), nil
}

// KeyURI renders the otpauth:// URI for an existing base32 seed.
func (a *Authenticator) KeyURI(account, secret string) (string, error) {
	raw, err := b32NoPadding.DecodeString(strings.ToUpper(strings.TrimSpace(secret)))
	if err != nil {
		return "", fmt.Errorf("decode totp secret: %w", err)
	}
	key, err := a.key(account, raw)
	if err != nil {
		return "", fmt.Errorf("build totp key: %w", err)
	}
	return key.URL(), nil
}

// key builds the TOTP key for account; a nil secret draws a random one.
func (a *Authenticator) key(account string, secret []byte) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      a.issuer,
		AccountName: account,
		Period:      period,
		Secret:      secret,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
}

// QRCodeDataURL encodes the key URI as a PNG data URL for direct use in an <img> tag.
func (a *Authenticator) QRCodeDataURL(account, secret string) (string, error) {
	uri, err := a.KeyURI(account, secret)
	if err != nil {
		return "", err
	}
	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Verify reports whether code is valid for secret at the current time, allowing one step of drift.
func (a *Authenticator) Verify(code, secret string) bool {
	ok, err := totp.ValidateCustom(code, secret, a.now().UTC(), totp.ValidateOpts{
		Period:    period,
		Skew:      skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
