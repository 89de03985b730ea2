package ksefauth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/chainsafe/ksef-middleware/pkg/config"
	"github.com/chainsafe/ksef-middleware/pkg/ksef"
)

// Method selects how a session is opened.
type Method string

const (
	MethodToken       Method = "token"
	MethodCertificate Method = "certificate"
)

const minTokenLength = 40

// Error codes reported in ksef.Error.Code by the provider.
const (
	CodeInvalidTokenFormat     = "INVALID_TOKEN_FORMAT"
	CodeCredentialIncomplete   = "CREDENTIAL_INCOMPLETE"
	CodeKeyPasswordMismatch    = "KEY_PASSWORD_MISMATCH"
	CodeCertificateKeyMismatch = "CERTIFICATE_KEY_MISMATCH"
	CodeCertificateExpired     = "CERTIFICATE_EXPIRED"
	CodeInvalidCertificate     = "INVALID_CERTIFICATE"
)

var (
	// ErrCredentialIncomplete is wrapped by errors for missing credential pieces.
	ErrCredentialIncomplete = errors.New("credential incomplete")
	// ErrKeyPasswordMismatch is wrapped by errors for keys that fail to decrypt.
	ErrKeyPasswordMismatch = errors.New("private key password mismatch")
)

// Credentials is the secret material for one method. PEM and PKCS#12 inputs
// are mutually exclusive; PKCS12 wins when both are present.
type Credentials struct {
	Token          string
	PublicKeyPEM   []byte
	CertificatePEM []byte
	PrivateKeyPEM  []byte
	KeyPassword    string
	PKCS12         []byte
}

// CredentialsFromConfig reads the files named in cfg. Unset paths are left
// empty and reported when the credentials are used.
func CredentialsFromConfig(cfg *config.AuthConfig) (Credentials, error) {
	creds := Credentials{
		Token:       cfg.Token,
		KeyPassword: cfg.PrivateKeyPassword,
	}

	files := []struct {
		path string
		dst  *[]byte
	}{
		{cfg.PublicKeyFile, &creds.PublicKeyPEM},
		{cfg.CertificateFile, &creds.CertificatePEM},
		{cfg.PrivateKeyFile, &creds.PrivateKeyPEM},
		{cfg.PKCS12File, &creds.PKCS12},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		b, err := os.ReadFile(f.path)
		if err != nil {
			return Credentials{}, fmt.Errorf("failed to read credential file: %w", err)
		}
		*f.dst = b
	}
	return creds, nil
}

// normalizeToken trims the token and checks its shape.
func normalizeToken(raw string) (string, *ksef.Error) {
	tok := strings.TrimSpace(raw)
	if tok == "" {
		return "", &ksef.Error{
			Kind:    ksef.KindAuth,
			Code:    CodeCredentialIncomplete,
			Message: "KSeF token is not configured",
			Err:     ErrCredentialIncomplete,
		}
	}
	if len(tok) < minTokenLength {
		return "", ksef.NewError(ksef.KindAuth, CodeInvalidTokenFormat,
			"KSeF token must be at least %d characters", minTokenLength)
	}
	for _, r := range tok {
		if unicode.IsControl(r) {
			return "", ksef.NewError(ksef.KindAuth, CodeInvalidTokenFormat, "KSeF token contains control characters")
		}
	}
	return tok, nil
}

func incomplete(format string, args ...any) *ksef.Error {
	e := ksef.NewError(ksef.KindAuth, CodeCredentialIncomplete, format, args...)
	e.Err = ErrCredentialIncomplete
	return e
}
