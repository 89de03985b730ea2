package ksefauth

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/pkcs12"

	"github.com/chainsafe/ksef-middleware/pkg/ksef"
)

// CertInfo describes a certificate for display.
type CertInfo struct {
	Serial    string    `json:"serial"`
	Subject   string    `json:"subject"`
	Issuer    string    `json:"issuer"`
	NotBefore time.Time `json:"not_before"`
	NotAfter  time.Time `json:"not_after"`
}

func certInfo(cert *x509.Certificate) *CertInfo {
	return &CertInfo{
		Serial:    cert.SerialNumber.Text(16),
		Subject:   cert.Subject.String(),
		Issuer:    cert.Issuer.String(),
		NotBefore: cert.NotBefore,
		NotAfter:  cert.NotAfter,
	}
}

// loadCertificate decodes the certificate and its signing key and checks that
// they belong together and are usable at now.
func loadCertificate(creds Credentials, now time.Time) (*x509.Certificate, crypto.Signer, *ksef.Error) {
	var (
		cert *x509.Certificate
		key  any
		kerr *ksef.Error
	)
	if len(creds.PKCS12) > 0 {
		cert, key, kerr = decodePKCS12(creds)
	} else {
		cert, key, kerr = decodePEM(creds)
	}
	if kerr != nil {
		return nil, nil, kerr
	}

	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, nil, ksef.NewError(ksef.KindAuth, CodeInvalidCertificate, "private key type %T cannot sign", key)
	}
	if !publicKeysEqual(signer.Public(), cert.PublicKey) {
		return nil, nil, ksef.NewError(ksef.KindAuth, CodeCertificateKeyMismatch,
			"private key does not match certificate %s", cert.SerialNumber.Text(16))
	}
	if now.Before(cert.NotBefore) || now.After(cert.NotAfter) {
		return nil, nil, ksef.NewError(ksef.KindAuth, CodeCertificateExpired,
			"certificate is valid from %s to %s", cert.NotBefore.Format(time.RFC3339), cert.NotAfter.Format(time.RFC3339))
	}
	return cert, signer, nil
}

func decodePKCS12(creds Credentials) (*x509.Certificate, any, *ksef.Error) {
	if creds.KeyPassword == "" {
		return nil, nil, incomplete("PKCS#12 bundle requires a password")
	}
	key, cert, err := pkcs12.Decode(creds.PKCS12, creds.KeyPassword)
	if errors.Is(err, pkcs12.ErrIncorrectPassword) {
		return nil, nil, passwordMismatch()
	}
	if err != nil {
		return nil, nil, ksef.Wrap(ksef.KindAuth, err, "decode PKCS#12 bundle")
	}
	return cert, key, nil
}

func decodePEM(creds Credentials) (*x509.Certificate, any, *ksef.Error) {
	var missing []string
	if len(creds.CertificatePEM) == 0 {
		missing = append(missing, "certificate")
	}
	if len(creds.PrivateKeyPEM) == 0 {
		missing = append(missing, "private key")
	}
	if creds.KeyPassword == "" {
		missing = append(missing, "key password")
	}
	if len(missing) > 0 {
		return nil, nil, incomplete("missing %v", missing)
	}

	cert, err := parseCertificatePEM(creds.CertificatePEM)
	if err != nil {
		return nil, nil, &ksef.Error{Kind: ksef.KindAuth, Code: CodeInvalidCertificate, Message: "parse certificate", Err: err}
	}

	block, _ := pem.Decode(creds.PrivateKeyPEM)
	if block == nil {
		return nil, nil, ksef.NewError(ksef.KindAuth, CodeInvalidCertificate, "private key is not PEM encoded")
	}
	der := block.Bytes
	encrypted := x509.IsEncryptedPEMBlock(block) //nolint:staticcheck // legacy PEM encryption
	if encrypted {
		der, err = x509.DecryptPEMBlock(block, []byte(creds.KeyPassword)) //nolint:staticcheck
		if err != nil {
			return nil, nil, passwordMismatch()
		}
	}

	key, err := parsePrivateKey(der)
	if err != nil {
		// A wrong password can pass the padding check and yield garbage.
		if encrypted {
			return nil, nil, passwordMismatch()
		}
		return nil, nil, &ksef.Error{Kind: ksef.KindAuth, Code: CodeInvalidCertificate, Message: "parse private key", Err: err}
	}
	return cert, key, nil
}

func passwordMismatch() *ksef.Error {
	return &ksef.Error{
		Kind:    ksef.KindAuth,
		Code:    CodeKeyPasswordMismatch,
		Message: "cannot decrypt private key",
		Err:     ErrKeyPasswordMismatch,
	}
}

func parseCertificatePEM(data []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, errors.New("no CERTIFICATE block found")
	}
	return x509.ParseCertificate(block.Bytes)
}

func parsePrivateKey(der []byte) (any, error) {
	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	return nil, errors.New("unsupported private key encoding")
}

func publicKeysEqual(a, b crypto.PublicKey) bool {
	eq, ok := a.(interface{ Equal(crypto.PublicKey) bool })
	return ok && eq.Equal(b)
}

// signatureAlgorithm names the algorithm KSeF expects for the signer's key type.
func signatureAlgorithm(signer crypto.Signer) (string, error) {
	switch signer.Public().(type) {
	case *rsa.PublicKey:
		return "RSA-SHA256", nil
	case *ecdsa.PublicKey:
		return "ECDSA-SHA256", nil
	case ed25519.PublicKey:
		return "", fmt.Errorf("ed25519 keys are not accepted by KSeF")
	default:
		return "", fmt.Errorf("unsupported key type %T", signer.Public())
	}
}

// parsePublicKeyPEM accepts a PKIX public key or a certificate carrying an RSA key.
func parsePublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("public key is not PEM encoded")
	}

	var pub any
	switch block.Type {
	case "CERTIFICATE":
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		pub = cert.PublicKey
	default:
		var err error
		pub, err = x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, err
		}
	}

	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("KSeF public key must be RSA, got %T", pub)
	}
	return rsaPub, nil
}
