// Package ksefauth opens KSeF sessions with either a KSeF token or a
// qualified certificate. Sessions are not cached; every logical operation
// authenticates afresh.
package ksefauth

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/ksef-middleware/pkg/config"
	"github.com/chainsafe/ksef-middleware/pkg/ksef"
	"github.com/chainsafe/ksef-middleware/pkg/ksefapi"
)

// Client is the subset of the KSeF API the provider needs.
type Client interface {
	Challenge(ctx context.Context) (*ksefapi.Challenge, error)
	Authenticate(ctx context.Context, req *ksefapi.AuthRequest) (*ksefapi.SessionToken, error)
}

// Provider authenticates against KSeF on behalf of one taxpayer.
type Provider struct {
	client Client
	nip    string
	method Method
	creds  Credentials
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the provider logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// WithClock sets the time source used for certificate validity checks.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// NewProvider builds a provider from the ksef config section, reading any
// credential files it names.
func NewProvider(client Client, cfg *config.KSeFConfig, opts ...Option) (*Provider, error) {
	creds, err := CredentialsFromConfig(&cfg.Auth)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		client: client,
		nip:    cfg.NIP,
		method: Method(cfg.Auth.Method),
		creds:  creds,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Session authenticates with the configured method and credentials.
func (p *Provider) Session(ctx context.Context) (*ksefapi.SessionToken, error) {
	return p.Authenticate(ctx, p.method, p.creds)
}

// Authenticate opens a session with the given method and credentials.
// All failures are *ksef.Error values.
func (p *Provider) Authenticate(ctx context.Context, method Method, creds Credentials) (*ksefapi.SessionToken, error) {
	var (
		build func(*ksefapi.Challenge) (*ksefapi.AuthRequest, *ksef.Error)
		kerr  *ksef.Error
	)

	switch method {
	case MethodToken:
		build, kerr = p.tokenRequest(creds)
	case MethodCertificate:
		build, kerr = p.certificateRequest(creds)
	default:
		kerr = ksef.NewError(ksef.KindAuth, "", "unknown auth method %q", method)
	}
	if kerr != nil {
		return nil, kerr
	}

	ch, err := p.client.Challenge(ctx)
	if err != nil {
		return nil, err
	}
	req, kerr := build(ch)
	if kerr != nil {
		return nil, kerr
	}

	tok, err := p.client.Authenticate(ctx, req)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("KSeF session opened",
		zap.String("method", string(method)),
		zap.String("reference", tok.ReferenceNumber),
		zap.Time("valid_until", tok.ValidUntil))
	return tok, nil
}

// tokenRequest validates the token credentials up front so no challenge is
// requested for unusable input.
func (p *Provider) tokenRequest(creds Credentials) (func(*ksefapi.Challenge) (*ksefapi.AuthRequest, *ksef.Error), *ksef.Error) {
	tok, kerr := normalizeToken(creds.Token)
	if kerr != nil {
		return nil, kerr
	}
	if len(creds.PublicKeyPEM) == 0 {
		return nil, incomplete("KSeF public key is not configured")
	}
	pub, err := parsePublicKeyPEM(creds.PublicKeyPEM)
	if err != nil {
		return nil, ksef.Wrap(ksef.KindAuth, err, "parse KSeF public key")
	}

	return func(ch *ksefapi.Challenge) (*ksefapi.AuthRequest, *ksef.Error) {
		plain := []byte(tok + "|" + strconv.FormatInt(ch.TimestampMs, 10))
		enc, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plain, nil)
		if err != nil {
			return nil, ksef.Wrap(ksef.KindAuth, err, "encrypt KSeF token")
		}
		return &ksefapi.AuthRequest{
			Challenge:         ch.Challenge,
			ContextIdentifier: ksefapi.NIPContext(p.nip),
			EncryptedToken:    base64.StdEncoding.EncodeToString(enc),
		}, nil
	}, nil
}

func (p *Provider) certificateRequest(creds Credentials) (func(*ksefapi.Challenge) (*ksefapi.AuthRequest, *ksef.Error), *ksef.Error) {
	cert, signer, kerr := loadCertificate(creds, p.now())
	if kerr != nil {
		return nil, kerr
	}
	alg, err := signatureAlgorithm(signer)
	if err != nil {
		return nil, ksef.Wrap(ksef.KindAuth, err, "select signature algorithm")
	}

	return func(ch *ksefapi.Challenge) (*ksefapi.AuthRequest, *ksef.Error) {
		digest := sha256.Sum256([]byte(ch.Challenge))
		sig, err := signer.Sign(rand.Reader, digest[:], crypto.SHA256)
		if err != nil {
			return nil, ksef.Wrap(ksef.KindAuth, err, "sign challenge")
		}
		return &ksefapi.AuthRequest{
			Challenge:          ch.Challenge,
			ContextIdentifier:  ksefapi.NIPContext(p.nip),
			Certificate:        base64.StdEncoding.EncodeToString(cert.Raw),
			Signature:          base64.StdEncoding.EncodeToString(sig),
			SignatureAlgorithm: alg,
		}, nil
	}, nil
}

// CertificateInfo decodes creds and returns the certificate's identity and
// validity. Expired certificates are still described.
func (p *Provider) CertificateInfo(creds Credentials) (*CertInfo, error) {
	if len(creds.PKCS12) > 0 {
		cert, _, kerr := decodePKCS12(creds)
		if kerr != nil {
			return nil, kerr
		}
		return certInfo(cert), nil
	}
	if len(creds.CertificatePEM) == 0 {
		return nil, incomplete("certificate is not configured")
	}
	cert, err := parseCertificatePEM(creds.CertificatePEM)
	if err != nil {
		return nil, &ksef.Error{Kind: ksef.KindAuth, Code: CodeInvalidCertificate, Message: "parse certificate", Err: err}
	}
	return certInfo(cert), nil
}

// ConfiguredCertificateInfo describes the configured certificate.
func (p *Provider) ConfiguredCertificateInfo() (*CertInfo, error) {
	return p.CertificateInfo(p.creds)
}
