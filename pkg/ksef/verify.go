package ksef

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// InvoiceHash returns the base64 SHA-256 digest KSeF uses to identify a document.
func InvoiceHash(document []byte) string {
	sum := sha256.Sum256(document)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// VerificationURL builds the public verification link of an accepted invoice.
// invoiceHash is the base64 SHA-256 digest stored alongside the submission.
func VerificationURL(env Environment, ksefNumber, invoiceHash string) (string, error) {
	if !env.Valid() {
		return "", fmt.Errorf("unknown KSeF environment %q", env)
	}
	ksefNumber = strings.TrimSpace(ksefNumber)
	if ksefNumber == "" {
		return "", errors.New("ksef number is required")
	}

	digest, err := base64.StdEncoding.DecodeString(invoiceHash)
	if err != nil {
		return "", fmt.Errorf("invalid invoice hash: %w", err)
	}
	if len(digest) != sha256.Size {
		return "", fmt.Errorf("invalid invoice hash length %d", len(digest))
	}

	return fmt.Sprintf("%s/invoice/%s/%s",
		env.VerificationBaseURL(),
		url.PathEscape(ksefNumber),
		base64.RawURLEncoding.EncodeToString(digest),
	), nil
}

// VerificationURLForDocument hashes the document and builds its verification link.
func VerificationURLForDocument(env Environment, ksefNumber string, document []byte) (string, error) {
	return VerificationURL(env, ksefNumber, InvoiceHash(document))
}
