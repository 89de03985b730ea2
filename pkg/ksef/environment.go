// Package ksef holds the vocabulary shared by every KSeF-facing component:
// environments, the error taxonomy, the static error code table and the
// verification URL builders.
package ksef

import (
	"fmt"
	"strings"
)

// Environment identifies a KSeF deployment.
type Environment string

const (
	EnvironmentTest       Environment = "TEST"
	EnvironmentDemo       Environment = "DEMO"
	EnvironmentProduction Environment = "PRODUCTION"
)

type endpoints struct {
	api    string
	verify string
}

var environments = map[Environment]endpoints{
	EnvironmentTest: {
		api:    "https://ksef-test.mf.gov.pl/api/v2",
		verify: "https://qr-test.ksef.mf.gov.pl",
	},
	EnvironmentDemo: {
		api:    "https://ksef-demo.mf.gov.pl/api/v2",
		verify: "https://qr-demo.ksef.mf.gov.pl",
	},
	EnvironmentProduction: {
		api:    "https://ksef.mf.gov.pl/api/v2",
		verify: "https://qr.ksef.mf.gov.pl",
	},
}

// ParseEnvironment converts a case-insensitive name into an Environment.
func ParseEnvironment(s string) (Environment, error) {
	env := Environment(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := environments[env]; !ok {
		return "", fmt.Errorf("unknown KSeF environment %q", s)
	}
	return env, nil
}

// Valid reports whether env is one of the known environments.
func (env Environment) Valid() bool {
	_, ok := environments[env]
	return ok
}

func (env Environment) String() string {
	return string(env)
}

// APIBaseURL returns the REST API root for the environment.
func (env Environment) APIBaseURL() string {
	return environments[env].api
}

// VerificationBaseURL returns the public verification portal root for the environment.
func (env Environment) VerificationBaseURL() string {
	return environments[env].verify
}
