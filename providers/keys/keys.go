package keys

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Source returns the API key of a provider. ok is false when no non-empty
// key is known.
type Source interface {
	Lookup(providerID string) (key string, ok bool)
}

// EnvSource reads keys from environment variables. By default provider
// "openai" maps to OPENAI_API_KEY and "my-server" to MY_SERVER_API_KEY.
type EnvSource struct {
	names map[string]string
}

// EnvOption configures an EnvSource.
type EnvOption func(*EnvSource) error

// WithVariable maps a provider to a custom variable name.
func WithVariable(providerID, variable string) EnvOption {
	return func(s *EnvSource) error {
		s.names[providerID] = variable
		return nil
	}
}

// WithDotEnv loads the given .env files (".env" when none is given) into
// the process environment. Variables that are already set are not
// overridden. Missing files are ignored; malformed ones are an error.
func WithDotEnv(paths ...string) EnvOption {
	return func(*EnvSource) error {
		if len(paths) == 0 {
			paths = []string{".env"}
		}
		for _, path := range paths {
			if _, err := os.Stat(path); os.IsNotExist(err) {
				continue
			}
			if err := godotenv.Load(path); err != nil {
				return fmt.Errorf("keys: load %s: %w", path, err)
			}
		}
		return nil
	}
}

// NewEnvSource creates an environment backed source.
func NewEnvSource(opts ...EnvOption) (*EnvSource, error) {
	s := &EnvSource{names: make(map[string]string)}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// VariableName returns the variable consulted for providerID.
func (s *EnvSource) VariableName(providerID string) string {
	if name, ok := s.names[providerID]; ok {
		return name
	}
	return DefaultVariableName(providerID)
}

// Lookup implements Source.
func (s *EnvSource) Lookup(providerID string) (string, bool) {
	key := strings.TrimSpace(os.Getenv(s.VariableName(providerID)))
	return key, key != ""
}

// DefaultVariableName upper-cases providerID, replaces every character
// that is not a letter or digit with '_' and appends _API_KEY.
func DefaultVariableName(providerID string) string {
	upper := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, providerID)
	return upper + "_API_KEY"
}

// StaticSource serves keys from a map.
type StaticSource map[string]string

// Lookup implements Source.
func (s StaticSource) Lookup(providerID string) (string, bool) {
	key, ok := s[providerID]
	return key, ok && key != ""
}
