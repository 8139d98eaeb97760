package secret

import (
	"fmt"
	"os"
	"strings"
)

// EnvStore reads secrets from environment variables named
// <Prefix><KEY> with the key upper-cased and dashes turned into underscores.
// It is read-only.
type EnvStore struct {
	Prefix string
	lookup func(string) (string, bool)
}

func NewEnvStore(prefix string) *EnvStore {
	return &EnvStore{Prefix: prefix, lookup: os.LookupEnv}
}

// VarName returns the environment variable consulted for key.
func (e *EnvStore) VarName(key string) string {
	return e.Prefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

func (e *EnvStore) Get(key string) ([]byte, error) {
	if v, ok := e.lookup(e.VarName(key)); ok && v != "" {
		return []byte(v), nil
	}
	return nil, nil
}

func (e *EnvStore) Set(key string, _ []byte) error {
	return fmt.Errorf("env secret store is read-only (set %s instead)", e.VarName(key))
}

func (e *EnvStore) Delete(string) error { return nil }

// Chain consults each store in order for Get and writes to the last one.
type Chain []SecretStore

func (c Chain) Get(key string) ([]byte, error) {
	for _, s := range c {
		v, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		if len(v) > 0 {
			return v, nil
		}
	}
	return nil, nil
}

func (c Chain) Set(key string, value []byte) error {
	if len(c) == 0 {
		return fmt.Errorf("no secret store configured")
	}
	return c[len(c)-1].Set(key, value)
}

func (c Chain) Delete(key string) error {
	for _, s := range c {
		if err := s.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
