package secret

import (
	"bytes"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

const keychainService = "pdfmark"

// KeychainStore implements SecretStore with the OS credential store:
// the macOS Keychain through `security`, or the freedesktop Secret Service
// through `secret-tool` elsewhere.
type KeychainStore struct {
	service string
	goos    string
	run     func(cmd *exec.Cmd) ([]byte, error)
}

// NewKeychainStore creates a KeychainStore for the current platform.
func NewKeychainStore() *KeychainStore {
	return &KeychainStore{
		service: keychainService,
		goos:    runtime.GOOS,
		run:     func(cmd *exec.Cmd) ([]byte, error) { return cmd.Output() },
	}
}

// Set stores a secret, replacing any existing value for key.
func (k *KeychainStore) Set(key string, value []byte) error {
	var cmd *exec.Cmd
	if k.goos == "darwin" {
		cmd = exec.Command("security", "add-generic-password",
			"-a", key,
			"-s", k.service,
			"-w", string(value),
			"-U", // update if exists
		)
	} else {
		cmd = exec.Command("secret-tool", "store",
			"--label", k.service+" "+key,
			"service", k.service,
			"account", key,
		)
		cmd.Stdin = bytes.NewReader(value)
	}
	if out, err := k.run(cmd); err != nil {
		return fmt.Errorf("keychain set %s: %s: %w", key, strings.TrimSpace(string(out)), err)
	}
	return nil
}

// Get retrieves a secret. A missing entry, or a platform without a
// credential store, yields nil and no error.
func (k *KeychainStore) Get(key string) ([]byte, error) {
	var cmd *exec.Cmd
	if k.goos == "darwin" {
		cmd = exec.Command("security", "find-generic-password",
			"-a", key,
			"-s", k.service,
			"-w", // output only the password
		)
	} else {
		cmd = exec.Command("secret-tool", "lookup", "service", k.service, "account", key)
	}
	out, err := k.run(cmd)
	if err != nil {
		// exit status 44 (security) / 1 (secret-tool) means not found; a
		// missing tool is treated the same way
		return nil, nil
	}
	v := strings.TrimRight(string(out), "\r\n")
	if v == "" {
		return nil, nil
	}
	return []byte(v), nil
}

// Delete removes a secret. Missing entries are not an error.
func (k *KeychainStore) Delete(key string) error {
	var cmd *exec.Cmd
	if k.goos == "darwin" {
		cmd = exec.Command("security", "delete-generic-password", "-a", key, "-s", k.service)
	} else {
		cmd = exec.Command("secret-tool", "clear", "service", k.service, "account", key)
	}
	k.run(cmd) // ignore errors, the item may not exist
	return nil
}
