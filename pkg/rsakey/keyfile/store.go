package keyfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hsiuhsiu/genkeys-go/pkg/rsakey"
)

// Store saves and loads named key pairs in a directory.
type Store struct {
	Dir string
}

// ValidateName accepts names made of ASCII letters, digits, '.', '_' and '-'
// that do not start with '.'.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name: %w", ErrInvalidName)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("%q starts with a dot: %w", name, ErrInvalidName)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-':
		default:
			return fmt.Errorf("%q contains %q: %w", name, r, ErrInvalidName)
		}
	}
	return nil
}

// Paths returns the public and private file paths for name.
func (s Store) Paths(name string) (pubPath, prvPath string) {
	base := filepath.Join(s.dir(), name)
	return base + PublicExt, base + PrivateExt
}

// Save writes both halves of a key pair. Both files are fully written to
// temporaries before either is renamed into place, so a failure while
// writing leaves any pair already saved under name untouched. The private
// half is renamed first.
func (s Store) Save(name string, pub *rsakey.PublicKey, priv *rsakey.PrivateKey) (pubPath, prvPath string, err error) {
	if err := ValidateName(name); err != nil {
		return "", "", err
	}
	pubPath, prvPath = s.Paths(name)

	pubTmp, err := stage(pubPath, publicMode, PublicFields(pub))
	if err != nil {
		return "", "", fmt.Errorf("write public key: %w", err)
	}
	prvTmp, err := stage(prvPath, privateMode, PrivateFields(priv))
	if err != nil {
		_ = os.Remove(pubTmp)
		return "", "", fmt.Errorf("write private key: %w", err)
	}

	if err := os.Rename(prvTmp, prvPath); err != nil {
		_ = os.Remove(prvTmp)
		_ = os.Remove(pubTmp)
		return "", "", fmt.Errorf("write private key: %w", err)
	}
	if err := os.Rename(pubTmp, pubPath); err != nil {
		_ = os.Remove(pubTmp)
		return "", "", fmt.Errorf("write public key: %w", err)
	}
	return pubPath, prvPath, nil
}

// LoadPublic reads the public key saved under name.
func (s Store) LoadPublic(name string) (*rsakey.PublicKey, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	pubPath, _ := s.Paths(name)
	return ReadPublic(pubPath)
}

// LoadPrivate reads the private key saved under name.
func (s Store) LoadPrivate(name string) (*rsakey.PrivateKey, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	_, prvPath := s.Paths(name)
	return ReadPrivate(prvPath)
}

// IsNotExist reports whether err means the key files are missing.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

func (s Store) dir() string {
	if s.Dir == "" {
		return "."
	}
	return s.Dir
}
