package keyfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/hsiuhsiu/genkeys-go/pkg/rsakey"
)

const (
	// PublicExt and PrivateExt are the file name suffixes of the two halves.
	PublicExt  = ".pub"
	PrivateExt = ".prv"

	publicMode  os.FileMode = 0o644
	privateMode os.FileMode = 0o600
)

var (
	// ErrMalformed is returned for key files that do not follow the format.
	ErrMalformed = errors.New("malformed key file")

	// ErrInvalidName is returned for key names that are empty or could
	// escape the key directory.
	ErrInvalidName = errors.New("invalid key name")
)

// Field is one name=value line.
type Field struct {
	Name  string
	Value *big.Int
}

// Encode writes fields as name=value lines, in order.
func Encode(w io.Writer, fields []Field) error {
	bw := bufio.NewWriter(w)
	for _, f := range fields {
		if f.Value == nil {
			return fmt.Errorf("field %q has no value", f.Name)
		}
		if _, err := fmt.Fprintf(bw, "%s=%s\n", f.Name, f.Value.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode parses name=value lines. Blank lines are skipped; anything else that
// is not a single assignment of an unsigned decimal integer, or a repeated
// name, is ErrMalformed.
func Decode(r io.Reader) (map[string]*big.Int, error) {
	fields := make(map[string]*big.Int)
	sc := bufio.NewScanner(r)
	// a 16384-bit modulus is under 5000 decimal digits
	sc.Buffer(make([]byte, 0, 4096), 64*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		name, value, ok := strings.Cut(text, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("line %d: missing assignment: %w", line, ErrMalformed)
		}
		if _, dup := fields[name]; dup {
			return nil, fmt.Errorf("line %d: duplicate field %q: %w", line, name, ErrMalformed)
		}
		// SetString also takes a sign; key files never carry one
		if value == "" || value[0] < '0' || value[0] > '9' {
			return nil, fmt.Errorf("line %d: field %q is not a decimal integer: %w", line, name, ErrMalformed)
		}
		v, ok := new(big.Int).SetString(value, 10)
		if !ok {
			return nil, fmt.Errorf("line %d: field %q is not a decimal integer: %w", line, name, ErrMalformed)
		}
		fields[name] = v
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}

// PublicFields returns the lines of a public key file.
func PublicFields(pub *rsakey.PublicKey) []Field {
	return []Field{{Name: "n", Value: pub.N}, {Name: "e", Value: pub.E}}
}

// PrivateFields returns the lines of a private key file.
func PrivateFields(priv *rsakey.PrivateKey) []Field {
	return []Field{{Name: "n", Value: priv.N}, {Name: "d", Value: priv.D}}
}

// WritePublic writes pub to path with mode 0644.
func WritePublic(path string, pub *rsakey.PublicKey) error {
	return writeAtomic(path, publicMode, PublicFields(pub))
}

// WritePrivate writes priv to path with mode 0600.
func WritePrivate(path string, priv *rsakey.PrivateKey) error {
	return writeAtomic(path, privateMode, PrivateFields(priv))
}

// ReadPublic loads a public key file.
func ReadPublic(path string) (*rsakey.PublicKey, error) {
	fields, err := readFields(path, "n", "e")
	if err != nil {
		return nil, err
	}
	return &rsakey.PublicKey{N: fields["n"], E: fields["e"]}, nil
}

// ReadPrivate loads a private key file.
func ReadPrivate(path string) (*rsakey.PrivateKey, error) {
	fields, err := readFields(path, "n", "d")
	if err != nil {
		return nil, err
	}
	return &rsakey.PrivateKey{N: fields["n"], D: fields["d"]}, nil
}

func readFields(path string, required ...string) (map[string]*big.Int, error) {
	f, err := os.Open(path) // #nosec G304 -- callers validate names through Store
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fields, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, name := range required {
		if fields[name] == nil {
			return nil, fmt.Errorf("%s: missing field %q: %w", path, name, ErrMalformed)
		}
	}
	return fields, nil
}

// writeAtomic writes to a temporary file in the target directory and renames
// it into place, so readers never observe a partial key.
func writeAtomic(path string, mode os.FileMode, fields []Field) error {
	tmp, err := stage(path, mode, fields)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// stage writes fields to a synced temporary file next to path and returns
// its name. The caller renames or removes it.
func stage(path string, mode os.FileMode, fields []Field) (name string, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(mode); err != nil {
		return "", err
	}
	if err = Encode(tmp, fields); err != nil {
		return "", err
	}
	if err = tmp.Sync(); err != nil {
		return "", err
	}
	if err = tmp.Close(); err != nil {
		return "", err
	}
	return tmp.Name(), nil
}
