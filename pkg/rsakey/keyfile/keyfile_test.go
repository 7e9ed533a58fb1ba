package keyfile_test

import (
	"bytes"
	"context"
	"math/big"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/genkeys-go/pkg/rsakey"
	"github.com/hsiuhsiu/genkeys-go/pkg/rsakey/keyfile"
)

func testKeyPair() (*rsakey.PublicKey, *rsakey.PrivateKey) {
	n := big.NewInt(131 * 137)
	return &rsakey.PublicKey{N: n, E: big.NewInt(rsakey.PublicExponent)},
		&rsakey.PrivateKey{N: new(big.Int).Set(n), D: big.NewInt(12113)}
}

func TestEncodeFormat(t *testing.T) {
	pub, priv := testKeyPair()

	var buf bytes.Buffer
	require.NoError(t, keyfile.Encode(&buf, keyfile.PublicFields(pub)))
	assert.Equal(t, "n=17947\ne=65537\n", buf.String())

	buf.Reset()
	require.NoError(t, keyfile.Encode(&buf, keyfile.PrivateFields(priv)))
	assert.Equal(t, "n=17947\nd=12113\n", buf.String())
}

func TestEncodeMissingValue(t *testing.T) {
	err := keyfile.Encode(&bytes.Buffer{}, []keyfile.Field{{Name: "n"}})
	require.Error(t, err)
}

func TestDecode(t *testing.T) {
	fields, err := keyfile.Decode(strings.NewReader("n=17947\n\n  e=65537  \n"))
	require.NoError(t, err)
	assert.Equal(t, int64(17947), fields["n"].Int64())
	assert.Equal(t, int64(65537), fields["e"].Int64())
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"no assignment": "n17947\n",
		"empty name":    "=17947\n",
		"not decimal":   "n=0x4619\n",
		"empty value":   "n=\n",
		"duplicate":     "n=1\nn=2\n",
		"negative":      "n=-5\n",
		"plus sign":     "n=+5\n",
		"leading space": "n= 5\n",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := keyfile.Decode(strings.NewReader(input))
			require.ErrorIs(t, err, keyfile.ErrMalformed)
		})
	}
}

func TestStoreRoundTrip(t *testing.T) {
	pub, priv, err := rsakey.Generate(context.Background(), 256)
	require.NoError(t, err)

	store := keyfile.Store{Dir: t.TempDir()}
	pubPath, prvPath, err := store.Save("alice", pub, priv)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir, "alice.pub"), pubPath)
	assert.Equal(t, filepath.Join(store.Dir, "alice.prv"), prvPath)

	gotPub, err := store.LoadPublic("alice")
	require.NoError(t, err)
	assert.Zero(t, gotPub.N.Cmp(pub.N))
	assert.Zero(t, gotPub.E.Cmp(pub.E))

	gotPriv, err := store.LoadPrivate("alice")
	require.NoError(t, err)
	assert.Zero(t, gotPriv.N.Cmp(priv.N))
	assert.Zero(t, gotPriv.D.Cmp(priv.D))

	raw, err := os.ReadFile(pubPath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "d=", "public file must not carry d")

	entries, err := os.ReadDir(store.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files must not be left behind")
}

func TestStoreFileModes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	pub, priv := testKeyPair()
	store := keyfile.Store{Dir: t.TempDir()}
	pubPath, prvPath, err := store.Save("bob", pub, priv)
	require.NoError(t, err)

	info, err := os.Stat(prvPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	info, err = os.Stat(pubPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestStoreSaveFailureKeepsExistingPair(t *testing.T) {
	dir := t.TempDir()
	store := keyfile.Store{Dir: dir}
	oldPub, oldPriv := testKeyPair()
	_, prvPath, err := store.Save("alice", oldPub, oldPriv)
	require.NoError(t, err)

	// a non-empty directory in place of alice.prv makes the rename fail
	require.NoError(t, os.Remove(prvPath))
	require.NoError(t, os.Mkdir(prvPath, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(prvPath, "x"), nil, 0o600))

	newPub := &rsakey.PublicKey{N: big.NewInt(3233), E: big.NewInt(17)}
	newPriv := &rsakey.PrivateKey{N: big.NewInt(3233), D: big.NewInt(2753)}
	_, _, err = store.Save("alice", newPub, newPriv)
	require.Error(t, err)

	got, err := store.LoadPublic("alice")
	require.NoError(t, err)
	assert.Zero(t, got.N.Cmp(oldPub.N))
	assert.Zero(t, got.E.Cmp(oldPub.E))

	leftovers, err := filepath.Glob(filepath.Join(dir, ".alice*.tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestStoreMissingKey(t *testing.T) {
	store := keyfile.Store{Dir: t.TempDir()}
	_, err := store.LoadPublic("nobody")
	require.Error(t, err)
	assert.True(t, keyfile.IsNotExist(err))
}

func TestReadPublicMissingField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "half.pub")
	require.NoError(t, os.WriteFile(path, []byte("n=17947\n"), 0o644))

	_, err := keyfile.ReadPublic(path)
	require.ErrorIs(t, err, keyfile.ErrMalformed)
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"alice", "bob.smith", "svc_01-prod", "A"} {
		assert.NoError(t, keyfile.ValidateName(name), name)
	}
	for _, name := range []string{"", ".hidden", "../etc/passwd", "a/b", `a\b`, "white space", "ünicode"} {
		assert.ErrorIs(t, keyfile.ValidateName(name), keyfile.ErrInvalidName, name)
	}

	pub, priv := testKeyPair()
	_, _, err := keyfile.Store{Dir: t.TempDir()}.Save("../escape", pub, priv)
	require.ErrorIs(t, err, keyfile.ErrInvalidName)
}
