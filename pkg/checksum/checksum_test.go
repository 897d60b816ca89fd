package checksum_test

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/shippinglabel/pkg/checksum"
)

func writeTestFile(t *testing.T, content []byte) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "shippinglabel-0.16.0.tar.gz")
	require.NoError(t, os.WriteFile(filename, content, 0o644))
	return filename
}

func TestHash(t *testing.T) {
	t.Parallel()
	content := []byte("not really a tarball\n")
	filename := writeTestFile(t, content)

	h, err := checksum.Hash(filename, "sha256")
	require.NoError(t, err)
	expected := sha256.Sum256(content)
	assert.Equal(t, expected[:], h.Sum(nil))

	h, err = checksum.MD5(filename)
	require.NoError(t, err)
	expectedMD5 := md5.Sum(content)
	assert.Equal(t, expectedMD5[:], h.Sum(nil))

	_, err = checksum.Hash(filename, "xxhash")
	assert.ErrorContains(t, err, `unsupported hash algorithm: "xxhash"`)

	_, err = checksum.SHA256(filepath.Join(t.TempDir(), "no-such-file"))
	assert.Error(t, err)
}

func TestCheckSHA256(t *testing.T) {
	t.Parallel()
	content := []byte("not really a tarball\n")
	filename := writeTestFile(t, content)

	digest := sha256.Sum256(content)
	hexDigest := hex.EncodeToString(digest[:])

	assert.NoError(t, checksum.CheckSHA256(filename, hexDigest))

	err := checksum.CheckSHA256(filename, "0000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sha256 checksum mismatch")
	assert.Contains(t, err.Error(), "0000")
	assert.Contains(t, err.Error(), hexDigest)
}

func TestRecordEntry(t *testing.T) {
	t.Parallel()
	content := []byte("not really a tarball\n")
	filename := writeTestFile(t, content)

	entry, err := checksum.RecordEntry(filename)
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(filename), entry.Path)
	assert.Equal(t, "sha256", entry.Algorithm)
	expected := sha256.Sum256(content)
	assert.Equal(t, expected[:], entry.Digest)
	assert.Equal(t, int64(len(content)), entry.Size)

	relEntry, err := checksum.RecordEntryRelativeTo(filename, filepath.Dir(filename))
	require.NoError(t, err)
	assert.Equal(t, "shippinglabel-0.16.0.tar.gz", relEntry.Path)
	assert.NoError(t, relEntry.Verify(filepath.Dir(filename)))
}
