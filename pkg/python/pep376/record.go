// Package pep376 implements the RECORD file of PEP 376 -- Database of
// Installed Python Distributions.
//
// https://packaging.python.org/en/latest/specifications/recording-installed-packages/
package pep376

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/datawire/shippinglabel/pkg/python"
)

// A RecordEntry is one line of a RECORD file: an installed file's path, its
// digest, and its size in bytes.
type RecordEntry struct {
	// Path is slash-separated, relative to the site-packages directory.
	Path string
	// Algorithm names the digest's hash; in practice always "sha256".
	// It is empty for entries that carry no digest, such as the RECORD
	// file's own entry.
	Algorithm string
	// Digest is the raw digest.
	Digest []byte
	// Size is the file's size in bytes; negative for entries that carry
	// no size.
	Size int64
}

// String renders the entry as its RECORD line,
//
//	path,algorithm=digest,size
//
// with the digest in unpadded urlsafe base64.
func (e RecordEntry) String() string {
	var str strings.Builder
	str.WriteString(e.Path)
	str.WriteByte(',')
	if e.Algorithm != "" {
		str.WriteString(e.Algorithm)
		str.WriteByte('=')
		str.WriteString(base64.RawURLEncoding.EncodeToString(e.Digest))
	}
	str.WriteByte(',')
	if e.Size >= 0 {
		str.WriteString(strconv.FormatInt(e.Size, 10))
	}
	return str.String()
}

// ParseRecordEntry parses a RECORD line.  The digest and size fields are
// found from the right, so a path containing commas still round-trips.
func ParseRecordEntry(line string) (*RecordEntry, error) {
	line = strings.TrimRight(line, "\r\n")

	sizeSep := strings.LastIndexByte(line, ',')
	if sizeSep < 0 {
		return nil, fmt.Errorf("invalid RECORD entry: %q", line)
	}
	digestSep := strings.LastIndexByte(line[:sizeSep], ',')
	if digestSep < 0 {
		return nil, fmt.Errorf("invalid RECORD entry: %q", line)
	}

	ret := &RecordEntry{
		Path: line[:digestSep],
		Size: -1,
	}
	if ret.Path == "" {
		return nil, fmt.Errorf("invalid RECORD entry: %q", line)
	}

	if digestStr := line[digestSep+1 : sizeSep]; digestStr != "" {
		parts := strings.SplitN(digestStr, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid RECORD entry: %q: digest is not algorithm=value", line)
		}
		digest, err := base64.RawURLEncoding.DecodeString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid RECORD entry: %q: %w", line, err)
		}
		ret.Algorithm = parts[0]
		ret.Digest = digest
	}

	if sizeStr := line[sizeSep+1:]; sizeStr != "" {
		size, err := strconv.ParseInt(sizeStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RECORD entry: %q: %w", line, err)
		}
		ret.Size = size
	}

	return ret, nil
}

// Verify checks the entry against the file on disk under root.
func (e RecordEntry) Verify(root string) error {
	filename := filepath.Join(root, filepath.FromSlash(e.Path))

	if e.Algorithm == "" {
		// Nothing to check beyond existence (and the size, if recorded).
		info, err := os.Stat(filename)
		if err != nil {
			return err
		}
		if e.Size >= 0 && info.Size() != e.Size {
			return fmt.Errorf("%s: size mismatch: RECORD says %d, file is %d bytes",
				e.Path, e.Size, info.Size())
		}
		return nil
	}

	newHash, ok := python.HashlibAlgorithmsGuaranteed[e.Algorithm]
	if !ok {
		return fmt.Errorf("%s: unsupported hash algorithm: %q", e.Path, e.Algorithm)
	}

	fp, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer func() {
		_ = fp.Close()
	}()

	h := newHash()
	size, err := io.Copy(h, fp)
	if err != nil {
		return err
	}
	if e.Size >= 0 && size != e.Size {
		return fmt.Errorf("%s: size mismatch: RECORD says %d, file is %d bytes",
			e.Path, e.Size, size)
	}
	if digest := h.Sum(nil); !bytes.Equal(digest, e.Digest) {
		return fmt.Errorf("%s: %s checksum mismatch: RECORD says %s, file is %s",
			e.Path, e.Algorithm,
			base64.RawURLEncoding.EncodeToString(e.Digest),
			base64.RawURLEncoding.EncodeToString(digest))
	}
	return nil
}
