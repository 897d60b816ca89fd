// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package checksum creates and checks file checksums.
package checksum

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"

	"github.com/datawire/shippinglabel/pkg/python"
	"github.com/datawire/shippinglabel/pkg/python/pep376"
)

// blockSize is how much of a file gets read at a time.
const blockSize = 1 << 20

// Hash digests a file with the named algorithm; the algorithm names are
// those of python.HashlibAlgorithmsGuaranteed.
func Hash(filename, algorithm string) (hash.Hash, error) {
	newHash, ok := python.HashlibAlgorithmsGuaranteed[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported hash algorithm: %q", algorithm)
	}

	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = fp.Close()
	}()

	h := newHash()
	if _, err := io.CopyBuffer(h, fp, make([]byte, blockSize)); err != nil {
		return nil, err
	}
	return h, nil
}

// SHA256 digests a file with sha256.
func SHA256(filename string) (hash.Hash, error) {
	return Hash(filename, "sha256")
}

// MD5 digests a file with md5.
func MD5(filename string) (hash.Hash, error) {
	return Hash(filename, "md5")
}

// CheckSHA256 checks the file against a hex sha256 digest.
func CheckSHA256(filename, hexdigest string) error {
	h, err := SHA256(filename)
	if err != nil {
		return err
	}
	if actual := hex.EncodeToString(h.Sum(nil)); actual != hexdigest {
		return fmt.Errorf("%s: sha256 checksum mismatch: expected %s, got %s",
			filename, hexdigest, actual)
	}
	return nil
}

// RecordEntry constructs a PEP 376 RECORD entry for the file.
func RecordEntry(filename string) (pep376.RecordEntry, error) {
	return RecordEntryRelativeTo(filename, "")
}

// RecordEntryRelativeTo is RecordEntry with the recorded path made relative
// to root.
func RecordEntryRelativeTo(filename, root string) (pep376.RecordEntry, error) {
	h, err := SHA256(filename)
	if err != nil {
		return pep376.RecordEntry{}, err
	}
	info, err := os.Stat(filename)
	if err != nil {
		return pep376.RecordEntry{}, err
	}

	recordPath := filename
	if root != "" {
		recordPath, err = filepath.Rel(root, filename)
		if err != nil {
			return pep376.RecordEntry{}, err
		}
	}

	return pep376.RecordEntry{
		Path:      filepath.ToSlash(recordPath),
		Algorithm: "sha256",
		Digest:    h.Sum(nil),
		Size:      info.Size(),
	}, nil
}
