// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package python

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

func unkeyed(newKeyed func(key []byte) (hash.Hash, error)) func() hash.Hash {
	return func() hash.Hash {
		h, err := newKeyed(nil)
		if err != nil {
			// The blake2 constructors cannot fail with a nil key.
			panic(err)
		}
		return h
	}
}

// HashlibAlgorithmsGuaranteed is Python `hashlib.algorithms_guaranteed`.
//
//nolint:gochecknoglobals // Would be 'const'.
var HashlibAlgorithmsGuaranteed = map[string]func() hash.Hash{
	// This list is (sans shakes) in-sync with Python 3.9.9.
	"md5":      md5.New,
	"sha1":     sha1.New,
	"sha224":   sha256.New224,
	"sha256":   sha256.New,
	"sha384":   sha512.New384,
	"sha512":   sha512.New,
	"blake2b":  unkeyed(blake2b.New512),
	"blake2s":  unkeyed(blake2s.New256),
	"sha3_224": sha3.New224,
	"sha3_256": sha3.New256,
	"sha3_384": sha3.New384,
	"sha3_512": sha3.New512,
	// The shake algorithms take an output-length argument, which doesn't
	// fit hash.Hash.
	// "shake_128"
	// "shake_256"
}
