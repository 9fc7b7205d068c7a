package digest

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"strings"
	"sync"
)

// DefaultAlgorithm is substituted whenever Config.Algorithm resolves to no known algorithm.
//
// Overriding it with a name that itself resolves to nothing makes digesting fail with *UnsupportedAlgorithmError
// instead of falling back.
var DefaultAlgorithm = "SHA-256"

var customHashes sync.Map

// Register adds a hash function under the given name so that it can be requested via Config.Algorithm.
//
// Unlike the built-in SHA families, registered names are matched exactly. Registering an already-known name shadows
// the built-in.
func Register(name string, hashNewFn func() hash.Hash) {
	customHashes.Store(name, hashNewFn)
}

// newHash maps an algorithm name to a fresh hash instance, nil if the name resolves to nothing.
//
// The built-in table accepts the usual spelling variants of the SHA family (case-insensitive, hyphen optional);
// anything else is looked up among the functions added with Register.
func newHash(name string) hash.Hash {
	if fn, ok := customHashes.Load(name); ok {
		return fn.(func() hash.Hash)()
	}

	switch strings.ReplaceAll(strings.ToUpper(name), "-", "") {
	case "SHA1":
		return sha1.New()
	case "SHA256":
		return sha256.New()
	case "SHA384":
		return sha512.New384()
	case "SHA512":
		return sha512.New()
	default:
		return nil
	}
}
