package contentstore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// HashFile computes the SHA-256 of a file's bytes, streaming so large
// uploads do not load into memory. Returns the 64-char lowercase hex digest.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", wrapStorage(path, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", wrapStorage(path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBytes returns the SHA-256 hex digest of an in-memory body. Used for
// page content written by the factories, where the bytes are already held.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// wrapStorage wraps an I/O error with ErrStorage and the offending path.
func wrapStorage(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, path, err)
}
