// Package fingerprint computes content digests used for staleness decisions.
// A fingerprint is the hex-encoded SHA-256 of a file's bytes: equal content
// means equal fingerprints, and any byte change produces a different digest.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// chunkSize is the read buffer size. Files are streamed through the hash,
// never buffered whole, so arbitrarily large sources are fine.
const chunkSize = 4096

// File returns the hex-encoded SHA-256 digest of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
