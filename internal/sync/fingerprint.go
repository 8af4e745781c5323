package sync

import (
	"crypto/md5"
	"fmt"
	"os"
)

// Fingerprint returns the MD5 hex digest of content. It is an equality
// signal for change detection, not an integrity check.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}

// FileFingerprint fingerprints a file's current content.
func FileFingerprint(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	return Fingerprint(data), nil
}
