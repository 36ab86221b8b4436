package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// fingerprintTail is how much of the end of a file Fingerprint hashes.
const fingerprintTail = 2048

// Fingerprint returns the CRC32 of the last 2KB of a file as hex. Notes grow
// at the end, so the tail catches most edits that keep size and modtime.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	n := min(info.Size(), fingerprintTail)
	if _, err := f.Seek(-n, io.SeekEnd); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(f, buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(buf)), nil
}
