// Package manifest maintains the sidecar checksum file written when a
// directory subtree is protected.
//
// The manifest sits beside the protected directory as <dirname>.md5 and
// carries one line per locked file: a 32-hex-character MD5 checksum and the
// file path relative to the directory's parent, marked with the binary-mode
// asterisk convention. Entries are appended at protect time, read at check
// time and never otherwise mutated.
package manifest

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pwf/internal/errs"
)

// PartialSumBytes is how much of a file the partial fingerprint reads.
// 8000 bytes is enough to tell photographs apart in practice; the
// duplicate check accepts the false-negative risk for large files that
// only differ later.
const PartialSumBytes = 8000

// Entry is one manifest line.
type Entry struct {
	// Checksum is the lowercase hex MD5 recorded at protect time.
	Checksum string
	// Path is the referenced file resolved to an absolute path.
	Path string
	// Binary records the *-prefix marker of the line.
	Binary bool
}

// Sum computes the streamed full-file MD5 checksum.
func Sum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errs.Wrap(errs.ErrIO, "manifest", "read "+path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// PartialSum computes the MD5 checksum of the first PartialSumBytes of the
// file, the cheap fingerprint used by duplicate grouping.
func PartialSum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.CopyN(h, f, PartialSumBytes); err != nil && err != io.EOF {
		return "", errs.Wrap(errs.ErrIO, "manifest", "read "+path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// PathFor returns the manifest location for a protected directory:
// a <dirname>.md5 file beside it.
func PathFor(dir string) string {
	dir = filepath.Clean(dir)
	return filepath.Join(filepath.Dir(dir), filepath.Base(dir)+".md5")
}

// Read parses the manifest beside dir. Paths are resolved against the
// directory's parent. A missing manifest is an I/O error; the caller decides
// whether that is fatal for its check.
func Read(dir string) ([]Entry, error) {
	manifestPath := PathFor(dir)
	f, err := os.Open(manifestPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parent := filepath.Dir(filepath.Clean(dir))

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		checksum, rel, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("malformed manifest line in %s: %q", manifestPath, line)
		}
		binary := strings.HasPrefix(rel, "*")
		entries = append(entries, Entry{
			Checksum: checksum,
			Path:     filepath.Join(parent, strings.TrimPrefix(rel, "*")),
			Binary:   binary,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrIO, "manifest", "read "+manifestPath, err)
	}
	return entries, nil
}

// Append records one checksum line for a file below dir. The relative path
// is computed against the directory's parent and written with the
// binary-mode marker. Repeated protect cycles accumulate duplicate lines;
// the manifest is append-only.
func Append(dir, filePath string) error {
	dir = filepath.Clean(dir)
	sum, err := Sum(filePath)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(filepath.Dir(dir), filePath)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(PathFor(dir), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s *%s\n", sum, rel); err != nil {
		return errs.Wrap(errs.ErrIO, "manifest", "append "+PathFor(dir), err)
	}
	return f.Close()
}
