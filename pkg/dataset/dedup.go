package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// fileSignature identifies a file by its file system metadata and,
// optionally, its content.
type fileSignature struct {
	mode    fs.FileMode
	size    int64
	modTime int64
	digest  string
}

func signatureOf(path string, hashContent bool) (fileSignature, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileSignature{}, err
	}
	sig := fileSignature{
		mode:    info.Mode().Type(),
		size:    info.Size(),
		modTime: info.ModTime().UnixNano(),
	}
	if hashContent {
		sig.modTime = 0
		if sig.digest, err = digestFile(path); err != nil {
			return fileSignature{}, err
		}
	}
	return sig, nil
}

func digestFile(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DeduplicateFiles drops files whose signature matches an earlier file.
// Without content hashing two files are duplicates when their type, size and
// modification time agree; with it, when their type, size and digest agree. The order of the kept files is preserved.
func DeduplicateFiles(paths []string, hashContent bool) (kept, duplicates []string, err error) {
	seen := make(map[fileSignature]string)
	for _, p := range paths {
		sig, err := signatureOf(p, hashContent)
		if err != nil {
			return nil, nil, fmt.Errorf("reading file metadata: %w", err)
		}
		if _, dup := seen[sig]; dup {
			duplicates = append(duplicates, p)
			continue
		}
		seen[sig] = p
		kept = append(kept, p)
	}
	return kept, duplicates, nil
}
