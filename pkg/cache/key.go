package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/madspark-dev/madspark/pkg/errs"
)

// MaxFileBytes is the per-file size ceiling for cache-key hashing:
// files larger than this fail with FileTooLarge rather than being
// hashed.
const MaxFileBytes = 50 * 1024 * 1024

// FileEntry is one (path, content-hash) pair folded into a cache key.
type FileEntry struct {
	Path string
	Hash string
}

// KeyInputs is the canonical set of fields hashed into a cache key.
// Callers need not pre-sort anything: Key sorts copies of Files and URLs
// (and the Kwargs keys) itself.
type KeyInputs struct {
	Prompt            string
	SchemaIdentity    string
	Temperature       float64
	ProviderForced    string
	SystemInstruction string
	Files             []FileEntry
	URLs              []string
	Kwargs            map[string]string
}

// Key computes the SHA-256 hexdigest, truncated to 16 characters, of
// the canonical serialization of in, balancing collision resistance
// against key length.
func Key(in KeyInputs) string {
	files := append([]FileEntry(nil), in.Files...)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	urls := append([]string(nil), in.URLs...)
	sort.Strings(urls)

	kwargKeys := make([]string, 0, len(in.Kwargs))
	for k := range in.Kwargs {
		kwargKeys = append(kwargKeys, k)
	}
	sort.Strings(kwargKeys)

	var b strings.Builder
	fmt.Fprintf(&b, "prompt=%s\n", in.Prompt)
	fmt.Fprintf(&b, "schema=%s\n", in.SchemaIdentity)
	fmt.Fprintf(&b, "temperature=%g\n", in.Temperature)
	fmt.Fprintf(&b, "providerForced=%s\n", in.ProviderForced)
	fmt.Fprintf(&b, "systemInstruction=%s\n", in.SystemInstruction)
	for _, f := range files {
		fmt.Fprintf(&b, "file=%s:%s\n", f.Path, f.Hash)
	}
	for _, u := range urls {
		fmt.Fprintf(&b, "url=%s\n", u)
	}
	for _, k := range kwargKeys {
		fmt.Fprintf(&b, "kwarg=%s:%s\n", k, in.Kwargs[k])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])[:16]
}

// HashFile reads path and returns its SHA-256 hexdigest, rejecting files
// larger than MaxFileBytes with errs.FileTooLargeError.
func HashFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > MaxFileBytes {
		return "", errs.NewFileTooLargeError(path, info.Size(), MaxFileBytes)
	}

	f, err := os.Open(path)
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
