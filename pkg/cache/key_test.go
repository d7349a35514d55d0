package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madspark-dev/madspark/pkg/errs"
)

func TestKey_IdenticalInputsProduceIdenticalKeys(t *testing.T) {
	in := KeyInputs{Prompt: "p", SchemaIdentity: "s", Temperature: 0.7}
	assert.Equal(t, Key(in), Key(in))
}

func TestKey_DifferingComponentsProduceDifferentKeys(t *testing.T) {
	base := KeyInputs{Prompt: "p", SchemaIdentity: "s", Temperature: 0.7}
	withTemp := base
	withTemp.Temperature = 0.9

	withPrompt := base
	withPrompt.Prompt = "other"

	assert.NotEqual(t, Key(base), Key(withTemp))
	assert.NotEqual(t, Key(base), Key(withPrompt))
}

func TestKey_FileAndURLOrderDoesNotAffectKey(t *testing.T) {
	a := KeyInputs{
		Prompt: "p",
		Files:  []FileEntry{{Path: "b.txt", Hash: "h2"}, {Path: "a.txt", Hash: "h1"}},
		URLs:   []string{"https://b.example", "https://a.example"},
	}
	b := KeyInputs{
		Prompt: "p",
		Files:  []FileEntry{{Path: "a.txt", Hash: "h1"}, {Path: "b.txt", Hash: "h2"}},
		URLs:   []string{"https://a.example", "https://b.example"},
	}
	assert.Equal(t, Key(a), Key(b))
}

func TestKey_LengthIsSixteenHexChars(t *testing.T) {
	k := Key(KeyInputs{Prompt: "p"})
	assert.Len(t, k, 16)
}

func TestHashFile_AcceptsFileUnderLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	hash, err := HashFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

func TestHashFile_RejectsFileOverLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(MaxFileBytes+1))
	require.NoError(t, f.Close())

	_, err = HashFile(path)
	require.Error(t, err)
	var tooLarge *errs.FileTooLargeError
	assert.ErrorAs(t, err, &tooLarge)
	assert.True(t, strings.Contains(err.Error(), "big.txt"))
}
