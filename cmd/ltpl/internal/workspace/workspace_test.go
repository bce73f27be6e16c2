package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/ltpl-stack/ltpl/cmd/ltpl/internal/errors"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/templates"
)

type opLog []string

func (l *opLog) observe(op Op, rel string) {
	*l = append(*l, string(op)+" "+rel)
}

func newTestWorkspace(t *testing.T) (*Workspace, *opLog) {
	t.Helper()
	log := &opLog{}
	return New(t.TempDir(), log.observe), log
}

func readFile(t *testing.T, w *Workspace, rel string) string {
	t.Helper()
	data, err := os.ReadFile(w.Path(rel))
	require.NoError(t, err)
	return string(data)
}

func TestWriteFile_RequiresParent(t *testing.T) {
	w, log := newTestWorkspace(t)

	err := w.WriteFile("src/routes/+page.svelte", []byte("x"))
	require.Error(t, err)
	assert.Equal(t, lerrors.EWriteFailed, lerrors.GetCode(err))
	assert.Empty(t, *log)
}

func TestWriteFile_Overwrites(t *testing.T) {
	w, log := newTestWorkspace(t)

	require.NoError(t, w.WriteFile("svelte.config.js", []byte("old")))
	require.NoError(t, w.WriteFile("svelte.config.js", []byte("new")))

	assert.Equal(t, "new", readFile(t, w, "svelte.config.js"))
	assert.Equal(t, opLog{"write svelte.config.js", "write svelte.config.js"}, *log)
}

func TestResetThenAppend(t *testing.T) {
	w, log := newTestWorkspace(t)

	require.NoError(t, w.ResetFile(".env"))
	require.NoError(t, w.AppendFile(".env", []byte("A=1\n")))
	require.NoError(t, w.ResetFile(".env"))
	require.NoError(t, w.AppendFile(".env", []byte("B=2\n")))
	require.NoError(t, w.AppendFile(".env", []byte("C=3\n")))

	assert.Equal(t, "B=2\nC=3\n", readFile(t, w, ".env"))
	want := opLog{"reset .env", "append .env", "reset .env", "append .env", "append .env"}
	if diff := cmp.Diff(want, *log); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendAsset(t *testing.T) {
	w, _ := newTestWorkspace(t)

	require.NoError(t, w.AppendAsset(".env", templates.StripeEnv))
	want, err := templates.ReadFile(templates.StripeEnv)
	require.NoError(t, err)
	assert.Equal(t, string(want), readFile(t, w, ".env"))
}

func TestAppendAsset_Missing(t *testing.T) {
	w, _ := newTestWorkspace(t)

	err := w.AppendAsset(".env", "env/nope.env")
	assert.Equal(t, lerrors.ETemplateMissing, lerrors.GetCode(err))
}

func TestWriteAsset_RendersTemplate(t *testing.T) {
	w, _ := newTestWorkspace(t)
	require.NoError(t, w.EnsureDir("src/routes"))

	require.NoError(t, w.WriteAsset("src/routes/+page.svelte", templates.Page, templates.NewPageData("shop")))
	assert.Contains(t, readFile(t, w, "src/routes/+page.svelte"), ">shop<")
}

func TestEnsureDir_Nested(t *testing.T) {
	w, log := newTestWorkspace(t)

	require.NoError(t, w.EnsureDir("src/lib/server"))
	require.NoError(t, w.EnsureDir("src/lib/server"))

	info, err := os.Stat(w.Path("src/lib/server"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Len(t, *log, 2)
}

func TestCopyAsset(t *testing.T) {
	w, log := newTestWorkspace(t)
	require.NoError(t, w.EnsureDir("static"))

	require.NoError(t, w.CopyAsset("static/ltpl_logo.png", templates.Logo))

	want, err := templates.ReadFile(templates.Logo)
	require.NoError(t, err)
	assert.Equal(t, string(want), readFile(t, w, "static/ltpl_logo.png"))
	assert.Equal(t, opLog{"mkdir static", "copy static/ltpl_logo.png"}, *log)
}

func TestCopyAsset_MissingDir(t *testing.T) {
	w, _ := newTestWorkspace(t)

	err := w.CopyAsset("static/ltpl_logo.png", templates.Logo)
	assert.Equal(t, lerrors.EWriteFailed, lerrors.GetCode(err))
}

func TestVerifyChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	// sha256("hello")
	good := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	assert.NoError(t, VerifyChecksum(path, good))

	err := VerifyChecksum(path, "deadbeef")
	var ce *ChecksumError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, good, ce.Actual)
}

func TestIsEmptyOrMissing(t *testing.T) {
	dir := t.TempDir()

	empty, err := IsEmptyOrMissing(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.True(t, empty)

	empty, err = IsEmptyOrMissing(dir)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "x"), nil, 0o644))
	empty, err = IsEmptyOrMissing(dir)
	require.NoError(t, err)
	assert.False(t, empty)
}
