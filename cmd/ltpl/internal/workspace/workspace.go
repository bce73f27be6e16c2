// Package workspace performs the file-system side of scaffolding inside a
// project directory. Paths are relative to the project root and slash
// separated.
package workspace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	lerrors "github.com/ltpl-stack/ltpl/cmd/ltpl/internal/errors"
	"github.com/ltpl-stack/ltpl/cmd/ltpl/internal/templates"
)

// Op identifies a file-system operation.
type Op string

const (
	OpWrite  Op = "write"
	OpAppend Op = "append"
	OpReset  Op = "reset"
	OpMkdir  Op = "mkdir"
	OpCopy   Op = "copy"
)

// Workspace represents a generated project directory.
type Workspace struct {
	Root string

	observe func(op Op, rel string)
}

// New returns a workspace rooted at root. observe, if non-nil, is called
// after every successful operation.
func New(root string, observe func(op Op, rel string)) *Workspace {
	return &Workspace{Root: root, observe: observe}
}

// Path returns the absolute path of rel.
func (w *Workspace) Path(rel string) string {
	return filepath.Join(w.Root, filepath.FromSlash(rel))
}

// WriteFile overwrites rel with data. The parent directory must exist.
func (w *Workspace) WriteFile(rel string, data []byte) error {
	if err := os.WriteFile(w.Path(rel), data, 0o644); err != nil {
		return writeErr("failed to write "+rel, rel, err)
	}
	w.record(OpWrite, rel)
	return nil
}

// WriteAsset renders the named template asset with data and writes it to rel.
func (w *Workspace) WriteAsset(rel, asset string, data any) error {
	content, err := templates.Render(asset, data)
	if err != nil {
		return lerrors.WrapWithDetails(lerrors.ETemplateMissing, "failed to render "+asset, err, map[string]string{"template": asset})
	}
	return w.WriteFile(rel, content)
}

// ResetFile truncates rel to empty, creating it if needed.
func (w *Workspace) ResetFile(rel string) error {
	if err := os.WriteFile(w.Path(rel), nil, 0o644); err != nil {
		return writeErr("failed to reset "+rel, rel, err)
	}
	w.record(OpReset, rel)
	return nil
}

// AppendFile appends data to rel, creating it if needed.
func (w *Workspace) AppendFile(rel string, data []byte) (err error) {
	f, err := os.OpenFile(w.Path(rel), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return writeErr("failed to open "+rel, rel, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = writeErr("failed to close "+rel, rel, cerr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return writeErr("failed to append to "+rel, rel, err)
	}
	w.record(OpAppend, rel)
	return nil
}

// AppendAsset appends the raw named asset to rel.
func (w *Workspace) AppendAsset(rel, asset string) error {
	content, err := templates.ReadFile(asset)
	if err != nil {
		return lerrors.WrapWithDetails(lerrors.ETemplateMissing, "missing template "+asset, err, map[string]string{"template": asset})
	}
	return w.AppendFile(rel, content)
}

// EnsureDir creates rel and any missing parents.
func (w *Workspace) EnsureDir(rel string) error {
	if err := os.MkdirAll(w.Path(rel), 0o755); err != nil {
		return writeErr("failed to create directory "+rel, rel, err)
	}
	w.record(OpMkdir, rel)
	return nil
}

// CopyAsset copies the raw named asset to rel and verifies the copy against
// the embedded checksum.
func (w *Workspace) CopyAsset(rel, asset string) error {
	src, err := templates.FS.Open("assets/" + asset)
	if err != nil {
		return lerrors.WrapWithDetails(lerrors.ETemplateMissing, "missing template "+asset, err, map[string]string{"template": asset})
	}
	defer src.Close()

	dest := w.Path(rel)
	if err := copyTo(dest, src); err != nil {
		return writeErr("failed to copy "+asset, rel, err)
	}

	want, err := templates.Checksum(asset)
	if err != nil {
		return lerrors.Wrap(lerrors.ETemplateMissing, "missing template "+asset, err)
	}
	if err := VerifyChecksum(dest, want); err != nil {
		return lerrors.WrapWithDetails(lerrors.EChecksumMismatch, "copied file does not match "+asset, err, map[string]string{"path": rel})
	}

	w.record(OpCopy, rel)
	return nil
}

func copyTo(dest string, src io.Reader) error {
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (w *Workspace) record(op Op, rel string) {
	if w.observe != nil {
		w.observe(op, rel)
	}
}

func writeErr(msg, rel string, err error) error {
	return lerrors.WrapWithDetails(lerrors.EWriteFailed, msg, err, map[string]string{"path": rel})
}

// IsEmptyOrMissing reports whether dir does not exist or has no entries.
func IsEmptyOrMissing(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	return len(entries) == 0, nil
}
