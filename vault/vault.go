package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

const Ext = ".md"

var (
	ErrOutsideVault = errors.New("path escapes the vault")
	ErrNotNote      = errors.New("not a markdown note")
)

// Vault is a directory of markdown notes.
type Vault struct {
	root string
}

// Open returns the vault rooted at dir. The directory must exist.
func Open(dir string) (*Vault, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open vault %s: not a directory", abs)
	}
	return &Vault{root: abs}, nil
}

func (v *Vault) Root() string {
	return v.root
}

// Read returns the raw content of a note.
func (v *Vault) Read(id string) (string, error) {
	p, err := v.path(id)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("read note %s: %w", id, err)
	}
	return string(data), nil
}

// Write replaces the content of a note, creating it and its folders when needed.
func (v *Vault) Write(id, content string) error {
	p, err := v.path(id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("write note %s: %w", id, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write note %s: %w", id, err)
	}
	return nil
}

// Exists reports whether id names an existing note.
func (v *Vault) Exists(id string) bool {
	p, err := v.path(id)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// Notes lists every note in the vault in lexical order. Hidden folders such as
// editor configuration directories are skipped.
func (v *Vault) Notes() ([]string, error) {
	var ids []string
	err := filepath.WalkDir(v.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != v.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), Ext) {
			return nil
		}
		rel, err := filepath.Rel(v.root, p)
		if err != nil {
			return err
		}
		ids = append(ids, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	slices.Sort(ids)
	return ids, nil
}

// Basename is the file name of a note without folder or extension.
func Basename(id string) string {
	return strings.TrimSuffix(path.Base(id), path.Ext(id))
}

func (v *Vault) path(id string) (string, error) {
	if !strings.EqualFold(path.Ext(id), Ext) {
		return "", fmt.Errorf("%s: %w", id, ErrNotNote)
	}
	local := filepath.FromSlash(id)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%s: %w", id, ErrOutsideVault)
	}
	return filepath.Join(v.root, local), nil
}
