// Package localstore persists small per-user state (auth token, bookmarks)
// as files under a state directory, the app's durable client-local storage.
package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/elimuhq/elimu/core/bookmark"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// File is a mutex-guarded JSON document on disk.
type File struct {
	mu   sync.Mutex
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

// Load decodes the document into v. A missing file is not an error; v is
// left at its zero value.
func (f *File) Load(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading %s", f.path)
	}
	return errors.Wrapf(json.Unmarshal(data, v), "decoding %s", f.path)
}

// Save encodes v and atomically replaces the document.
func (f *File) Save(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding %s", f.path)
	}
	if err = os.MkdirAll(filepath.Dir(f.path), dirPerm); err != nil {
		return errors.Wrapf(err, "creating state dir for %s", f.path)
	}

	tmp := f.path + ".tmp"
	if err = os.WriteFile(tmp, data, filePerm); err != nil {
		return errors.Wrapf(err, "writing %s", tmp)
	}
	return errors.Wrapf(os.Rename(tmp, f.path), "replacing %s", f.path)
}

func (f *File) Remove() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", f.path)
	}
	return nil
}

// TokenFile persists the session auth token. It implements
// session.TokenStore.
type TokenFile struct {
	file *File
}

func NewTokenFile(path string) *TokenFile {
	return &TokenFile{file: NewFile(path)}
}

func (t *TokenFile) Read() (string, error) {
	var doc struct {
		Token string `json:"token"`
	}
	if err := t.file.Load(&doc); err != nil {
		return "", err
	}
	return strings.TrimSpace(doc.Token), nil
}

func (t *TokenFile) Write(token string) error {
	return t.file.Save(struct {
		Token string `json:"token"`
	}{Token: token})
}

func (t *TokenFile) Forget() error {
	return t.file.Remove()
}

// BookmarkFile persists the bookmark/enrollment state. It implements
// bookmark.Storage.
type BookmarkFile struct {
	file *File
}

func NewBookmarkFile(path string) *BookmarkFile {
	return &BookmarkFile{file: NewFile(path)}
}

func (b *BookmarkFile) Load() (bookmark.State, error) {
	var state bookmark.State
	err := b.file.Load(&state)
	return state, err
}

func (b *BookmarkFile) Save(state bookmark.State) error {
	return b.file.Save(state)
}
