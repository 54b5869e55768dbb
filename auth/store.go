package auth

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Daskott/govnotify/utils"
	"github.com/pkg/errors"
)

type TokenStore interface {
	Load() (*Session, error)
	Save(session *Session) error
	Clear() error
}

// FileStore keeps the last session in a JSON file only the owner can read
type FileStore struct {
	Path string
}

func NewFileStore(path string) (*FileStore, error) {
	expanded, err := utils.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	return &FileStore{Path: expanded}, nil
}

// Load returns nil without error when no session was saved yet
func (fs *FileStore) Load() (*Session, error) {
	f, err := os.Open(fs.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to open session file")
	}
	defer f.Close()

	session := &Session{}
	err = json.NewDecoder(f).Decode(session)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read session file %v", fs.Path)
	}

	return session, nil
}

func (fs *FileStore) Save(session *Session) error {
	err := utils.CreateDirIfNotExist(filepath.Dir(fs.Path))
	if err != nil {
		return err
	}

	f, err := os.OpenFile(fs.Path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err, "unable to cache session")
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(session)
}

func (fs *FileStore) Clear() error {
	err := os.Remove(fs.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
