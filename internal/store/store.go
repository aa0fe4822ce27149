// Package store owns the on-disk JSON documents: users, codes and the
// admins config. Every operation reads or rewrites a whole document;
// there are no partial updates. A single mutex serializes file access
// within the process, callers that need load-mutate-save atomicity
// across documents serialize at the core level.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"cookiegate/entity"
	"cookiegate/lib/sl"
)

const (
	usersFile  = "users.json"
	codesFile  = "codes.json"
	configFile = "config.json"
)

type adminsDoc struct {
	Admins []string `json:"admins"`
}

type FileStore struct {
	mu  sync.Mutex
	dir string
	log *slog.Logger
}

func New(dataDir string, log *slog.Logger) *FileStore {
	return &FileStore{
		dir: dataDir,
		log: log.With(sl.Module("store")),
	}
}

// Ensure creates the data directory and any missing documents. The users
// and codes documents start empty; the admins config starts with the
// bootstrap identities from the service config.
func (s *FileStore) Ensure(bootstrapAdmins []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("data dir: %w", err)
	}

	defaults := []struct {
		name string
		doc  interface{}
	}{
		{usersFile, map[string]*entity.User{}},
		{codesFile, map[string]*entity.RedeemCode{}},
		{configFile, adminsDoc{Admins: bootstrapAdmins}},
	}
	for _, d := range defaults {
		path := filepath.Join(s.dir, d.name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", d.name, err)
		}
		if err := s.write(d.name, d.doc); err != nil {
			return err
		}
		s.log.Info("initialized document", slog.String("file", d.name))
	}
	return nil
}

func (s *FileStore) Users() (map[string]*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := map[string]*entity.User{}
	if err := s.read(usersFile, &users); err != nil {
		return nil, err
	}
	for id, u := range users {
		u.Identity = id
	}
	return users, nil
}

func (s *FileStore) SaveUsers(users map[string]*entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(usersFile, users)
}

func (s *FileStore) Codes() (map[string]*entity.RedeemCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	codes := map[string]*entity.RedeemCode{}
	if err := s.read(codesFile, &codes); err != nil {
		return nil, err
	}
	for c, rc := range codes {
		rc.Code = c
	}
	return codes, nil
}

func (s *FileStore) SaveCodes(codes map[string]*entity.RedeemCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(codesFile, codes)
}

func (s *FileStore) Admins() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc adminsDoc
	if err := s.read(configFile, &doc); err != nil {
		return nil, err
	}
	return doc.Admins, nil
}

func (s *FileStore) read(name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) write(name string, doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err = os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
