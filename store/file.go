// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/classvote/models"
)

// FileStore keeps all votes in a single JSON array file, the same layout as
// the legacy data/votes.json. The mutex covers the whole read-check-write
// cycle, so it is only safe with a single process writing the file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore prepares path for use, creating its directory and an empty
// array if the file does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, storageErr("create data directory", err)
	}

	s := &FileStore{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.save([]models.Vote{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, storageErr("stat vote file", err)
	}

	return s, nil
}

func (s *FileStore) Exists(ctx context.Context, studentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	votes, err := s.load()
	if err != nil {
		return false, err
	}
	_, found := find(votes, studentID)
	return found, nil
}

func (s *FileStore) Insert(ctx context.Context, vote models.Vote) (models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	votes, err := s.load()
	if err != nil {
		return models.Vote{}, err
	}
	if existing, found := find(votes, vote.StudentID); found {
		return models.Vote{}, &DuplicateVoteError{Existing: existing}
	}

	vote = stamp(vote)
	if err := s.save(append(votes, vote)); err != nil {
		return models.Vote{}, err
	}
	return vote, nil
}

func (s *FileStore) ListAll(ctx context.Context) ([]models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

func (s *FileStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save([]models.Vote{})
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) load() ([]models.Vote, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Vote{}, nil
	}
	if err != nil {
		return nil, storageErr("read vote file", err)
	}

	votes := []models.Vote{}
	if len(bytes.TrimSpace(data)) == 0 {
		return votes, nil
	}
	if err := json.Unmarshal(data, &votes); err != nil {
		return nil, storageErr("decode vote file", fmt.Errorf("%s: %w", s.path, err))
	}
	return votes, nil
}

// save replaces the file atomically: write a sibling temp file, then rename.
func (s *FileStore) save(votes []models.Vote) error {
	data, err := json.MarshalIndent(votes, "", "  ")
	if err != nil {
		return storageErr("encode votes", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return storageErr("create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return storageErr("write temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return storageErr("sync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return storageErr("close temp file", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return storageErr("replace vote file", err)
	}

	slog.Debug("vote file written",
		"path", s.path,
		"votes", len(votes),
		"size", humanize.Bytes(uint64(len(data))),
	)
	return nil
}

func find(votes []models.Vote, studentID string) (models.Vote, bool) {
	for _, v := range votes {
		if v.StudentID == studentID {
			return v, true
		}
	}
	return models.Vote{}, false
}
