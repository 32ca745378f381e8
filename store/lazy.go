// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/danielhkuo/classvote/models"
)

// ErrClosed is returned by a Lazy store after Close.
var ErrClosed = errors.New("vote store closed")

// Opener connects a backend.
type Opener func(ctx context.Context) (VoteStore, error)

// Lazy is a VoteStore that opens its backend on first use. A successful
// open happens exactly once; a failed open is retried by the next caller.
// Callers arriving during an open wait for it, but no longer than their
// own context allows.
type Lazy struct {
	open Opener

	mu      sync.Mutex
	store   VoteStore
	opening chan struct{} // closed when the in-flight open returns
	closed  bool
}

func NewLazy(open Opener) *Lazy {
	return &Lazy{open: open}
}

// Get returns the backend, opening it if needed.
func (l *Lazy) Get(ctx context.Context) (VoteStore, error) {
	for {
		l.mu.Lock()
		if l.closed {
			l.mu.Unlock()
			return nil, storageErr("open store", ErrClosed)
		}
		if l.store != nil {
			s := l.store
			l.mu.Unlock()
			return s, nil
		}
		if wait := l.opening; wait != nil {
			l.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return nil, storageErr("wait for store", ctx.Err())
			}
		}
		done := make(chan struct{})
		l.opening = done
		l.mu.Unlock()

		return l.openOnce(ctx, done)
	}
}

// openOnce runs the opener outside the lock and publishes the result.
func (l *Lazy) openOnce(ctx context.Context, done chan struct{}) (VoteStore, error) {
	s, err := l.open(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.opening = nil
	close(done)

	if err != nil {
		if !errors.Is(err, ErrStorage) {
			err = storageErr("open store", err)
		}
		return nil, err
	}
	if l.closed {
		s.Close()
		return nil, storageErr("open store", ErrClosed)
	}
	l.store = s
	return s, nil
}

func (l *Lazy) Exists(ctx context.Context, studentID string) (bool, error) {
	s, err := l.Get(ctx)
	if err != nil {
		return false, err
	}
	return s.Exists(ctx, studentID)
}

func (l *Lazy) Insert(ctx context.Context, vote models.Vote) (models.Vote, error) {
	s, err := l.Get(ctx)
	if err != nil {
		return models.Vote{}, err
	}
	return s.Insert(ctx, vote)
}

func (l *Lazy) ListAll(ctx context.Context) ([]models.Vote, error) {
	s, err := l.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.ListAll(ctx)
}

func (l *Lazy) ClearAll(ctx context.Context) error {
	s, err := l.Get(ctx)
	if err != nil {
		return err
	}
	return s.ClearAll(ctx)
}

// Close releases the backend if it was opened. Safe to call more than once.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if l.store == nil {
		return nil
	}
	err := l.store.Close()
	l.store = nil
	return err
}
