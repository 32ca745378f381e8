// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/classvote/models"
)

var (
	// ErrDuplicateVote matches any *DuplicateVoteError via errors.Is.
	ErrDuplicateVote = errors.New("student has already voted")

	// ErrStorage wraps every backend failure that is not a duplicate.
	ErrStorage = errors.New("vote storage failure")
)

// DuplicateVoteError is returned by Insert when the student already has a
// vote on record. Existing is that earlier vote.
type DuplicateVoteError struct {
	Existing models.Vote
}

func (e *DuplicateVoteError) Error() string {
	return fmt.Sprintf("student %s has already voted", e.Existing.StudentID)
}

func (e *DuplicateVoteError) Is(target error) bool {
	return target == ErrDuplicateVote
}

// VoteStore persists ballots. Implementations enforce one vote per
// student id themselves, so concurrent inserts for the same student
// produce exactly one success.
type VoteStore interface {
	Exists(ctx context.Context, studentID string) (bool, error)
	Insert(ctx context.Context, vote models.Vote) (models.Vote, error)
	ListAll(ctx context.Context) ([]models.Vote, error)
	ClearAll(ctx context.Context) error
	Close() error
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// stamp fills in the submission time when the caller did not supply one.
func stamp(v models.Vote) models.Vote {
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now()
	}
	v.Timestamp = v.Timestamp.UTC()
	return v
}
