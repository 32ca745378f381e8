// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists votes.

# Backends

Three implementations of VoteStore, selected by STORE_BACKEND:

  - sql (default): the vote table on SQLite or PostgreSQL, queries built
    with squirrel. The student_id primary key rejects second ballots.
  - file: a JSON array file, compatible with the legacy votes.json.
  - mongo: a votes collection with a unique index on studentId.

Open builds the configured backend:

	s, err := store.Open(ctx, cfg)

# One Vote Per Student

Every backend enforces uniqueness itself rather than relying on a
check-then-insert in the caller. A second Insert for the same student id
fails with *DuplicateVoteError carrying the vote already on record:

	_, err := s.Insert(ctx, vote)
	var dup *store.DuplicateVoteError
	if errors.As(err, &dup) {
		// dup.Existing is the earlier vote
	}

errors.Is(err, ErrDuplicateVote) also matches. Every other failure wraps
ErrStorage.

# Lazy Handle

Lazy defers opening the backend until the first request needs it:

	votes := store.NewLazy(func(ctx context.Context) (store.VoteStore, error) {
		return store.Open(ctx, cfg)
	})
	defer votes.Close()

The backend is opened once on success. A failed open is returned to the
caller and retried on the next call.

# Legacy Records

Older records may carry the class id as a string ("2") or a timestamp as
an ISO string. Both decode into models.Vote at the boundary, so tallies
compare numeric class ids only.
*/
package store
