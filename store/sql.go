// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/classvote/db"
	"github.com/danielhkuo/classvote/models"
)

// pqUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pqUniqueViolation = "23505"

var voteColumns = []string{"student_id", "student_name", "class_id", "voted_at"}

// SQLStore keeps votes in the vote table. The primary key on student_id is
// what rejects a second ballot.
type SQLStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

// NewSQLStore wraps an open connection. dialect is db.SQLite or db.Postgres
// and picks the placeholder format.
func NewSQLStore(conn *sql.DB, dialect string) *SQLStore {
	format := sq.PlaceholderFormat(sq.Question)
	if dialect == db.Postgres {
		format = sq.Dollar
	}
	return &SQLStore{
		db:      conn,
		builder: sq.StatementBuilder.PlaceholderFormat(format),
	}
}

func (s *SQLStore) Exists(ctx context.Context, studentID string) (bool, error) {
	query, args, err := s.build("check vote", s.builder.
		Select("1").
		From("vote").
		Where(sq.Eq{"student_id": studentID}))
	if err != nil {
		return false, err
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, storageErr("check vote", err)
	}
	return true, nil
}

func (s *SQLStore) Insert(ctx context.Context, vote models.Vote) (models.Vote, error) {
	vote = stamp(vote)

	query, args, err := s.build("insert vote", s.builder.
		Insert("vote").
		Columns(voteColumns...).
		Values(vote.StudentID, vote.StudentName, vote.ClassID, formatTime(vote.Timestamp)))
	if err != nil {
		return models.Vote{}, err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	if err == nil {
		return vote, nil
	}
	if !isUniqueViolation(err) {
		return models.Vote{}, storageErr("insert vote", err)
	}

	existing, getErr := s.get(ctx, vote.StudentID)
	if getErr != nil {
		return models.Vote{}, storageErr("read existing vote", getErr)
	}
	return models.Vote{}, &DuplicateVoteError{Existing: existing}
}

func (s *SQLStore) ListAll(ctx context.Context) ([]models.Vote, error) {
	query, args, err := s.build("list votes", s.builder.
		Select(voteColumns...).
		From("vote").
		OrderBy("voted_at", "student_id"))
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list votes", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, storageErr("scan vote", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list votes", err)
	}
	return votes, nil
}

func (s *SQLStore) ClearAll(ctx context.Context) error {
	query, args, err := s.build("clear votes", s.builder.Delete("vote"))
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return storageErr("clear votes", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) get(ctx context.Context, studentID string) (models.Vote, error) {
	query, args, err := s.build("read vote", s.builder.
		Select(voteColumns...).
		From("vote").
		Where(sq.Eq{"student_id": studentID}))
	if err != nil {
		return models.Vote{}, err
	}

	return scanVote(s.db.QueryRowContext(ctx, query, args...))
}

// build renders a statement, reporting builder failures as storage errors.
func (s *SQLStore) build(op string, b sq.Sqlizer) (string, []any, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, storageErr(op, fmt.Errorf("build query: %w", err))
	}
	return query, args, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVote(row rowScanner) (models.Vote, error) {
	var v models.Vote
	var votedAt string
	if err := row.Scan(&v.StudentID, &v.StudentName, &v.ClassID, &votedAt); err != nil {
		return models.Vote{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, votedAt)
	if err != nil {
		return models.Vote{}, fmt.Errorf("bad voted_at %q: %w", votedAt, err)
	}
	v.Timestamp = t
	return v, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func isUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// Connection without extended result codes
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}
