// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/classvote/cliparse"
	"github.com/danielhkuo/classvote/db"
)

// Open connects the backend named by cfg.StoreBackend.
func Open(ctx context.Context, cfg cliparse.Config) (VoteStore, error) {
	switch cfg.StoreBackend {
	case cliparse.BackendSQL, "":
		conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			return nil, storageErr("open database", err)
		}
		if err := db.CreateSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, storageErr("create schema", err)
		}
		slog.Info("vote store ready", "backend", cliparse.BackendSQL, "database", cfg.DatabaseType)
		return NewSQLStore(conn, cfg.DatabaseType), nil

	case cliparse.BackendFile:
		s, err := NewFileStore(cfg.DataFile)
		if err != nil {
			return nil, err
		}
		slog.Info("vote store ready", "backend", cliparse.BackendFile, "path", cfg.DataFile)
		return s, nil

	case cliparse.BackendMongo:
		s, err := OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		slog.Info("vote store ready", "backend", cliparse.BackendMongo, "database", cfg.MongoDB)
		return s, nil
	}

	return nil, storageErr("open store", fmt.Errorf("unknown backend %q", cfg.StoreBackend))
}
