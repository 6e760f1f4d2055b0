package root

import (
	"context"

	"github.com/jmoiron/sqlx"

	"cleansteps/internal/recovery"
	"cleansteps/internal/storage"
)

func openDB(ctx context.Context) (*sqlx.DB, string, func(), error) {
	path, err := storage.ResolveDBPath(cfg.DBPath)
	if err != nil {
		return nil, "", nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, "", nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, path, cleanup, nil
}

func openService(ctx context.Context) (*recovery.Service, func(), error) {
	db, _, cleanup, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	return recovery.NewService(db), cleanup, nil
}
