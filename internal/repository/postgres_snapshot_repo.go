package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
)

// PostgresSnapshotRepo はPostgreSQLのkv_snapshotsテーブルにスナップショットを保存するリポジトリ。
type PostgresSnapshotRepo struct {
	db        *sql.DB
	namespace string
}

// NewPostgresSnapshotRepo はPostgresSnapshotRepoを生成する。
func NewPostgresSnapshotRepo(db *sql.DB) *PostgresSnapshotRepo {
	return &PostgresSnapshotRepo{db: db, namespace: SessionNamespace}
}

// Save はスナップショットをUPSERTする。
func (r *PostgresSnapshotRepo) Save(ctx context.Context, snapshot model.Session) error {
	b, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO kv_snapshots (namespace, data, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (namespace) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		r.namespace, b,
	)
	if err != nil {
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	return nil
}

// Load はスナップショットを取得する。行が存在しない場合はnilを返す。
func (r *PostgresSnapshotRepo) Load(ctx context.Context) (*model.Session, error) {
	var b []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM kv_snapshots WHERE namespace = $1`,
		r.namespace,
	).Scan(&b)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}

	return decodeSnapshot(b)
}

// compile-time interface check
var _ SessionSnapshotRepository = (*PostgresSnapshotRepo)(nil)
