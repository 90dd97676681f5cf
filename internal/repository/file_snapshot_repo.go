package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
)

// FileSnapshotRepo はローカルディスク上のJSONファイルにスナップショットを保存するリポジトリ。
// ファイル名は <dir>/courier-auth.json。
type FileSnapshotRepo struct {
	path string
	mu   sync.Mutex
}

// NewFileSnapshotRepo はFileSnapshotRepoを生成する。
// 保存先ディレクトリが存在しない場合は作成する。
func NewFileSnapshotRepo(dir string) (*FileSnapshotRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileSnapshotRepo{
		path: filepath.Join(dir, SessionNamespace+".json"),
	}, nil
}

// Path はスナップショットファイルのパスを返す。
func (r *FileSnapshotRepo) Path() string {
	return r.path
}

// Save は同じディレクトリの一時ファイルに書き込み、fsyncしてからリネームすることで
// 原子的にスナップショットを置き換える。
// 書き込み途中でプロセスやマシンが停止しても、古いファイルか新しいファイルのどちらかが残る。
func (r *FileSnapshotRepo) Save(ctx context.Context, snapshot model.Session) error {
	b, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, SessionNamespace+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create session snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync session snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close session snapshot: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace session snapshot: %w", err)
	}
	committed = true

	syncDir(dir)
	return nil
}

// syncDir はリネームをディスクに反映させるためディレクトリをfsyncする。
// ディレクトリのfsyncをサポートしないプラットフォームもあるため、失敗は無視する。
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	defer d.Close()
	_ = d.Sync()
}

// Load はスナップショットファイルを読み込む。ファイルがない場合はnilを返す。
func (r *FileSnapshotRepo) Load(ctx context.Context) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session snapshot: %w", err)
	}
	return decodeSnapshot(b)
}

// compile-time interface check
var _ SessionSnapshotRepository = (*FileSnapshotRepo)(nil)
