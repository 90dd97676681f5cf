package repository

import (
	"context"
	"sync"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
)

// MemorySnapshotRepo はプロセス内メモリにスナップショットを保持するリポジトリ。
// テストおよびSNAPSHOT_BACKEND=memoryで使用する。
type MemorySnapshotRepo struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemorySnapshotRepo はMemorySnapshotRepoを生成する。
func NewMemorySnapshotRepo() *MemorySnapshotRepo {
	return &MemorySnapshotRepo{}
}

// Save はスナップショットをシリアライズして保持する。
// ファイルやRedisと同じフォーマットを通すことで往復の検証をテストでも行える。
func (r *MemorySnapshotRepo) Save(ctx context.Context, snapshot model.Session) error {
	b, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = b
	r.saves++
	return nil
}

// Load は保持中のスナップショットを返す。未保存の場合はnilを返す。
func (r *MemorySnapshotRepo) Load(ctx context.Context) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data == nil {
		return nil, nil
	}
	return decodeSnapshot(r.data)
}

// SaveCount はSaveが呼ばれた回数を返す。テスト用。
func (r *MemorySnapshotRepo) SaveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// compile-time interface check
var _ SessionSnapshotRepository = (*MemorySnapshotRepo)(nil)
