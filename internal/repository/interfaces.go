// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
)

// SessionNamespace はセッションスナップショットを保存するキー名前空間。
// すべてのバックエンドでこのキーを使用する。
const SessionNamespace = "courier-auth"

// SessionSnapshotRepository はセッションスナップショットの永続化インターフェース。
// セッションストアは変更のたびにSaveを呼び、起動時に1回だけLoadを呼ぶ。
type SessionSnapshotRepository interface {
	// Save はスナップショットを上書き保存する。
	Save(ctx context.Context, snapshot model.Session) error

	// Load は保存済みのスナップショットを取得する。未保存の場合はnilを返す。
	Load(ctx context.Context) (*model.Session, error)
}
