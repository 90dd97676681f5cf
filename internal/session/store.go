// Package session は「誰がサインインしているか」を保持する唯一のストアを提供する。
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
	"github.com/Rizviblue/rapid-courier-pro/internal/repository"
)

// persistTimeout はスナップショット1回の保存に許す時間。
// 保存はリクエストのキャンセルから切り離して行うため、この時間で打ち切る。
const persistTimeout = 5 * time.Second

// Store は現在のセッションを保持する。
// プロセスにつき1インスタンスを生成し、ガードとハンドラーに注入して使う。
// 変更操作のたびにスナップショットをリポジトリへ同期的に保存する。
type Store struct {
	mu    sync.RWMutex
	state model.Session
	repo  repository.SessionSnapshotRepository
}

// NewStore はStoreを生成し、保存済みスナップショットがあれば復元する。
// 読み込みに失敗した場合や不変条件を満たさないスナップショットは破棄し、未認証状態で開始する。
func NewStore(ctx context.Context, repo repository.SessionSnapshotRepository) *Store {
	s := &Store{repo: repo}

	if repo == nil {
		return s
	}

	snap, err := repo.Load(ctx)
	if err != nil {
		slog.Warn("failed to restore session snapshot, starting signed out",
			slog.String("error", err.Error()),
		)
		return s
	}
	if snap == nil {
		return s
	}
	if !snap.Consistent() {
		slog.Warn("discarding inconsistent session snapshot",
			slog.Bool("is_authenticated", snap.IsAuthenticated),
			slog.Bool("has_user", snap.User != nil),
		)
		return s
	}

	s.state = snap.Clone()
	if s.state.User != nil {
		slog.Info("session restored",
			slog.String("user_id", s.state.User.ID),
			slog.String("role", string(s.state.User.Role)),
		)
	}
	return s
}

// Login は現在のIdentityを置き換え、認証済み状態にする。
// 資格情報の検証は呼び出し側の責務。ロールが列挙外の場合のみエラーを返し、状態は変更しない。
func (s *Store) Login(ctx context.Context, identity model.Identity) error {
	if !identity.Role.Valid() {
		return model.NewInvalidRoleError(string(identity.Role))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := identity
	s.state = model.Session{User: &u, IsAuthenticated: true}
	s.persistLocked(ctx)

	slog.Info("user logged in",
		slog.String("user_id", identity.ID),
		slog.String("role", string(identity.Role)),
	)
	return nil
}

// DemoLogin は指定ロールの組み込みアカウントでLoginと同じようにサインインし、
// インストールしたIdentityを返す。
func (s *Store) DemoLogin(ctx context.Context, role model.Role) (model.Identity, error) {
	identity, ok := DemoIdentity(role)
	if !ok {
		return model.Identity{}, model.NewInvalidRoleError(string(role))
	}
	if err := s.Login(ctx, identity); err != nil {
		return model.Identity{}, err
	}
	return identity, nil
}

// Logout はIdentityを破棄し、未認証状態にする。
// すでにログアウト済みでも同じ状態になる（冪等）。
// 呼び出し時点でサインインしていたかどうかを返す。
func (s *Store) Logout(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var userID string
	if s.state.User != nil {
		userID = s.state.User.ID
	}

	s.state = model.Session{}
	s.persistLocked(ctx)

	if userID == "" {
		return false
	}
	slog.Info("user logged out", slog.String("user_id", userID))
	return true
}

// Current は現在のセッションの複製を返す。
func (s *Store) Current() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// persistLocked はスナップショットを保存する。s.muを保持した状態で呼ぶこと。
// メモリ上の状態はすでに変更済みなので、クライアントの切断で保存が中断されないよう
// ctxのキャンセルは引き継がない。保存の失敗はログに記録するのみで、呼び出し側には返さない。
func (s *Store) persistLocked(ctx context.Context) {
	if s.repo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := s.repo.Save(ctx, s.state.Clone()); err != nil {
		slog.Error("failed to persist session snapshot",
			slog.String("error", err.Error()),
		)
	}
}
