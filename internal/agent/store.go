// Package agent は配送エージェントの名簿を保持するストアを提供する。
package agent

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
	"github.com/google/uuid"
)

// StoreConfig はストアの採番と時刻の取得方法を差し替えるための設定。
// ゼロ値のフィールドにはデフォルト実装が使われる。
type StoreConfig struct {
	Now   func() time.Time
	NewID func() string
}

// Filter は一覧取得時の絞り込み条件。ゼロ値は全件を意味する。
type Filter struct {
	// Query は氏名、メールアドレス、担当都市に対する大文字小文字を区別しない部分一致。
	Query  string
	Status model.MemberStatus
}

// Store はエージェントを登録順に保持する。入力検証は呼び出し側の責務。
type Store struct {
	mu     sync.RWMutex
	agents []model.Agent
	config StoreConfig
}

// NewStore はseedを初期データとしてStoreを生成する。
func NewStore(seed []model.Agent, config StoreConfig) *Store {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.NewID == nil {
		config.NewID = uuid.NewString
	}
	return &Store{agents: append([]model.Agent(nil), seed...), config: config}
}

// Create はエージェントを採番して末尾に追加する。
// ステータス未指定の場合は有効として登録し、担当件数は0から始める。
func (s *Store) Create(ctx context.Context, in model.NewAgent) model.Agent {
	status := in.Status
	if status == "" {
		status = model.MemberStatusActive
	}
	a := model.Agent{
		ID:         s.config.NewID(),
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		City:       in.City,
		Status:     status,
		JoinedDate: truncateDay(s.config.Now()),
	}

	s.mu.Lock()
	s.agents = append(s.agents, a)
	s.mu.Unlock()

	slog.InfoContext(ctx, "agent created", slog.String("agent_id", a.ID))
	return a
}

// Update はIDが一致するエージェントにパッチを適用し、適用後の値を返す。
func (s *Store) Update(ctx context.Context, id string, patch model.AgentPatch) (model.Agent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.agents {
		if s.agents[i].ID == id {
			s.agents[i] = patch.Apply(s.agents[i])
			return s.agents[i], true
		}
	}
	return model.Agent{}, false
}

// ToggleStatus は有効と無効を切り替え、切り替え後の値を返す。
func (s *Store) ToggleStatus(ctx context.Context, id string) (model.Agent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.agents {
		if s.agents[i].ID == id {
			s.agents[i].Status = s.agents[i].Status.Toggled()
			return s.agents[i], true
		}
	}
	return model.Agent{}, false
}

// Delete はIDが一致するエージェントを削除する。一致しない場合はfalse。
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.agents {
		if s.agents[i].ID == id {
			s.agents = append(s.agents[:i], s.agents[i+1:]...)
			slog.InfoContext(ctx, "agent deleted", slog.String("agent_id", id))
			return true
		}
	}
	return false
}

// FindByID はIDが一致するエージェントを返す。
func (s *Store) FindByID(ctx context.Context, id string) (model.Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.agents {
		if a.ID == id {
			return a, true
		}
	}
	return model.Agent{}, false
}

// List は条件に一致するエージェントを登録順で返す。
func (s *Store) List(ctx context.Context, f Filter) []model.Agent {
	q := strings.ToLower(strings.TrimSpace(f.Query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Agent, 0, len(s.agents))
	for _, a := range s.agents {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if q != "" && !containsFold(q, a.Name, a.Email, a.City) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Stats は全エージェントを集計する。
func (s *Store) Stats(ctx context.Context) model.AgentStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StatsOf(s.agents)
}

// StatsOf はエージェントの部分集合を集計する。
func StatsOf(agents []model.Agent) model.AgentStats {
	st := model.AgentStats{Total: len(agents)}
	for _, a := range agents {
		switch a.Status {
		case model.MemberStatusActive:
			st.Active++
		case model.MemberStatusInactive:
			st.Inactive++
		}
		st.TotalCouriers += a.TotalCouriers
	}
	return st
}

// containsFold はqが小文字化済みである前提で部分一致を判定する。
func containsFold(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
