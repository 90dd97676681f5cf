// Package customer は顧客名簿を保持するストアを提供する。
package customer

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
type StoreConfig struct {
	Now   func() time.Time
	NewID func() string
}

// Filter は一覧取得時の絞り込み条件。
type Filter struct {
	// Query は氏名とメールアドレスに対する大文字小文字を区別しない部分一致、または電話番号の部分一致。
	Query  string
	Status model.MemberStatus
}

// Store は顧客を登録順に保持する。入力検証は呼び出し側の責務。
type Store struct {
	mu        sync.RWMutex
	customers []model.Customer
	config    StoreConfig
}

// NewStore はseedを初期データとしてStoreを生成する。seedは複製して保持する。
func NewStore(seed []model.Customer, config StoreConfig) *Store {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.NewID == nil {
		config.NewID = uuid.NewString
	}

	customers := make([]model.Customer, len(seed))
	for i, c := range seed {
		customers[i] = cloneCustomer(c)
	}
	return &Store{customers: customers, config: config}
}

// Create は顧客を採番して末尾に追加する。新規顧客は有効で、注文履歴を持たない。
func (s *Store) Create(ctx context.Context, in model.NewCustomer) model.Customer {
	now := s.config.Now().UTC()
	c := model.Customer{
		ID:             s.config.NewID(),
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		Status:         model.MemberStatusActive,
		RegisteredDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}

	s.mu.Lock()
	s.customers = append(s.customers, c)
	s.mu.Unlock()

	slog.InfoContext(ctx, "customer created", slog.String("customer_id", c.ID))
	return c
}

// Update はIDが一致する顧客にパッチを適用し、適用後の値を返す。
func (s *Store) Update(ctx context.Context, id string, patch model.CustomerPatch) (model.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers[i] = cloneCustomer(patch.Apply(s.customers[i]))
			return cloneCustomer(s.customers[i]), true
		}
	}
	return model.Customer{}, false
}

// ToggleStatus は有効と無効を切り替え、切り替え後の値を返す。
func (s *Store) ToggleStatus(ctx context.Context, id string) (model.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers[i].Status = s.customers[i].Status.Toggled()
			return cloneCustomer(s.customers[i]), true
		}
	}
	return model.Customer{}, false
}

// Delete はIDが一致する顧客を削除する。一致しない場合はfalse。
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			slog.InfoContext(ctx, "customer deleted", slog.String("customer_id", id))
			return true
		}
	}
	return false
}

// FindByID はIDが一致する顧客を返す。
func (s *Store) FindByID(ctx context.Context, id string) (model.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.customers {
		if c.ID == id {
			return cloneCustomer(c), true
		}
	}
	return model.Customer{}, false
}

// List は条件に一致する顧客を登録順で返す。
func (s *Store) List(ctx context.Context, f Filter) []model.Customer {
	raw := strings.TrimSpace(f.Query)
	q := strings.ToLower(raw)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.Email), q) &&
			!strings.Contains(c.Phone, raw) {
			continue
		}
		out = append(out, cloneCustomer(c))
	}
	return out
}

// Stats は全顧客を集計する。
func (s *Store) Stats(ctx context.Context) model.CustomerStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StatsOf(s.customers)
}

// StatsOf は顧客の部分集合を集計する。
func StatsOf(customers []model.Customer) model.CustomerStats {
	st := model.CustomerStats{Total: len(customers)}
	for _, c := range customers {
		switch c.Status {
		case model.MemberStatusActive:
			st.Active++
		case model.MemberStatusInactive:
			st.Inactive++
		}
		st.TotalOrders += c.TotalOrders
		st.TotalRevenue += c.TotalSpent
	}
	return st
}

// cloneCustomer はLastOrderのポインタを共有しない複製を返す。
func cloneCustomer(c model.Customer) model.Customer {
	if c.LastOrder != nil {
		d := *c.LastOrder
		c.LastOrder = &d
	}
	return c
}
