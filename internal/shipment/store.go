// Package shipment は配送レコードの集合を保持する唯一のストアを提供する。
package shipment

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
	Now             func() time.Time
	NewID           func() string
	NewTrackingCode func() string
}

// Filter は一覧取得時の絞り込み条件。ゼロ値は全件を意味する。
type Filter struct {
	// Query は追跡番号、差出人、受取人、集荷都市、配送都市に対する大文字小文字を区別しない部分一致。
	Query     string
	Status    model.ShipmentStatus
	CreatedBy string
	Limit     int
}

// Store は配送レコードをメモリ上に新しい順で保持する。
// 入力検証は行わない（呼び出し側の責務）。
type Store struct {
	mu      sync.RWMutex
	records []model.ShipmentRecord
	config  StoreConfig
}

// NewStore はseedを初期データとしてStoreを生成する。seedは複製して保持する。
func NewStore(seed []model.ShipmentRecord, config StoreConfig) *Store {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.NewID == nil {
		config.NewID = uuid.NewString
	}
	if config.NewTrackingCode == nil {
		config.NewTrackingCode = NewTrackingCode
	}

	records := make([]model.ShipmentRecord, len(seed))
	for i, r := range seed {
		records[i] = cloneRecord(r)
	}

	return &Store{records: records, config: config}
}

// Create は新しいレコードを採番して先頭に追加し、保存したレコードを返す。
func (s *Store) Create(ctx context.Context, in model.NewShipment) model.ShipmentRecord {
	rec := model.ShipmentRecord{
		ID:           s.config.NewID(),
		TrackingCode: s.config.NewTrackingCode(),
		SenderName:   in.SenderName,
		ReceiverName: in.ReceiverName,
		PickupCity:   in.PickupCity,
		DeliveryCity: in.DeliveryCity,
		CourierType:  in.CourierType,
		Weight:       in.Weight,
		DeliveryDate: in.DeliveryDate,
		Status:       in.Status,
		CreatedBy:    in.CreatedBy,
		CreatedAt:    s.config.Now().UTC(),
	}
	rec = cloneRecord(rec)

	s.mu.Lock()
	s.records = append([]model.ShipmentRecord{rec}, s.records...)
	s.mu.Unlock()

	slog.InfoContext(ctx, "shipment created",
		slog.String("shipment_id", rec.ID),
		slog.String("tracking_code", rec.TrackingCode),
		slog.String("created_by", rec.CreatedBy),
	)

	return cloneRecord(rec)
}

// Update はIDが一致するレコードにパッチを適用する。
// 一致するレコードがない場合は何もせずfalseを返す。
// ステータス遷移の妥当性は検証しない。
func (s *Store) Update(ctx context.Context, id string, patch model.ShipmentPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i] = cloneRecord(patch.Apply(s.records[i]))
			return true
		}
	}
	return false
}

// Delete はIDが一致するレコードを削除する。一致するレコードがない場合はfalseを返す。
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			slog.InfoContext(ctx, "shipment deleted", slog.String("shipment_id", id))
			return true
		}
	}
	return false
}

// Stats は現在のレコード集合を全件走査して集計する。結果はキャッシュしない。
func (s *Store) Stats(ctx context.Context) model.DerivedStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return computeStats(s.records)
}

// FindByID はIDが一致するレコードを返す。
func (s *Store) FindByID(ctx context.Context, id string) (model.ShipmentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == id {
			return cloneRecord(r), true
		}
	}
	return model.ShipmentRecord{}, false
}

// FindByTrackingCode は追跡番号が一致するレコードを返す。大文字小文字と前後の空白は無視する。
func (s *Store) FindByTrackingCode(ctx context.Context, code string) (model.ShipmentRecord, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.ShipmentRecord{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if strings.EqualFold(r.TrackingCode, code) {
			return cloneRecord(r), true
		}
	}
	return model.ShipmentRecord{}, false
}

// List は条件に一致するレコードを新しい順で返す。
func (s *Store) List(ctx context.Context, f Filter) []model.ShipmentRecord {
	q := strings.ToLower(strings.TrimSpace(f.Query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ShipmentRecord, 0, len(s.records))
	for _, r := range s.records {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.CreatedBy != "" && r.CreatedBy != f.CreatedBy {
			continue
		}
		if q != "" && !matchesQuery(r, q) {
			continue
		}
		out = append(out, cloneRecord(r))
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// StatsOf はレコードの部分集合を集計する。検索結果ごとの件数表示に使う。
func StatsOf(records []model.ShipmentRecord) model.DerivedStats {
	return computeStats(records)
}

func computeStats(records []model.ShipmentRecord) model.DerivedStats {
	st := model.DerivedStats{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case model.ShipmentStatusPending:
			st.Pending++
		case model.ShipmentStatusInTransit:
			st.InTransit++
		case model.ShipmentStatusDelivered:
			st.Delivered++
		case model.ShipmentStatusCancelled:
			st.Cancelled++
		}
	}
	return st
}

// matchesQuery はqが小文字化済みである前提で部分一致を判定する。
func matchesQuery(r model.ShipmentRecord, q string) bool {
	for _, field := range []string{r.TrackingCode, r.SenderName, r.ReceiverName, r.PickupCity, r.DeliveryCity} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// cloneRecord はDeliveryDateのポインタを共有しない複製を返す。
func cloneRecord(r model.ShipmentRecord) model.ShipmentRecord {
	if r.DeliveryDate != nil {
		d := *r.DeliveryDate
		r.DeliveryDate = &d
	}
	return r
}
