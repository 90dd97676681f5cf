package model

import "time"

// ShipmentStatus は配送レコードの状態を表す。
// 状態間の遷移に制約はなく、どの状態からどの状態へも更新できる。
type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "pending"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusCancelled ShipmentStatus = "cancelled"
)

// Valid はステータスが定義済みの列挙値かどうかを返す。
func (s ShipmentStatus) Valid() bool {
	switch s {
	case ShipmentStatusPending, ShipmentStatusInTransit, ShipmentStatusDelivered, ShipmentStatusCancelled:
		return true
	default:
		return false
	}
}

// ShipmentRecord は1件の配送（クーリエ）レコードを表す。
type ShipmentRecord struct {
	ID           string
	TrackingCode string // 利用者に公開される追跡番号（例: CMS123456）
	SenderName   string
	ReceiverName string
	PickupCity   string
	DeliveryCity string
	CourierType  string // Express, Standard 等の自由入力カテゴリ
	Weight       float64
	DeliveryDate *time.Time // nilは未定（TBD）
	Status       ShipmentStatus
	CreatedBy    string // 作成者IdentityのID（弱参照）
	CreatedAt    time.Time
}

// NewShipment はレコード作成時に呼び出し側が指定する項目。
// ID、追跡番号、作成日時はストア側で採番する。
type NewShipment struct {
	SenderName   string
	ReceiverName string
	PickupCity   string
	DeliveryCity string
	CourierType  string
	Weight       float64
	DeliveryDate *time.Time
	Status       ShipmentStatus
	CreatedBy    string
}

// ShipmentPatch はレコードの部分更新内容を表す。
// nilのフィールドは変更せず、既存の値を維持する。
type ShipmentPatch struct {
	SenderName   *string
	ReceiverName *string
	PickupCity   *string
	DeliveryCity *string
	CourierType  *string
	Weight       *float64
	DeliveryDate *time.Time
	ClearDate    bool // trueの場合は配送予定日を未定に戻す
	Status       *ShipmentStatus
}

// Apply はパッチをレコードに適用した結果を返す。
func (p ShipmentPatch) Apply(rec ShipmentRecord) ShipmentRecord {
	if p.SenderName != nil {
		rec.SenderName = *p.SenderName
	}
	if p.ReceiverName != nil {
		rec.ReceiverName = *p.ReceiverName
	}
	if p.PickupCity != nil {
		rec.PickupCity = *p.PickupCity
	}
	if p.DeliveryCity != nil {
		rec.DeliveryCity = *p.DeliveryCity
	}
	if p.CourierType != nil {
		rec.CourierType = *p.CourierType
	}
	if p.Weight != nil {
		rec.Weight = *p.Weight
	}
	if p.ClearDate {
		rec.DeliveryDate = nil
	} else if p.DeliveryDate != nil {
		d := *p.DeliveryDate
		rec.DeliveryDate = &d
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
	return rec
}

// DerivedStats はレコード集合に対する集計値。保存はせず、問い合わせのたびに再計算する。
type DerivedStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	InTransit int `json:"inTransit"`
	Delivered int `json:"delivered"`
	Cancelled int `json:"cancelled"`
}
