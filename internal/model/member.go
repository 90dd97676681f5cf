package model

import "time"

// MemberStatus はエージェントと顧客の有効・無効を表す。
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
)

// Valid はステータスが定義済みの列挙値かどうかを返す。
func (s MemberStatus) Valid() bool {
	return s == MemberStatusActive || s == MemberStatusInactive
}

// Toggled は有効と無効を反転したステータスを返す。
func (s MemberStatus) Toggled() MemberStatus {
	if s == MemberStatusActive {
		return MemberStatusInactive
	}
	return MemberStatusActive
}

// Agent は配送を担当するエージェント。
type Agent struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	City          string
	Status        MemberStatus
	TotalCouriers int // 担当した配送件数（表示用の集計値）
	JoinedDate    time.Time
}

// NewAgent はエージェント登録時に呼び出し側が指定する項目。
type NewAgent struct {
	Name   string
	Email  string
	Phone  string
	City   string
	Status MemberStatus
}

// AgentPatch はエージェントの部分更新内容。nilのフィールドは変更しない。
type AgentPatch struct {
	Name   *string
	Email  *string
	Phone  *string
	City   *string
	Status *MemberStatus
}

// Apply はパッチをエージェントに適用した結果を返す。
func (p AgentPatch) Apply(a Agent) Agent {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	return a
}

// AgentStats はエージェント一覧の集計値。
type AgentStats struct {
	Total         int `json:"total"`
	Active        int `json:"active"`
	Inactive      int `json:"inactive"`
	TotalCouriers int `json:"totalCouriers"`
}

// Customer は配送を依頼する顧客。
type Customer struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	TotalOrders    int
	TotalSpent     float64
	Status         MemberStatus
	RegisteredDate time.Time
	LastOrder      *time.Time // nilは注文履歴なし
}

// NewCustomer は顧客登録時に呼び出し側が指定する項目。
// 新規顧客は常に有効な状態で登録される。
type NewCustomer struct {
	Name  string
	Email string
	Phone string
}

// CustomerPatch は顧客の部分更新内容。nilのフィールドは変更しない。
type CustomerPatch struct {
	Name   *string
	Email  *string
	Phone  *string
	Status *MemberStatus
}

// Apply はパッチを顧客に適用した結果を返す。
func (p CustomerPatch) Apply(c Customer) Customer {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	return c
}

// CustomerStats は顧客一覧の集計値。
type CustomerStats struct {
	Total        int     `json:"total"`
	Active       int     `json:"active"`
	Inactive     int     `json:"inactive"`
	TotalOrders  int     `json:"totalOrders"`
	TotalRevenue float64 `json:"totalRevenue"`
}
