// Package model はドメインモデルを定義する。
package model

// Role はログイン中のアクターの役割を表す。
// ルーティングのグループ（/admin, /agent, /user）がこの値をキーにしているため、
// 値は3種類から増減させないこと。
type Role string

const (
	// RoleAdmin は管理者。
	RoleAdmin Role = "admin"
	// RoleAgent は配送エージェント。
	RoleAgent Role = "agent"
	// RoleUser はエンドユーザー（荷物の追跡のみ）。
	RoleUser Role = "user"
)

// AllRoles は定義済みの全ロールを返す。
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleAgent, RoleUser}
}

// Valid はロールが定義済みの列挙値かどうかを返す。
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleUser:
		return true
	default:
		return false
	}
}

// Identity はサインイン中のアクターのプロフィールを表す。
// PhoneとCityは任意項目で、未設定の場合は空文字列。
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Phone string `json:"phone,omitempty"`
	City  string `json:"city,omitempty"`
}

// Session は現在の認証状態を表す。
// IsAuthenticated は User が非nilのときに限りtrueになる。
type Session struct {
	User            *Identity `json:"user"`
	IsAuthenticated bool      `json:"isAuthenticated"`
}

// Consistent はセッションの不変条件（認証フラグとIdentityの有無が一致し、
// ロールが列挙値に含まれること）を満たしているかを返す。
func (s Session) Consistent() bool {
	if s.User == nil {
		return !s.IsAuthenticated
	}
	return s.IsAuthenticated && s.User.Role.Valid()
}

// Clone はIdentityを複製したセッションを返す。
// ストア外部に渡す値が内部状態と共有されないようにするために使う。
func (s Session) Clone() Session {
	if s.User == nil {
		return Session{}
	}
	u := *s.User
	return Session{User: &u, IsAuthenticated: s.IsAuthenticated}
}
