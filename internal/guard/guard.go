// Package guard はセッションとルートの許可ロールからアクセス可否を判定する。
package guard

import (
	"slices"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
)

// Decision はアクセス判定の結果。
type Decision int

const (
	// Allow はルートの表示を許可する。
	Allow Decision = iota
	// RedirectSignIn は未認証のためサインイン画面へ誘導する。
	RedirectSignIn
	// RedirectAccessDenied は認証済みだがロールが許可されていないためアクセス拒否画面へ誘導する。
	RedirectAccessDenied
)

// リダイレクト先のパス。
const (
	SignInPath       = "/login"
	AccessDeniedPath = "/unauthorized"
)

// String はメトリクスやログのラベルとして使う名前を返す。
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectSignIn:
		return "redirect_sign_in"
	case RedirectAccessDenied:
		return "redirect_access_denied"
	default:
		return "unknown"
	}
}

// Authorize は副作用を持たない判定関数。
// requiredが空の場合は誰も許可しない。
func Authorize(session model.Session, required []model.Role) Decision {
	if !session.IsAuthenticated || session.User == nil {
		return RedirectSignIn
	}
	if !slices.Contains(required, session.User.Role) {
		return RedirectAccessDenied
	}
	return Allow
}

// SessionReader は現在のセッションを返す。session.Storeが満たす。
type SessionReader interface {
	Current() model.Session
}

// Guard は判定のたびにセッションストアを読み直す。
// 判定結果をキャッシュしないため、ログアウト直後の判定にも最新の状態が反映される。
type Guard struct {
	reader SessionReader
}

// New はGuardを生成する。
func New(reader SessionReader) *Guard {
	return &Guard{reader: reader}
}

// Check は現在のセッションに対してrolesでの判定を行い、判定に使ったセッションも返す。
func (g *Guard) Check(roles ...model.Role) (Decision, model.Session) {
	current := g.reader.Current()
	return Authorize(current, roles), current
}

// Target は判定結果に対応するリダイレクト先を返す。Allowの場合は空文字列。
func Target(d Decision) string {
	switch d {
	case RedirectSignIn:
		return SignInPath
	case RedirectAccessDenied:
		return AccessDeniedPath
	default:
		return ""
	}
}
