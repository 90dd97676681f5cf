// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Rizviblue/rapid-courier-pro/internal/guard"
	"github.com/Rizviblue/rapid-courier-pro/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var (
	identityContextKey    = contextKey("identity")
	requestInfoContextKey = contextKey("request_info")
)

// AccessChecker はルートの許可ロールに対するアクセス判定を行う。guard.Guardが満たす。
type AccessChecker interface {
	Check(roles ...model.Role) (guard.Decision, model.Session)
}

// DecisionRecorder はアクセス判定の結果を記録する。metrics.Collectorが満たす。
type DecisionRecorder interface {
	RecordGuardDecision(decision string)
}

// NewAccessMiddleware はリクエストごとにセッションストアを読み直してアクセス判定を行うミドルウェアを返す。
// 未認証は/loginへ、ロール不一致は/unauthorizedへ303でリダイレクトする。
// 許可された場合は判定に使ったIdentityをリクエストコンテキストに注入する。
// recorderはnilでもよい。
func NewAccessMiddleware(checker AccessChecker, recorder DecisionRecorder, roles ...model.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, session := checker.Check(roles...)
			if recorder != nil {
				recorder.RecordGuardDecision(decision.String())
			}

			if decision != guard.Allow {
				slog.DebugContext(r.Context(), "access redirected",
					slog.String("path", r.URL.Path),
					slog.String("decision", decision.String()),
				)
				http.Redirect(w, r, guard.Target(decision), http.StatusSeeOther)
				return
			}

			identity := *session.User
			if info := requestInfoFromContext(r.Context()); info != nil {
				info.identity = &identity
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// IdentityFromContext はリクエストコンテキストからサインイン中のIdentityを取得する。
// アクセスミドルウェアを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	if !ok || identity.ID == "" {
		return model.Identity{}, false
	}
	return identity, true
}

// ContextWithIdentity はコンテキストにIdentityを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// requestInfo は外側のミドルウェアが内側で判明した情報を参照するための入れ物。
// ロギングミドルウェアが生成し、アクセスミドルウェアが書き込む。
type requestInfo struct {
	identity *model.Identity
}

func withRequestInfo(ctx context.Context) (context.Context, *requestInfo) {
	info := &requestInfo{}
	return context.WithValue(ctx, requestInfoContextKey, info), info
}

func requestInfoFromContext(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoContextKey).(*requestInfo)
	return info
}
