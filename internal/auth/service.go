// Package auth はデモ用資格情報の照合と、セッションストアへのサインイン・サインアウトを提供する。
package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
	"github.com/Rizviblue/rapid-courier-pro/internal/session"
)

// demoPassword はすべてのデモアカウントに共通のパスワード。
const demoPassword = "password"

// SessionStore はサインイン状態を保持するストアのインターフェース。session.Storeが満たす。
type SessionStore interface {
	DemoLogin(ctx context.Context, role model.Role) (model.Identity, error)
	Logout(ctx context.Context) bool
	Current() model.Session
}

// LoginRecorder はサインインとサインアウトを記録する。metrics.Collectorが満たす。
type LoginRecorder interface {
	RecordLogin(role string)
	RecordLoginFailure(reason string)
	RecordLogout()
}

// Credential はメールアドレスとパスワードの組と、それに対応するロール。
type Credential struct {
	Email    string
	Password string
	Role     model.Role
}

// DemoCredentials は組み込みの3アカウントの資格情報を返す。
func DemoCredentials() []Credential {
	creds := make([]Credential, 0, len(model.AllRoles()))
	for _, role := range model.AllRoles() {
		identity, _ := session.DemoIdentity(role)
		creds = append(creds, Credential{Email: identity.Email, Password: demoPassword, Role: role})
	}
	return creds
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	sessions    SessionStore
	recorder    LoginRecorder
	credentials []Credential
}

// NewService はServiceを生成する。recorderはnilでもよい。
func NewService(sessions SessionStore, recorder LoginRecorder) *Service {
	return &Service{
		sessions:    sessions,
		recorder:    recorder,
		credentials: DemoCredentials(),
	}
}

// Login はメールアドレスとパスワードを照合し、一致したアカウントでサインインする。
// メールアドレスは前後の空白と大文字小文字を無視して比較する。
// 一致しない場合はINVALID_CREDENTIALSを返し、現在のセッションは変更しない。
func (s *Service) Login(ctx context.Context, email, password string) (model.Identity, error) {
	email = strings.TrimSpace(email)

	for _, c := range s.credentials {
		if !strings.EqualFold(c.Email, email) {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(c.Password), []byte(password)) != 1 {
			break
		}
		return s.signIn(ctx, c.Role)
	}

	slog.Info("login rejected", slog.String("email", email))
	s.recordFailure("invalid_credentials")
	return model.Identity{}, model.NewInvalidCredentialsError()
}

// DemoLogin はロールに対応する組み込みアカウントでサインインする。
// 列挙外のロールの場合はINVALID_ROLEを返し、現在のセッションは変更しない。
func (s *Service) DemoLogin(ctx context.Context, role model.Role) (model.Identity, error) {
	if !role.Valid() {
		s.recordFailure("invalid_role")
		return model.Identity{}, model.NewInvalidRoleError(string(role))
	}
	return s.signIn(ctx, role)
}

// Logout はサインアウトする。未サインインの状態で呼んでもよい。
func (s *Service) Logout(ctx context.Context) {
	if s.sessions.Logout(ctx) && s.recorder != nil {
		s.recorder.RecordLogout()
	}
}

// Current は現在のセッションを返す。
func (s *Service) Current() model.Session {
	return s.sessions.Current()
}

func (s *Service) signIn(ctx context.Context, role model.Role) (model.Identity, error) {
	identity, err := s.sessions.DemoLogin(ctx, role)
	if err != nil {
		s.recordFailure("invalid_role")
		return model.Identity{}, err
	}

	if s.recorder != nil {
		s.recorder.RecordLogin(string(role))
	}
	return identity, nil
}

func (s *Service) recordFailure(reason string) {
	if s.recorder != nil {
		s.recorder.RecordLoginFailure(reason)
	}
}
