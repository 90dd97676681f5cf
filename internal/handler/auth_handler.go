// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Rizviblue/rapid-courier-pro/internal/auth"
	"github.com/Rizviblue/rapid-courier-pro/internal/guard"
	"github.com/Rizviblue/rapid-courier-pro/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (model.Identity, error)
	DemoLogin(ctx context.Context, role model.Role) (model.Identity, error)
	Logout(ctx context.Context)
	Current() model.Session
}

// AuthHandler はサインイン関連のHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	validate *validator.Validate
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service, validate: newValidator()}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User     model.Identity `json:"user"`
	Redirect string         `json:"redirect"`
}

type demoAccountResponse struct {
	Role     model.Role `json:"role"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
}

type loginPageResponse struct {
	IsAuthenticated bool                  `json:"isAuthenticated"`
	Redirect        string                `json:"redirect,omitempty"`
	DemoAccounts    []demoAccountResponse `json:"demoAccounts"`
}

// DashboardPath はロールごとのダッシュボードのパスを返す。
func DashboardPath(role model.Role) string {
	return "/" + string(role) + "/dashboard"
}

// LoginPage はサインイン画面の情報を返す。サインイン済みなら遷移先も返す。
// GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	resp := loginPageResponse{}
	if cur := h.service.Current(); cur.IsAuthenticated && cur.User != nil {
		resp.IsAuthenticated = true
		resp.Redirect = DashboardPath(cur.User.Role)
	}
	for _, c := range auth.DemoCredentials() {
		resp.DemoAccounts = append(resp.DemoAccounts, demoAccountResponse{Role: c.Role, Email: c.Email, Password: c.Password})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Unauthorized はアクセス拒否画面。ロール不一致でリダイレクトされた先。
// GET /unauthorized
func (h *AuthHandler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	writeAPIErrorResponse(w, http.StatusForbidden, model.NewAccessDeniedError())
}

// Login はメールアドレスとパスワードでサインインする。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(validationReason(err)))
		return
	}

	identity, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{User: identity, Redirect: DashboardPath(identity.Role)})
}

// DemoLogin はロールを指定して組み込みアカウントでサインインする。
// POST /auth/demo/{role}
func (h *AuthHandler) DemoLogin(w http.ResponseWriter, r *http.Request) {
	role := model.Role(chi.URLParam(r, "role"))

	identity, err := h.service.DemoLogin(r.Context(), role)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{User: identity, Redirect: DashboardPath(identity.Role)})
}

// Logout はサインアウトする。未サインインでも成功する。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context())
	slog.DebugContext(r.Context(), "logout handled")

	writeJSON(w, http.StatusOK, map[string]any{
		"isAuthenticated": false,
		"redirect":        guard.SignInPath,
	})
}

// Me は現在のセッションを返す。未サインインの場合は401。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cur := h.service.Current()
	if !cur.IsAuthenticated || cur.User == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}
	writeJSON(w, http.StatusOK, cur)
}
