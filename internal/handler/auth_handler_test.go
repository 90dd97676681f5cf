package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
)

// --- モック定義 ---

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	loginFn     func(ctx context.Context, email, password string) (model.Identity, error)
	demoLoginFn func(ctx context.Context, role model.Role) (model.Identity, error)
	logoutFn    func(ctx context.Context)
	current     model.Session
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (model.Identity, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return model.Identity{}, nil
}

func (m *mockAuthService) DemoLogin(ctx context.Context, role model.Role) (model.Identity, error) {
	if m.demoLoginFn != nil {
		return m.demoLoginFn(ctx, role)
	}
	return model.Identity{}, nil
}

func (m *mockAuthService) Logout(ctx context.Context) {
	if m.logoutFn != nil {
		m.logoutFn(ctx)
	}
}

func (m *mockAuthService) Current() model.Session {
	return m.current
}

var testAgent = model.Identity{ID: "2", Name: "Sarah Johnson", Email: "agent@courierpro.com", Role: model.RoleAgent}

// --- テスト ---

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (model.Identity, error) {
			if email != "agent@courierpro.com" || password != "password" {
				t.Errorf("Login(%q, %q), want agent credentials", email, password)
			}
			return testAgent, nil
		},
	}
	h := NewAuthHandler(svc)

	body := `{"email": "agent@courierpro.com", "password": "password"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp loginResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.User.ID != "2" || resp.Redirect != "/agent/dashboard" {
		t.Errorf("response = %+v, want agent with /agent/dashboard", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (model.Identity, error) {
			return model.Identity{}, model.NewInvalidCredentialsError()
		},
	}
	h := NewAuthHandler(svc)

	body := `{"email": "agent@courierpro.com", "password": "wrong"}`
	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body)))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if got := parseAPIErrorResponse(t, w)["code"]; got != model.ErrCodeInvalidCredentials {
		t.Errorf("code = %q, want %q", got, model.ErrCodeInvalidCredentials)
	}
}

func TestAuthHandler_Login_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", `{"email":`},
		{"missing password", `{"email": "admin@courierpro.com"}`},
		{"unknown field", `{"email": "a", "password": "b", "role": "admin"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &mockAuthService{
				loginFn: func(ctx context.Context, email, password string) (model.Identity, error) {
					called = true
					return model.Identity{}, nil
				},
			}
			h := NewAuthHandler(svc)

			w := httptest.NewRecorder()
			h.Login(w, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tt.body)))

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			if got := parseAPIErrorResponse(t, w)["code"]; got != model.ErrCodeValidation {
				t.Errorf("code = %q, want %q", got, model.ErrCodeValidation)
			}
			if called {
				t.Error("service must not be called for invalid input")
			}
		})
	}
}

func TestAuthHandler_DemoLogin(t *testing.T) {
	svc := &mockAuthService{
		demoLoginFn: func(ctx context.Context, role model.Role) (model.Identity, error) {
			if role != model.RoleAgent {
				t.Errorf("role = %q, want agent", role)
			}
			return testAgent, nil
		},
	}
	h := NewAuthHandler(svc)

	req := withChiURLParam(httptest.NewRequest(http.MethodPost, "/auth/demo/agent", nil), "role", "agent")
	w := httptest.NewRecorder()
	h.DemoLogin(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp loginResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Redirect != "/agent/dashboard" {
		t.Errorf("redirect = %q, want /agent/dashboard", resp.Redirect)
	}
}

func TestAuthHandler_DemoLogin_InvalidRole(t *testing.T) {
	svc := &mockAuthService{
		demoLoginFn: func(ctx context.Context, role model.Role) (model.Identity, error) {
			return model.Identity{}, model.NewInvalidRoleError(string(role))
		},
	}
	h := NewAuthHandler(svc)

	req := withChiURLParam(httptest.NewRequest(http.MethodPost, "/auth/demo/root", nil), "role", "root")
	w := httptest.NewRecorder()
	h.DemoLogin(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := parseAPIErrorResponse(t, w)["code"]; got != model.ErrCodeInvalidRole {
		t.Errorf("code = %q, want %q", got, model.ErrCodeInvalidRole)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	called := false
	h := NewAuthHandler(&mockAuthService{logoutFn: func(ctx context.Context) { called = true }})

	w := httptest.NewRecorder()
	h.Logout(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !called {
		t.Error("Logout was not called")
	}
	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["isAuthenticated"] != false || resp["redirect"] != "/login" {
		t.Errorf("response = %v", resp)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("signed in", func(t *testing.T) {
		agent := testAgent
		h := NewAuthHandler(&mockAuthService{current: model.Session{User: &agent, IsAuthenticated: true}})

		w := httptest.NewRecorder()
		h.Me(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		var got model.Session
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !got.IsAuthenticated || got.User == nil || got.User.ID != "2" {
			t.Errorf("session = %+v, want agent", got)
		}
	})

	t.Run("signed out", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthService{})

		w := httptest.NewRecorder()
		h.Me(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
		if got := parseAPIErrorResponse(t, w)["code"]; got != model.ErrCodeUnauthenticated {
			t.Errorf("code = %q, want %q", got, model.ErrCodeUnauthenticated)
		}
	})
}

func TestAuthHandler_LoginPage(t *testing.T) {
	t.Run("signed out lists demo accounts", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthService{})

		w := httptest.NewRecorder()
		h.LoginPage(w, httptest.NewRequest(http.MethodGet, "/login", nil))

		var resp loginPageResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.IsAuthenticated || resp.Redirect != "" {
			t.Errorf("response = %+v, want signed out without redirect", resp)
		}
		if len(resp.DemoAccounts) != 3 {
			t.Fatalf("demo accounts = %d, want 3", len(resp.DemoAccounts))
		}
		for _, a := range resp.DemoAccounts {
			if a.Email != string(a.Role)+"@courierpro.com" || a.Password != "password" {
				t.Errorf("unexpected demo account %+v", a)
			}
		}
	})

	t.Run("signed in returns dashboard", func(t *testing.T) {
		agent := testAgent
		h := NewAuthHandler(&mockAuthService{current: model.Session{User: &agent, IsAuthenticated: true}})

		w := httptest.NewRecorder()
		h.LoginPage(w, httptest.NewRequest(http.MethodGet, "/login", nil))

		var resp loginPageResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Redirect != "/agent/dashboard" {
			t.Errorf("redirect = %q, want /agent/dashboard", resp.Redirect)
		}
	})
}

func TestAuthHandler_Unauthorized(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	h.Unauthorized(w, httptest.NewRequest(http.MethodGet, "/unauthorized", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if got := parseAPIErrorResponse(t, w)["code"]; got != model.ErrCodeAccessDenied {
		t.Errorf("code = %q, want %q", got, model.ErrCodeAccessDenied)
	}
}
