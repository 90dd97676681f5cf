package guard

import (
	"testing"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
)

type mockSessionReader struct {
	session model.Session
	calls   int
}

func (m *mockSessionReader) Current() model.Session {
	m.calls++
	return m.session
}

func signedIn(role model.Role) model.Session {
	return model.Session{
		User:            &model.Identity{ID: "1", Name: "Test", Email: "test@example.com", Role: role},
		IsAuthenticated: true,
	}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		session  model.Session
		required []model.Role
		want     Decision
	}{
		{"signed out", model.Session{}, []model.Role{model.RoleAdmin}, RedirectSignIn},
		{"signed out with every role allowed", model.Session{}, model.AllRoles(), RedirectSignIn},
		{"flag without identity", model.Session{IsAuthenticated: true}, []model.Role{model.RoleAdmin}, RedirectSignIn},
		{"admin on admin route", signedIn(model.RoleAdmin), []model.Role{model.RoleAdmin}, Allow},
		{"agent on admin route", signedIn(model.RoleAgent), []model.Role{model.RoleAdmin}, RedirectAccessDenied},
		{"user on agent route", signedIn(model.RoleUser), []model.Role{model.RoleAgent}, RedirectAccessDenied},
		{"agent on shared route", signedIn(model.RoleAgent), []model.Role{model.RoleAdmin, model.RoleAgent}, Allow},
		{"empty required set", signedIn(model.RoleAdmin), nil, RedirectAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.session, tt.required); got != tt.want {
				t.Errorf("Authorize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGuard_Check_ReadsSessionEveryTime(t *testing.T) {
	reader := &mockSessionReader{session: signedIn(model.RoleAdmin)}
	g := New(reader)

	if d, _ := g.Check(model.RoleAdmin); d != Allow {
		t.Fatalf("first check = %v, want allow", d)
	}

	// ログアウトを模す
	reader.session = model.Session{}
	d, s := g.Check(model.RoleAdmin)
	if d != RedirectSignIn {
		t.Errorf("check after logout = %v, want redirect_sign_in", d)
	}
	if s.IsAuthenticated {
		t.Error("returned session should be the signed out one")
	}
	if reader.calls != 2 {
		t.Errorf("Current called %d times, want 2", reader.calls)
	}
}

func TestTarget(t *testing.T) {
	tests := []struct {
		decision Decision
		want     string
	}{
		{Allow, ""},
		{RedirectSignIn, "/login"},
		{RedirectAccessDenied, "/unauthorized"},
	}
	for _, tt := range tests {
		if got := Target(tt.decision); got != tt.want {
			t.Errorf("Target(%v) = %q, want %q", tt.decision, got, tt.want)
		}
	}
}

func TestDecision_String(t *testing.T) {
	if RedirectAccessDenied.String() != "redirect_access_denied" {
		t.Errorf("String = %q", RedirectAccessDenied.String())
	}
	if Decision(42).String() != "unknown" {
		t.Errorf("String = %q", Decision(42).String())
	}
}
