package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rizviblue/rapid-courier-pro/internal/agent"
	"github.com/Rizviblue/rapid-courier-pro/internal/model"
	"github.com/Rizviblue/rapid-courier-pro/internal/security"
)

// --- モック定義 ---

type mockMemberRecorder struct {
	operations []string
}

func (m *mockMemberRecorder) RecordMemberMutation(kind, operation string) {
	m.operations = append(m.operations, kind+":"+operation)
}

func newTestAgentHandler() (*AgentHandler, *agent.Store, *mockMemberRecorder) {
	n := 0
	store := agent.NewStore(agent.DemoAgents(), agent.StoreConfig{
		Now: func() time.Time { return time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("agent-%d", n)
		},
	})
	rec := &mockMemberRecorder{}
	return NewAgentHandler(store, security.NewTextSanitizer(), rec), store, rec
}

// --- POST /admin/agents ---

func TestAgentHandler_Create_Success(t *testing.T) {
	h, store, rec := newTestAgentHandler()

	body := `{"name": "<b>Nina</b> Patel", "email": "nina@courierpro.com", "phone": "+1 234 567 8905", "city": "Seattle"}`
	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/admin/agents", bytes.NewBufferString(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body = %s", w.Code, http.StatusCreated, w.Body.String())
	}
	var resp agentResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "agent-1" || resp.Name != "Nina Patel" || resp.Status != model.MemberStatusActive ||
		resp.TotalCouriers != 0 || resp.JoinedDate != "2024-02-01" {
		t.Errorf("response = %+v", resp)
	}
	if got := store.Stats(context.Background()).Total; got != 5 {
		t.Errorf("Total = %d, want 5", got)
	}
	if len(rec.operations) != 1 || rec.operations[0] != "agent:create" {
		t.Errorf("operations = %v", rec.operations)
	}
}

func TestAgentHandler_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email": "a@courierpro.com", "city": "Austin"}`},
		{"missing email", `{"name": "Ann", "city": "Austin"}`},
		{"invalid email", `{"name": "Ann", "email": "not-an-email", "city": "Austin"}`},
		{"missing city", `{"name": "Ann", "email": "a@courierpro.com"}`},
		{"markup only city", `{"name": "Ann", "email": "a@courierpro.com", "city": "<p></p>"}`},
		{"unknown status", `{"name": "Ann", "email": "a@courierpro.com", "city": "Austin", "status": "paused"}`},
		{"unknown field", `{"name": "Ann", "email": "a@courierpro.com", "city": "Austin", "role": "admin"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store, rec := newTestAgentHandler()

			w := httptest.NewRecorder()
			h.Create(w, httptest.NewRequest(http.MethodPost, "/admin/agents", bytes.NewBufferString(tt.body)))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			if got := parseAPIErrorResponse(t, w)["code"]; got != model.ErrCodeValidation {
				t.Errorf("code = %q, want %q", got, model.ErrCodeValidation)
			}
			if got := store.Stats(context.Background()).Total; got != 4 {
				t.Errorf("Total = %d, want 4", got)
			}
			if len(rec.operations) != 0 {
				t.Errorf("operations = %v, want none", rec.operations)
			}
		})
	}
}

// --- PATCH /admin/agents/{id} ---

func TestAgentHandler_Update(t *testing.T) {
	h, store, rec := newTestAgentHandler()

	req := withChiURLParam(httptest.NewRequest(http.MethodPatch, "/admin/agents/3", bytes.NewBufferString(`{"city": "Denver", "status": "active"}`)), "id", "3")
	w := httptest.NewRecorder()
	h.Update(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body = %s", w.Code, http.StatusOK, w.Body.String())
	}
	got, _ := store.FindByID(context.Background(), "3")
	if got.City != "Denver" || got.Status != model.MemberStatusActive || got.Name != "Emily Rodriguez" {
		t.Errorf("agent = %+v", got)
	}
	if len(rec.operations) != 1 || rec.operations[0] != "agent:update" {
		t.Errorf("operations = %v", rec.operations)
	}
}

func TestAgentHandler_Update_Errors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		body     string
		wantCode int
		wantErr  string
	}{
		{"unknown id", "missing", `{"city": "Denver"}`, http.StatusNotFound, model.ErrCodeAgentNotFound},
		{"unknown status", "1", `{"status": "paused"}`, http.StatusBadRequest, model.ErrCodeInvalidStatus},
		{"blank name", "1", `{"name": "  "}`, http.StatusBadRequest, model.ErrCodeValidation},
		{"invalid email", "1", `{"email": "sarah"}`, http.StatusBadRequest, model.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, store, rec := newTestAgentHandler()
			before, _ := store.FindByID(context.Background(), "1")

			req := withChiURLParam(httptest.NewRequest(http.MethodPatch, "/admin/agents/"+tt.id, bytes.NewBufferString(tt.body)), "id", tt.id)
			w := httptest.NewRecorder()
			h.Update(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if got := parseAPIErrorResponse(t, w)["code"]; got != tt.wantErr {
				t.Errorf("code = %q, want %q", got, tt.wantErr)
			}
			if after, _ := store.FindByID(context.Background(), "1"); after != before {
				t.Errorf("agent changed on failure: %+v", after)
			}
			if len(rec.operations) != 0 {
				t.Errorf("operations = %v, want none", rec.operations)
			}
		})
	}
}

// --- POST /admin/agents/{id}/toggle-status, DELETE /admin/agents/{id} ---

func TestAgentHandler_ToggleStatusAndDelete(t *testing.T) {
	h, store, rec := newTestAgentHandler()

	w := httptest.NewRecorder()
	h.ToggleStatus(w, withChiURLParam(httptest.NewRequest(http.MethodPost, "/admin/agents/1/toggle-status", nil), "id", "1"))
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", w.Code)
	}
	if a, _ := store.FindByID(context.Background(), "1"); a.Status != model.MemberStatusInactive {
		t.Errorf("Status = %q, want inactive", a.Status)
	}

	del := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.Delete(w, withChiURLParam(httptest.NewRequest(http.MethodDelete, "/admin/agents/1", nil), "id", "1"))
		return w
	}
	if w := del(); w.Code != http.StatusNoContent {
		t.Fatalf("first delete status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if w := del(); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want %d", w.Code, http.StatusNotFound)
	}

	w = httptest.NewRecorder()
	h.ToggleStatus(w, withChiURLParam(httptest.NewRequest(http.MethodPost, "/admin/agents/1/toggle-status", nil), "id", "1"))
	if w.Code != http.StatusNotFound {
		t.Errorf("toggle after delete status = %d, want %d", w.Code, http.StatusNotFound)
	}

	want := []string{"agent:toggle_status", "agent:delete"}
	if len(rec.operations) != len(want) || rec.operations[0] != want[0] || rec.operations[1] != want[1] {
		t.Errorf("operations = %v, want %v", rec.operations, want)
	}
}

// --- GET /admin/agents ---

func TestAgentHandler_List(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"all", "", []string{"1", "2", "3", "4"}},
		{"status all ignored", "?status=all", []string{"1", "2", "3", "4"}},
		{"search city", "?q=houston", []string{"4"}},
		{"inactive", "?status=inactive", []string{"3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newTestAgentHandler()

			w := httptest.NewRecorder()
			h.List(w, httptest.NewRequest(http.MethodGet, "/admin/agents"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}
			var resp agentListResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Count != len(tt.wantIDs) {
				t.Fatalf("count = %d, want %d", resp.Count, len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if resp.Agents[i].ID != id {
					t.Errorf("agents[%d].ID = %q, want %q", i, resp.Agents[i].ID, id)
				}
			}
			// statsは絞り込みに関係なく全件
			if resp.Stats.Total != 4 || resp.Stats.TotalCouriers != 580 {
				t.Errorf("stats = %+v", resp.Stats)
			}
		})
	}
}

func TestAgentHandler_List_BadStatus(t *testing.T) {
	h, _, _ := newTestAgentHandler()

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/admin/agents?status=paused", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := parseAPIErrorResponse(t, w)["code"]; got != model.ErrCodeInvalidStatus {
		t.Errorf("code = %q, want %q", got, model.ErrCodeInvalidStatus)
	}
}

func TestAgentHandler_Get(t *testing.T) {
	h, _, _ := newTestAgentHandler()

	w := httptest.NewRecorder()
	h.Get(w, withChiURLParam(httptest.NewRequest(http.MethodGet, "/admin/agents/2", nil), "id", "2"))
	var resp agentResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Name != "Michael Chen" || resp.JoinedDate != "2023-02-20" {
		t.Errorf("response = %+v", resp)
	}

	w = httptest.NewRecorder()
	h.Get(w, withChiURLParam(httptest.NewRequest(http.MethodGet, "/admin/agents/99", nil), "id", "99"))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
