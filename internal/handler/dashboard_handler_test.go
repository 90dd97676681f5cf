package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
)

func TestDashboardHandler_RecentCounts(t *testing.T) {
	admin := model.Identity{ID: "1", Name: "John Smith", Role: model.RoleAdmin}
	user := model.Identity{ID: "3", Name: "Mike Davis", Role: model.RoleUser}

	tests := []struct {
		name       string
		identity   model.Identity
		serve      func(h *DashboardHandler) http.HandlerFunc
		wantRecent int
		wantStats  bool
	}{
		{"admin", admin, func(h *DashboardHandler) http.HandlerFunc { return h.Admin }, 4, true},
		{"agent", testAgent, func(h *DashboardHandler) http.HandlerFunc { return h.Agent }, 4, true},
		{"user", user, func(h *DashboardHandler) http.HandlerFunc { return h.User }, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDashboardHandler(newTestShipmentStore())

			req := withIdentity(httptest.NewRequest(http.MethodGet, "/dashboard", nil), tt.identity)
			w := httptest.NewRecorder()
			tt.serve(h)(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}
			var resp dashboardResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(resp.Recent) != tt.wantRecent {
				t.Errorf("recent = %d, want %d", len(resp.Recent), tt.wantRecent)
			}
			if (resp.Stats != nil) != tt.wantStats {
				t.Errorf("stats present = %v, want %v", resp.Stats != nil, tt.wantStats)
			}
			if resp.User.ID != tt.identity.ID {
				t.Errorf("user = %+v, want %+v", resp.User, tt.identity)
			}
		})
	}
}

func TestDashboardHandler_Admin_ShowsFiveNewest(t *testing.T) {
	store := newTestShipmentStore()
	h := NewDashboardHandler(store)

	// 6件にしてから最新5件に絞られることを確認する
	for i := 0; i < 2; i++ {
		store.Create(t.Context(), model.NewShipment{
			SenderName: "A", ReceiverName: "B", PickupCity: "C", DeliveryCity: "D",
			Status: model.ShipmentStatusPending, CreatedBy: "1",
		})
	}

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil), model.Identity{ID: "1", Role: model.RoleAdmin})
	w := httptest.NewRecorder()
	h.Admin(w, req)

	var resp dashboardResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Recent) != 5 {
		t.Fatalf("recent = %d, want 5", len(resp.Recent))
	}
	if resp.Recent[0].ID != "new-2" || resp.Recent[4].ID != "3" {
		t.Errorf("recent order = %s..%s, want new-2..3", resp.Recent[0].ID, resp.Recent[4].ID)
	}
	if resp.Stats.Total != 6 || resp.Stats.Pending != 3 {
		t.Errorf("stats = %+v, want total 6, pending 3", *resp.Stats)
	}
}

func TestDashboardHandler_WithoutIdentity(t *testing.T) {
	h := NewDashboardHandler(newTestShipmentStore())

	w := httptest.NewRecorder()
	h.Agent(w, httptest.NewRequest(http.MethodGet, "/agent/dashboard", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestDashboardHandler_Packages(t *testing.T) {
	h := NewDashboardHandler(newTestShipmentStore())

	tests := []struct {
		query     string
		wantCount int
		wantStats model.DerivedStats
	}{
		{"", 4, model.DerivedStats{Total: 4, Pending: 1, InTransit: 1, Delivered: 1, Cancelled: 1}},
		{"?q=john", 2, model.DerivedStats{Total: 2, InTransit: 1, Delivered: 1}},
		{"?q=CMS001236", 1, model.DerivedStats{Total: 1, Pending: 1}},
		{"?q=tokyo", 0, model.DerivedStats{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Packages(w, httptest.NewRequest(http.MethodGet, "/user/packages"+tt.query, nil))

			var resp packagesResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(resp.Packages) != tt.wantCount {
				t.Errorf("packages = %d, want %d", len(resp.Packages), tt.wantCount)
			}
			if resp.Stats != tt.wantStats {
				t.Errorf("stats = %+v, want %+v", resp.Stats, tt.wantStats)
			}
		})
	}
}
