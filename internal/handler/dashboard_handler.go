package handler

import (
	"net/http"

	"github.com/Rizviblue/rapid-courier-pro/internal/middleware"
	"github.com/Rizviblue/rapid-courier-pro/internal/model"
	"github.com/Rizviblue/rapid-courier-pro/internal/shipment"
)

// ダッシュボードに表示する最新レコードの件数
const (
	adminRecentCount = 5
	agentRecentCount = 4
	userRecentCount  = 3
)

// DashboardHandler はロール別ダッシュボードのHTTPハンドラー。
type DashboardHandler struct {
	store ShipmentStoreInterface
}

// NewDashboardHandler はDashboardHandlerを生成する。
func NewDashboardHandler(store ShipmentStoreInterface) *DashboardHandler {
	return &DashboardHandler{store: store}
}

type dashboardResponse struct {
	User   model.Identity      `json:"user"`
	Stats  *model.DerivedStats `json:"stats,omitempty"`
	Recent []shipmentResponse  `json:"recent"`
}

type packagesResponse struct {
	Packages []shipmentResponse `json:"packages"`
	Stats    model.DerivedStats `json:"stats"`
}

// Admin は全体の件数と最新5件を返す。
// GET /admin/dashboard
func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, adminRecentCount, true)
}

// Agent は全体の件数と最新4件を返す。
// GET /agent/dashboard
func (h *DashboardHandler) Agent(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, agentRecentCount, true)
}

// User は最新3件のみを返す。件数は表示しない。
// GET /user/dashboard
func (h *DashboardHandler) User(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, userRecentCount, false)
}

// Packages は荷物を検索し、検索結果のステータス別件数とあわせて返す。
// GET /user/packages?q=
func (h *DashboardHandler) Packages(w http.ResponseWriter, r *http.Request) {
	records := h.store.List(r.Context(), shipment.Filter{Query: r.URL.Query().Get("q")})
	writeJSON(w, http.StatusOK, packagesResponse{
		Packages: toShipmentResponses(records),
		Stats:    shipment.StatsOf(records),
	})
}

func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, recent int, withStats bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	resp := dashboardResponse{
		User:   identity,
		Recent: toShipmentResponses(h.store.List(r.Context(), shipment.Filter{Limit: recent})),
	}
	if withStats {
		stats := h.store.Stats(r.Context())
		resp.Stats = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}
