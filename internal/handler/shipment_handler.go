package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Rizviblue/rapid-courier-pro/internal/middleware"
	"github.com/Rizviblue/rapid-courier-pro/internal/model"
	"github.com/Rizviblue/rapid-courier-pro/internal/security"
	"github.com/Rizviblue/rapid-courier-pro/internal/shipment"
)

const (
	dateLayout    = "2006-01-02"
	undecidedDate = "TBD"
	maxListLimit  = 500
)

// ShipmentStoreInterface は配送ハンドラーが必要とするストアのインターフェース。
type ShipmentStoreInterface interface {
	Create(ctx context.Context, in model.NewShipment) model.ShipmentRecord
	Update(ctx context.Context, id string, patch model.ShipmentPatch) bool
	Delete(ctx context.Context, id string) bool
	Stats(ctx context.Context) model.DerivedStats
	FindByID(ctx context.Context, id string) (model.ShipmentRecord, bool)
	FindByTrackingCode(ctx context.Context, code string) (model.ShipmentRecord, bool)
	List(ctx context.Context, f shipment.Filter) []model.ShipmentRecord
}

// MutationRecorder は配送レコードの変更を記録する。metrics.Collectorが満たす。
type MutationRecorder interface {
	RecordShipmentMutation(operation string)
}

// ShipmentHandler は配送レコード関連のHTTPハンドラー。
type ShipmentHandler struct {
	store     ShipmentStoreInterface
	sanitizer security.TextSanitizerService
	validate  *validator.Validate
	recorder  MutationRecorder
}

// NewShipmentHandler はShipmentHandlerを生成する。recorderはnilでもよい。
func NewShipmentHandler(store ShipmentStoreInterface, sanitizer security.TextSanitizerService, recorder MutationRecorder) *ShipmentHandler {
	return &ShipmentHandler{
		store:     store,
		sanitizer: sanitizer,
		validate:  newValidator(),
		recorder:  recorder,
	}
}

// shipmentInput は作成時と、更新適用後のレコードの両方に同じ検証規則を適用するための型。
type shipmentInput struct {
	SenderName   string  `json:"senderName" validate:"required,max=100"`
	ReceiverName string  `json:"receiverName" validate:"required,max=100"`
	PickupCity   string  `json:"pickupCity" validate:"required,max=100"`
	DeliveryCity string  `json:"deliveryCity" validate:"required,max=100"`
	CourierType  string  `json:"courierType" validate:"max=50"`
	Weight       float64 `json:"weight" validate:"gte=0"`
	DeliveryDate string  `json:"deliveryDate" validate:"omitempty,datetime=2006-01-02"`
	Status       string  `json:"status" validate:"omitempty,oneof=pending in_transit delivered cancelled"`
}

type updateShipmentRequest struct {
	SenderName   *string  `json:"senderName"`
	ReceiverName *string  `json:"receiverName"`
	PickupCity   *string  `json:"pickupCity"`
	DeliveryCity *string  `json:"deliveryCity"`
	CourierType  *string  `json:"courierType"`
	Weight       *float64 `json:"weight"`
	// 空文字列は配送予定日の取り消し（TBD）を意味する
	DeliveryDate *string `json:"deliveryDate"`
	Status       *string `json:"status"`
}

type shipmentResponse struct {
	ID           string               `json:"id"`
	TrackingCode string               `json:"trackingCode"`
	SenderName   string               `json:"senderName"`
	ReceiverName string               `json:"receiverName"`
	PickupCity   string               `json:"pickupCity"`
	DeliveryCity string               `json:"deliveryCity"`
	CourierType  string               `json:"courierType"`
	Weight       float64              `json:"weight"`
	DeliveryDate string               `json:"deliveryDate"`
	Status       model.ShipmentStatus `json:"status"`
	CreatedBy    string               `json:"createdBy"`
	CreatedAt    string               `json:"createdAt"`
}

type shipmentListResponse struct {
	Couriers []shipmentResponse `json:"couriers"`
	Count    int                `json:"count"`
	Stats    model.DerivedStats `json:"stats"`
}

// List は配送レコードを検索する。
// GET /couriers?q=&status=&createdBy=&limit=
func (h *ShipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	records := h.store.List(r.Context(), filter)
	writeJSON(w, http.StatusOK, shipmentListResponse{
		Couriers: toShipmentResponses(records),
		Count:    len(records),
		Stats:    shipment.StatsOf(records),
	})
}

// Stats は全レコードのステータス別件数を返す。
// GET /couriers/stats
func (h *ShipmentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Stats(r.Context()))
}

// Get はIDを指定して配送レコードを取得する。
// GET /couriers/{id}
func (h *ShipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := h.store.FindByID(r.Context(), id)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewShipmentNotFoundError(id))
		return
	}
	writeJSON(w, http.StatusOK, toShipmentResponse(rec))
}

// Create は配送レコードを登録する。作成者はサインイン中のIdentity。
// POST /couriers
func (h *ShipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var in shipmentInput
	if err := decodeJSONBody(r, &in); err != nil {
		handleServiceError(w, err)
		return
	}
	in = h.sanitize(in)
	if err := h.validate.Struct(in); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(validationReason(err)))
		return
	}

	status := model.ShipmentStatus(in.Status)
	if status == "" {
		status = model.ShipmentStatusPending
	}

	rec := h.store.Create(r.Context(), model.NewShipment{
		SenderName:   in.SenderName,
		ReceiverName: in.ReceiverName,
		PickupCity:   in.PickupCity,
		DeliveryCity: in.DeliveryCity,
		CourierType:  in.CourierType,
		Weight:       in.Weight,
		DeliveryDate: parseDate(in.DeliveryDate),
		Status:       status,
		CreatedBy:    identity.ID,
	})
	h.record("create")

	writeJSON(w, http.StatusCreated, toShipmentResponse(rec))
}

// Update は指定されたフィールドのみを更新する。ステータス遷移に制約はない。
// PATCH /couriers/{id}
func (h *ShipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateShipmentRequest
	if err := decodeJSONBody(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}

	current, ok := h.store.FindByID(r.Context(), id)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewShipmentNotFoundError(id))
		return
	}

	if req.Status != nil && !model.ShipmentStatus(*req.Status).Valid() {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidStatusError(*req.Status))
		return
	}
	if req.DeliveryDate != nil && *req.DeliveryDate != "" && parseDate(*req.DeliveryDate) == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("deliveryDate はYYYY-MM-DD形式である必要があります"))
		return
	}

	patch := h.toPatch(req)

	// パッチ適用後のレコードが作成時と同じ規則を満たすか検証する
	if err := h.validate.Struct(toShipmentInput(patch.Apply(current))); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError(validationReason(err)))
		return
	}

	if !h.store.Update(r.Context(), id, patch) {
		// 取得後に削除された場合
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewShipmentNotFoundError(id))
		return
	}
	h.record("update")

	updated, _ := h.store.FindByID(r.Context(), id)
	writeJSON(w, http.StatusOK, toShipmentResponse(updated))
}

// Delete は配送レコードを削除する。
// DELETE /couriers/{id}
func (h *ShipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.store.Delete(r.Context(), id) {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewShipmentNotFoundError(id))
		return
	}
	h.record("delete")
	w.WriteHeader(http.StatusNoContent)
}

// Track は追跡番号で荷物を検索する。大文字小文字は区別しない。
// GET /user/track/{code}
func (h *ShipmentHandler) Track(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	rec, ok := h.store.FindByTrackingCode(r.Context(), code)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewTrackingNotFoundError(code))
		return
	}
	writeJSON(w, http.StatusOK, toShipmentResponse(rec))
}

func (h *ShipmentHandler) sanitize(in shipmentInput) shipmentInput {
	in.SenderName = h.sanitizer.Sanitize(in.SenderName)
	in.ReceiverName = h.sanitizer.Sanitize(in.ReceiverName)
	in.PickupCity = h.sanitizer.Sanitize(in.PickupCity)
	in.DeliveryCity = h.sanitizer.Sanitize(in.DeliveryCity)
	in.CourierType = h.sanitizer.Sanitize(in.CourierType)
	return in
}

func (h *ShipmentHandler) toPatch(req updateShipmentRequest) model.ShipmentPatch {
	patch := model.ShipmentPatch{
		SenderName:   sanitizePtr(h.sanitizer, req.SenderName),
		ReceiverName: sanitizePtr(h.sanitizer, req.ReceiverName),
		PickupCity:   sanitizePtr(h.sanitizer, req.PickupCity),
		DeliveryCity: sanitizePtr(h.sanitizer, req.DeliveryCity),
		CourierType:  sanitizePtr(h.sanitizer, req.CourierType),
		Weight:       req.Weight,
	}
	if req.Status != nil {
		st := model.ShipmentStatus(*req.Status)
		patch.Status = &st
	}
	if req.DeliveryDate != nil {
		if *req.DeliveryDate == "" {
			patch.ClearDate = true
		} else {
			patch.DeliveryDate = parseDate(*req.DeliveryDate)
		}
	}
	return patch
}

func (h *ShipmentHandler) record(op string) {
	if h.recorder != nil {
		h.recorder.RecordShipmentMutation(op)
	}
}

// parseFilter はクエリ文字列から検索条件を組み立てる。
func parseFilter(r *http.Request) (shipment.Filter, error) {
	q := r.URL.Query()
	f := shipment.Filter{
		Query:     q.Get("q"),
		CreatedBy: q.Get("createdBy"),
	}

	if s := q.Get("status"); s != "" && s != "all" {
		st := model.ShipmentStatus(s)
		if !st.Valid() {
			return f, model.NewInvalidStatusError(s)
		}
		f.Status = st
	}

	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			return f, model.NewValidationError("limit は0以上の整数である必要があります")
		}
		f.Limit = min(n, maxListLimit)
	}
	return f, nil
}

// parseDate はYYYY-MM-DDを解析する。空文字列や不正な値はnil。
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func toShipmentInput(rec model.ShipmentRecord) shipmentInput {
	in := shipmentInput{
		SenderName:   rec.SenderName,
		ReceiverName: rec.ReceiverName,
		PickupCity:   rec.PickupCity,
		DeliveryCity: rec.DeliveryCity,
		CourierType:  rec.CourierType,
		Weight:       rec.Weight,
		Status:       string(rec.Status),
	}
	if rec.DeliveryDate != nil {
		in.DeliveryDate = rec.DeliveryDate.Format(dateLayout)
	}
	return in
}

func toShipmentResponse(rec model.ShipmentRecord) shipmentResponse {
	date := undecidedDate
	if rec.DeliveryDate != nil {
		date = rec.DeliveryDate.Format(dateLayout)
	}
	return shipmentResponse{
		ID:           rec.ID,
		TrackingCode: rec.TrackingCode,
		SenderName:   rec.SenderName,
		ReceiverName: rec.ReceiverName,
		PickupCity:   rec.PickupCity,
		DeliveryCity: rec.DeliveryCity,
		CourierType:  rec.CourierType,
		Weight:       rec.Weight,
		DeliveryDate: date,
		Status:       rec.Status,
		CreatedBy:    rec.CreatedBy,
		CreatedAt:    rec.CreatedAt.Format(time.RFC3339),
	}
}

func toShipmentResponses(records []model.ShipmentRecord) []shipmentResponse {
	out := make([]shipmentResponse, len(records))
	for i, rec := range records {
		out[i] = toShipmentResponse(rec)
	}
	return out
}
