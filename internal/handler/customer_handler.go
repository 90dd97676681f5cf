package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Rizviblue/rapid-courier-pro/internal/customer"
	"github.com/Rizviblue/rapid-courier-pro/internal/model"
	"github.com/Rizviblue/rapid-courier-pro/internal/security"
)

// CustomerStoreInterface は顧客管理ハンドラーが必要とするストアのインターフェース。
type CustomerStoreInterface interface {
	Create(ctx context.Context, in model.NewCustomer) model.Customer
	Update(ctx context.Context, id string, patch model.CustomerPatch) (model.Customer, bool)
	ToggleStatus(ctx context.Context, id string) (model.Customer, bool)
	Delete(ctx context.Context, id string) bool
	FindByID(ctx context.Context, id string) (model.Customer, bool)
	List(ctx context.Context, f customer.Filter) []model.Customer
	Stats(ctx context.Context) model.CustomerStats
}

// CustomerHandler は管理者向けの顧客管理ハンドラー。
type CustomerHandler struct {
	store     CustomerStoreInterface
	sanitizer security.TextSanitizerService
	validate  *validator.Validate
	recorder  MemberRecorder
}

// NewCustomerHandler はCustomerHandlerを生成する。recorderはnilでもよい。
func NewCustomerHandler(store CustomerStoreInterface, sanitizer security.TextSanitizerService, recorder MemberRecorder) *CustomerHandler {
	return &CustomerHandler{
		store:     store,
		sanitizer: sanitizer,
		validate:  newValidator(),
		recorder:  recorder,
	}
}

type customerInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone" validate:"max=30"`
}

type updateCustomerRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Status *string `json:"status"`
}

type customerResponse struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	TotalOrders    int                `json:"totalOrders"`
	TotalSpent     float64            `json:"totalSpent"`
	Status         model.MemberStatus `json:"status"`
	RegisteredDate string             `json:"registeredDate"`
	LastOrder      string             `json:"lastOrder"` // 注文履歴がない場合は空文字列
}

type customerListResponse struct {
	Customers []customerResponse  `json:"customers"`
	Count     int                 `json:"count"`
	Stats     model.CustomerStats `json:"stats"`
}

// List は顧客を検索する。statsは絞り込みに関係なく全件の集計。
// GET /admin/customers?q=&status=
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	query, status, err := parseMemberQuery(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	customers := h.store.List(r.Context(), customer.Filter{Query: query, Status: status})
	out := make([]customerResponse, len(customers))
	for i, c := range customers {
		out[i] = toCustomerResponse(c)
	}
	writeJSON(w, http.StatusOK, customerListResponse{
		Customers: out,
		Count:     len(out),
		Stats:     h.store.Stats(r.Context()),
	})
}

// Stats は全顧客の集計を返す。
// GET /admin/customers/stats
func (h *CustomerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Stats(r.Context()))
}

// Get はIDを指定して顧客を取得する。
// GET /admin/customers/{id}
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, ok := h.store.FindByID(r.Context(), id)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewCustomerNotFoundError(id))
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}

// Create は顧客を登録する。氏名とメールアドレスは必須。
// POST /admin/customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in customerInput
	if err := decodeJSONBody(r, &in); err != nil {
		handleServiceError(w, err)
		return
	}
	in.Name = h.sanitizer.Sanitize(in.Name)
	in.Email = h.sanitizer.Sanitize(in.Email)
	in.Phone = h.sanitizer.Sanitize(in.Phone)

	if err := h.validate.Struct(in); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMemberValidationError(validationReason(err)))
		return
	}

	c := h.store.Create(r.Context(), model.NewCustomer{Name: in.Name, Email: in.Email, Phone: in.Phone})
	recordMember(h.recorder, memberKindCustomer, "create")

	writeJSON(w, http.StatusCreated, toCustomerResponse(c))
}

// Update は指定されたフィールドのみを更新する。
// PATCH /admin/customers/{id}
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateCustomerRequest
	if err := decodeJSONBody(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}

	current, ok := h.store.FindByID(r.Context(), id)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewCustomerNotFoundError(id))
		return
	}
	if req.Status != nil && !model.MemberStatus(*req.Status).Valid() {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidMemberStatusError(*req.Status))
		return
	}

	patch := model.CustomerPatch{
		Name:  sanitizePtr(h.sanitizer, req.Name),
		Email: sanitizePtr(h.sanitizer, req.Email),
		Phone: sanitizePtr(h.sanitizer, req.Phone),
	}
	if req.Status != nil {
		st := model.MemberStatus(*req.Status)
		patch.Status = &st
	}

	merged := patch.Apply(current)
	if err := h.validate.Struct(customerInput{Name: merged.Name, Email: merged.Email, Phone: merged.Phone}); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMemberValidationError(validationReason(err)))
		return
	}

	updated, ok := h.store.Update(r.Context(), id, patch)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewCustomerNotFoundError(id))
		return
	}
	recordMember(h.recorder, memberKindCustomer, "update")
	writeJSON(w, http.StatusOK, toCustomerResponse(updated))
}

// ToggleStatus は有効と無効を切り替える。
// POST /admin/customers/{id}/toggle-status
func (h *CustomerHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, ok := h.store.ToggleStatus(r.Context(), id)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewCustomerNotFoundError(id))
		return
	}
	recordMember(h.recorder, memberKindCustomer, "toggle_status")
	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}

// Delete は顧客を削除する。
// DELETE /admin/customers/{id}
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.store.Delete(r.Context(), id) {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewCustomerNotFoundError(id))
		return
	}
	recordMember(h.recorder, memberKindCustomer, "delete")
	w.WriteHeader(http.StatusNoContent)
}

func toCustomerResponse(c model.Customer) customerResponse {
	resp := customerResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		TotalOrders:    c.TotalOrders,
		TotalSpent:     c.TotalSpent,
		Status:         c.Status,
		RegisteredDate: formatDay(c.RegisteredDate),
	}
	if c.LastOrder != nil {
		resp.LastOrder = formatDay(*c.LastOrder)
	}
	return resp
}
