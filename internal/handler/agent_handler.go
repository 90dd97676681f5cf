package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Rizviblue/rapid-courier-pro/internal/agent"
	"github.com/Rizviblue/rapid-courier-pro/internal/model"
	"github.com/Rizviblue/rapid-courier-pro/internal/security"
)

// AgentStoreInterface はエージェント管理ハンドラーが必要とするストアのインターフェース。
type AgentStoreInterface interface {
	Create(ctx context.Context, in model.NewAgent) model.Agent
	Update(ctx context.Context, id string, patch model.AgentPatch) (model.Agent, bool)
	ToggleStatus(ctx context.Context, id string) (model.Agent, bool)
	Delete(ctx context.Context, id string) bool
	FindByID(ctx context.Context, id string) (model.Agent, bool)
	List(ctx context.Context, f agent.Filter) []model.Agent
	Stats(ctx context.Context) model.AgentStats
}

// AgentHandler は管理者向けのエージェント管理ハンドラー。
type AgentHandler struct {
	store     AgentStoreInterface
	sanitizer security.TextSanitizerService
	validate  *validator.Validate
	recorder  MemberRecorder
}

// NewAgentHandler はAgentHandlerを生成する。recorderはnilでもよい。
func NewAgentHandler(store AgentStoreInterface, sanitizer security.TextSanitizerService, recorder MemberRecorder) *AgentHandler {
	return &AgentHandler{
		store:     store,
		sanitizer: sanitizer,
		validate:  newValidator(),
		recorder:  recorder,
	}
}

// agentInput は作成時と、更新適用後のエージェントの両方に適用する検証規則。
type agentInput struct {
	Name   string `json:"name" validate:"required,max=100"`
	Email  string `json:"email" validate:"required,email,max=254"`
	Phone  string `json:"phone" validate:"max=30"`
	City   string `json:"city" validate:"required,max=100"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type updateAgentRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	City   *string `json:"city"`
	Status *string `json:"status"`
}

type agentResponse struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone"`
	City          string             `json:"city"`
	Status        model.MemberStatus `json:"status"`
	TotalCouriers int                `json:"totalCouriers"`
	JoinedDate    string             `json:"joinedDate"`
}

type agentListResponse struct {
	Agents []agentResponse  `json:"agents"`
	Count  int              `json:"count"`
	Stats  model.AgentStats `json:"stats"`
}

// List はエージェントを検索する。statsは絞り込みに関係なく全件の集計。
// GET /admin/agents?q=&status=
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	query, status, err := parseMemberQuery(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	agents := h.store.List(r.Context(), agent.Filter{Query: query, Status: status})
	out := make([]agentResponse, len(agents))
	for i, a := range agents {
		out[i] = toAgentResponse(a)
	}
	writeJSON(w, http.StatusOK, agentListResponse{
		Agents: out,
		Count:  len(out),
		Stats:  h.store.Stats(r.Context()),
	})
}

// Stats は全エージェントの集計を返す。
// GET /admin/agents/stats
func (h *AgentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Stats(r.Context()))
}

// Get はIDを指定してエージェントを取得する。
// GET /admin/agents/{id}
func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, ok := h.store.FindByID(r.Context(), id)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewAgentNotFoundError(id))
		return
	}
	writeJSON(w, http.StatusOK, toAgentResponse(a))
}

// Create はエージェントを登録する。氏名、メールアドレス、担当都市は必須。
// POST /admin/agents
func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in agentInput
	if err := decodeJSONBody(r, &in); err != nil {
		handleServiceError(w, err)
		return
	}
	in.Name = h.sanitizer.Sanitize(in.Name)
	in.Email = h.sanitizer.Sanitize(in.Email)
	in.Phone = h.sanitizer.Sanitize(in.Phone)
	in.City = h.sanitizer.Sanitize(in.City)

	if err := h.validate.Struct(in); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMemberValidationError(validationReason(err)))
		return
	}

	a := h.store.Create(r.Context(), model.NewAgent{
		Name:   in.Name,
		Email:  in.Email,
		Phone:  in.Phone,
		City:   in.City,
		Status: model.MemberStatus(in.Status),
	})
	recordMember(h.recorder, memberKindAgent, "create")

	writeJSON(w, http.StatusCreated, toAgentResponse(a))
}

// Update は指定されたフィールドのみを更新する。
// PATCH /admin/agents/{id}
func (h *AgentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateAgentRequest
	if err := decodeJSONBody(r, &req); err != nil {
		handleServiceError(w, err)
		return
	}

	current, ok := h.store.FindByID(r.Context(), id)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewAgentNotFoundError(id))
		return
	}
	if req.Status != nil && !model.MemberStatus(*req.Status).Valid() {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidMemberStatusError(*req.Status))
		return
	}

	patch := model.AgentPatch{
		Name:  sanitizePtr(h.sanitizer, req.Name),
		Email: sanitizePtr(h.sanitizer, req.Email),
		Phone: sanitizePtr(h.sanitizer, req.Phone),
		City:  sanitizePtr(h.sanitizer, req.City),
	}
	if req.Status != nil {
		st := model.MemberStatus(*req.Status)
		patch.Status = &st
	}

	merged := patch.Apply(current)
	if err := h.validate.Struct(agentInput{
		Name: merged.Name, Email: merged.Email, Phone: merged.Phone, City: merged.City, Status: string(merged.Status),
	}); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMemberValidationError(validationReason(err)))
		return
	}

	updated, ok := h.store.Update(r.Context(), id, patch)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewAgentNotFoundError(id))
		return
	}
	recordMember(h.recorder, memberKindAgent, "update")
	writeJSON(w, http.StatusOK, toAgentResponse(updated))
}

// ToggleStatus は有効と無効を切り替える。
// POST /admin/agents/{id}/toggle-status
func (h *AgentHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, ok := h.store.ToggleStatus(r.Context(), id)
	if !ok {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewAgentNotFoundError(id))
		return
	}
	recordMember(h.recorder, memberKindAgent, "toggle_status")
	writeJSON(w, http.StatusOK, toAgentResponse(a))
}

// Delete はエージェントを削除する。
// DELETE /admin/agents/{id}
func (h *AgentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.store.Delete(r.Context(), id) {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewAgentNotFoundError(id))
		return
	}
	recordMember(h.recorder, memberKindAgent, "delete")
	w.WriteHeader(http.StatusNoContent)
}

// sanitizePtr はnilでない場合のみサニタイズした値へのポインタを返す。
func sanitizePtr(s security.TextSanitizerService, p *string) *string {
	if p == nil {
		return nil
	}
	v := s.Sanitize(*p)
	return &v
}

func toAgentResponse(a model.Agent) agentResponse {
	return agentResponse{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		Phone:         a.Phone,
		City:          a.City,
		Status:        a.Status,
		TotalCouriers: a.TotalCouriers,
		JoinedDate:    formatDay(a.JoinedDate),
	}
}
