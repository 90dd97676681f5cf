package handler

import (
	"net/http"
	"time"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
)

// MemberRecorder はエージェント・顧客の変更を記録する。metrics.Collectorが満たす。
type MemberRecorder interface {
	RecordMemberMutation(kind, operation string)
}

const (
	memberKindAgent    = "agent"
	memberKindCustomer = "customer"
)

// parseMemberQuery は名簿一覧のクエリ文字列（q, status）を解析する。statusのallは絞り込みなし。
func parseMemberQuery(r *http.Request) (string, model.MemberStatus, error) {
	q := r.URL.Query()
	s := q.Get("status")
	if s == "" || s == "all" {
		return q.Get("q"), "", nil
	}
	st := model.MemberStatus(s)
	if !st.Valid() {
		return "", "", model.NewInvalidMemberStatusError(s)
	}
	return q.Get("q"), st, nil
}

func recordMember(recorder MemberRecorder, kind, op string) {
	if recorder != nil {
		recorder.RecordMemberMutation(kind, op)
	}
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
