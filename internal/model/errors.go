package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, shipment, member, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeAccessDenied       = "ACCESS_DENIED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidRole        = "INVALID_ROLE"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeShipmentNotFound   = "SHIPMENT_NOT_FOUND"
	ErrCodeTrackingNotFound   = "TRACKING_NOT_FOUND"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeAgentNotFound      = "AGENT_NOT_FOUND"
	ErrCodeCustomerNotFound   = "CUSTOMER_NOT_FOUND"
	ErrCodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewUnauthenticatedError は未ログイン時のエラーを生成する。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "ログインが必要です。",
		Category: "auth",
		Action:   "デモアカウントでサインインしてください。",
	}
}

// NewAccessDeniedError はロール不一致によるアクセス拒否エラーを生成する。
func NewAccessDeniedError() *APIError {
	return &APIError{
		Code:     ErrCodeAccessDenied,
		Message:  "このページを表示する権限がありません。",
		Category: "auth",
		Action:   "権限のあるアカウントでサインインし直してください。",
	}
}

// NewInvalidCredentialsError はメールアドレスまたはパスワード不一致のエラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "ログイン画面に表示されているデモ用の認証情報を使用してください。",
	}
}

// NewInvalidRoleError は列挙外のロールが指定された場合のエラーを生成する。
func NewInvalidRoleError(role string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRole,
		Message:  fmt.Sprintf("無効なロールです: %s", role),
		Category: "validation",
		Action:   "ロールには admin、agent、user のいずれかを指定してください。",
	}
}

// NewValidationError は入力検証エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("入力内容に誤りがあります: %s", reason),
		Category: "validation",
		Action:   "必須項目（差出人、受取人、集荷都市、配送都市）を入力してください。",
	}
}

// NewInvalidStatusError は無効な配送ステータスのエラーを生成する。
func NewInvalidStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  fmt.Sprintf("無効なステータスです: %s", status),
		Category: "validation",
		Action:   "ステータスには pending、in_transit、delivered、cancelled のいずれかを指定してください。",
	}
}

// NewMemberValidationError はエージェント・顧客の入力検証エラーを生成する。
func NewMemberValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("入力内容に誤りがあります: %s", reason),
		Category: "validation",
		Action:   "必須項目（氏名、メールアドレス、エージェントの場合は担当都市）を入力してください。",
	}
}

// NewInvalidMemberStatusError は無効な有効・無効ステータスのエラーを生成する。
func NewInvalidMemberStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  fmt.Sprintf("無効なステータスです: %s", status),
		Category: "validation",
		Action:   "ステータスには active、inactive のいずれかを指定してください。",
	}
}

// NewAgentNotFoundError はエージェント未検出エラーを生成する。
func NewAgentNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeAgentNotFound,
		Message:  fmt.Sprintf("指定されたエージェントが見つかりません: %s", id),
		Category: "member",
		Action:   "エージェントIDを確認してください。",
	}
}

// NewCustomerNotFoundError は顧客未検出エラーを生成する。
func NewCustomerNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeCustomerNotFound,
		Message:  fmt.Sprintf("指定された顧客が見つかりません: %s", id),
		Category: "member",
		Action:   "顧客IDを確認してください。",
	}
}

// NewShipmentNotFoundError は配送レコード未検出エラーを生成する。
func NewShipmentNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeShipmentNotFound,
		Message:  fmt.Sprintf("指定された配送レコードが見つかりません: %s", id),
		Category: "shipment",
		Action:   "レコードIDを確認してください。",
	}
}

// NewTrackingNotFoundError は追跡番号に一致する荷物がない場合のエラーを生成する。
func NewTrackingNotFoundError(code string) *APIError {
	return &APIError{
		Code:     ErrCodeTrackingNotFound,
		Message:  fmt.Sprintf("追跡番号に一致する荷物が見つかりません: %s", code),
		Category: "shipment",
		Action:   "追跡番号（例: CMS001234）を確認してください。",
	}
}

// NewRateLimitedError はレート制限超過のエラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "リクエストが多すぎます。",
		Category: "system",
		Action:   "Retry-Afterヘッダーの秒数だけ待ってから再度お試しください。",
	}
}

// NewInternalError は内部エラーの汎用レスポンスを生成する。詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
