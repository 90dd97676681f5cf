package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator はJSONタグ名をフィールド名として報告するvalidatorを生成する。
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationReason は検証エラーを利用者向けの1行の説明に変換する。
func validationReason(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	reasons := make([]string, 0, len(verrs))
	for _, e := range verrs {
		reasons = append(reasons, e.Field()+" "+validationMessage(e))
	}
	return strings.Join(reasons, "; ")
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "は必須です"
	case "gte":
		return "は" + e.Param() + "以上である必要があります"
	case "max":
		return "は" + e.Param() + "文字以内である必要があります"
	case "oneof":
		return "は次のいずれかである必要があります: " + e.Param()
	case "email":
		return "は有効なメールアドレスである必要があります"
	case "datetime":
		return "はYYYY-MM-DD形式である必要があります"
	default:
		return "の値が不正です"
	}
}
