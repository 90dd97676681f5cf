// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer は配送フォームの自由入力（氏名、都市、配送種別）からHTMLを取り除き、
// 一覧表示や検索でマークアップが混入しないようにする。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService は自由入力テキストのサニタイズ機能のインターフェース。
type TextSanitizerService interface {
	// Sanitize はすべてのタグを除去したプレーンテキストを返す。
	// script、styleの中身は破棄し、連続する空白は1つにまとめ、前後の空白を取り除く。
	Sanitize(raw string) string
}

// maxSanitizePasses は実体参照を展開しながらサニタイズを繰り返す上限回数。
// 多重にエスケープされた入力でも、この回数内に収束しなければエスケープ済みの形で返す。
const maxSanitizePasses = 4

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーはスレッドセーフなので共有してよい。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はbluemondayのStrictPolicyを使うTextSanitizerServiceを生成する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize はすべてのタグを除去したプレーンテキストを返す。
// StrictPolicyはテキスト中の記号をエスケープするため実体参照を戻す必要があるが、
// 戻した結果にタグが現れることがあるので、値が変わらなくなるまでサニタイズを繰り返す。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}

	text := html.UnescapeString(raw)
	for range maxSanitizePasses {
		next := html.UnescapeString(s.policy.Sanitize(text))
		if next == text {
			return collapseSpaces(text)
		}
		text = next
	}
	// 収束しない入力はエスケープしたまま返す
	return collapseSpaces(s.policy.Sanitize(text))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// compile-time interface check
var _ TextSanitizerService = (*textSanitizer)(nil)
