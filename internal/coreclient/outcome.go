package coreclient

import (
	"fmt"
	"net/http"
)

// Kind はCore Service呼び出しの失敗カテゴリを表す。
type Kind string

const (
	// KindInvalidCredentials は認証情報（メールアドレスまたはパスワード）の誤りを表す。
	KindInvalidCredentials Kind = "InvalidCredentials"
	// KindConflict はCoreが登録を拒否したことを表す（例: メールアドレスの重複）。
	// Message はそのまま利用者へ返してよい。
	KindConflict Kind = "Conflict"
	// KindNotFound はBFFとCore間のルーティング設定ミスを表す。
	// 利用者の問題ではなくサーバー側の障害として扱う。
	KindNotFound Kind = "NotFound"
	// KindUnavailable はCoreへの接続失敗・タイムアウト・想定外の応答を表す。
	KindUnavailable Kind = "Unavailable"
)

// Error はCore Service呼び出しの失敗を分類付きで表す。
// Message にはCore由来の詳細が入るが、利用者へ中継してよいのは
// KindConflict の場合のみ。それ以外の詳細は内部ログ専用とする。
type Error struct {
	// Kind は失敗のカテゴリ。
	Kind Kind
	// Message はCoreまたは通信層由来の詳細メッセージ。
	Message string
	// Status はCoreが返したHTTPステータスコード。通信自体が失敗した場合は0。
	Status int
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("Core Service呼び出しに失敗: kind=%s, status=%d", e.Kind, e.Status)
	}
	return fmt.Sprintf("Core Service呼び出しに失敗: kind=%s", e.Kind)
}

// translateLoginStatus はログイン呼び出しの（ステータス, ボディ）を失敗カテゴリへ変換する。
// 2xx成功時にはnilを返す。401の詳細は中継禁止だが内部診断用に保持する。
func translateLoginStatus(status int, body []byte) *Error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return &Error{Kind: KindInvalidCredentials, Message: string(body), Status: status}
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Message: "Coreのログインエンドポイントが見つかりません", Status: status}
	default:
		return &Error{Kind: KindUnavailable, Message: string(body), Status: status}
	}
}

// translateSignupStatus はユーザー登録呼び出しの（ステータス, ボディ）を失敗カテゴリへ変換する。
// 400のボディはCoreの検証メッセージ（例: "Email já cadastrado"）であり、
// そのまま利用者へ返すことが期待される。
func translateSignupStatus(status int, body []byte) *Error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusBadRequest:
		return &Error{Kind: KindConflict, Message: string(body), Status: status}
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Message: "Coreの登録エンドポイントが見つかりません", Status: status}
	default:
		return &Error{Kind: KindUnavailable, Message: string(body), Status: status}
	}
}
