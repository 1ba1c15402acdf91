package audit

import "time"

// Type は認証イベントの種類を表す。
type Type string

const (
	// TypeLoginSucceeded はログインが成功しセッショントークンを発行したことを表す。
	TypeLoginSucceeded Type = "LoginSucceeded"
	// TypeLoginFailed はCoreが認証情報を拒否したことを表す。想定内の出来事。
	TypeLoginFailed Type = "LoginFailed"
	// TypeUserRegistered はCoreでユーザー登録が完了したことを表す。
	TypeUserRegistered Type = "UserRegistered"
	// TypeRegistrationRejected はCoreが登録を拒否したことを表す（例: メール重複）。
	TypeRegistrationRejected Type = "RegistrationRejected"
	// TypeCoreMisroute はBFF→Core間のルーティング設定ミス（404）を表す。運用者向けの障害。
	TypeCoreMisroute Type = "CoreMisroute"
	// TypeCoreUnavailable はCoreへの接続失敗・タイムアウトを表す。運用者向けの障害。
	TypeCoreUnavailable Type = "CoreUnavailable"
)

// Event は1件の認証イベントを表す。追記後は不変。
// 認証情報・トークン・共有シークレットを含めてはならない。
type Event struct {
	// ID はイベントの一意識別子（UUID）。未設定の場合は記録時に採番される。
	ID string
	// Type はイベントの種類。
	Type Type
	// Subject は対象ユーザーのID。特定できない場合は空文字列。
	Subject string
	// Detail は補足情報。秘匿情報を含まないテキストのみ許可する。
	Detail string
	// CreatedAt はイベントの記録日時。
	CreatedAt time.Time
}
