// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// セッショントークン（JWT）の検証、パニックリカバリ、CORS設定を含む。
// ログイン・登録・ヘルスチェック以外の保護ルートはJWTAuthで守る。
package middleware
