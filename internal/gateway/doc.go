// Package gateway は認証ゲートウェイ（BFF）の内部実装を提供する。
//
// フロントエンドからのログイン・登録リクエストを受け取り、認証情報の
// 検証をCore Serviceへ委譲し、成功時にセッショントークン（JWT）を発行
// して返す。Coreの失敗はカテゴリごとに外向きのHTTPステータスへ変換され、
// 内部の診断情報や共有シークレットが外部へ漏れることはない。
// ユーザーデータの保存やパスワードの検証は行わない。
package gateway
