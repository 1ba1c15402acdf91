// Package audit は認証イベントの追記専用ストアを提供する。
//
// ログイン成否・ユーザー登録・Core障害といった認証ゲートウェイの
// 出来事をSQLiteに記録する。認証情報（パスワード）・トークン・
// 共有シークレットは一切保存しない。InvalidCredentialsやConflictは
// 想定内の出来事としてイベント記録のみ行い、エラーログには出さない。
package audit
