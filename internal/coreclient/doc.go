// Package coreclient はConnect RH Core Serviceの内部APIを呼び出すクライアントを提供する。
//
// すべてのリクエストに共有シークレットのAPIキーヘッダーを付与し、
// Coreのログイン・ユーザー登録エンドポイントへの呼び出しを仲介する。
// CoreのHTTPステータスはカテゴリ分けされたエラー（Error型）へ変換され、
// 呼び出し側はネットワークの詳細を意識せずに結果を分岐できる。
package coreclient
