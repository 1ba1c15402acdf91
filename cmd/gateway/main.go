// 認証ゲートウェイ（BFF）のエントリポイント。
// フロントエンドからのログイン・登録リクエストをCore Serviceへ委譲し、
// 成功時にセッショントークン（JWT）を発行する。
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線となる。
package main

import (
	"log"

	"github.com/connectrh/bff/internal/gateway"
)

func main() {
	cfg, err := gateway.LoadConfig()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server, err := gateway.NewServer(cfg)
	if err != nil {
		log.Fatalf("BFFサーバーの初期化に失敗: %v", err)
	}
	defer server.Close()

	log.Printf("BFFサービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("BFFサービスの起動に失敗: %v", err)
	}
}
