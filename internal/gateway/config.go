package gateway

import (
	"fmt"
	"os"
	"time"
)

// Config はBFFの設定値。プロセス起動時に一度だけ解決し、以降は変更しない。
// 各コンポーネントへは値渡しで注入する（可変なグローバル状態は持たない）。
type Config struct {
	// Port はサーバーのリッスンポート。
	Port string
	// CoreBaseURL はCore ServiceのベースURL（例: "http://localhost:8080"）。
	CoreBaseURL string
	// CoreAPIKey はBFF→Core間の共有シークレット。必須。
	CoreAPIKey string
	// CoreAPIKeyHeader は共有シークレットを載せるヘッダー名。
	CoreAPIKeyHeader string
	// CoreTimeout はCore呼び出しのタイムアウト。必ず有限の正の値。
	CoreTimeout time.Duration
	// JWTSecret はBase64エンコードされたトークン署名鍵。必須。
	JWTSecret string
	// JWTTTL はセッショントークンの有効期間。
	JWTTTL time.Duration
	// AuditDBPath は認証イベントを記録するSQLiteデータベースのパス。
	AuditDBPath string
	// FrontendURL はCORSで許可するフロントエンドのオリジン。
	FrontendURL string
}

// LoadConfig は環境変数から設定を解決する。
// 秘密値の存在チェックや鍵長の検証は各コンポーネントの生成時に行われる。
func LoadConfig() (Config, error) {
	coreTimeout, err := time.ParseDuration(getEnvOr("CORE_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("CORE_TIMEOUTのパースに失敗: %w", err)
	}

	jwtTTL, err := time.ParseDuration(getEnvOr("JWT_TTL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("JWT_TTLのパースに失敗: %w", err)
	}

	return Config{
		Port:             getEnvOr("PORT", "8081"),
		CoreBaseURL:      getEnvOr("CORE_BASE_URL", "http://localhost:8080"),
		CoreAPIKey:       os.Getenv("CORE_INTERNAL_API_KEY"),
		CoreAPIKeyHeader: getEnvOr("CORE_INTERNAL_API_KEY_HEADER", "X-Internal-Api-Key"),
		CoreTimeout:      coreTimeout,
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTTTL:           jwtTTL,
		AuditDBPath:      getEnvOr("AUDIT_DB_PATH", "/data/bff-audit.db"),
		FrontendURL:      getEnvOr("FRONTEND_URL", "http://localhost:4200"),
	}, nil
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
