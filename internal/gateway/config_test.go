package gateway

import (
	"testing"
	"time"
)

// TestLoadConfig はLoadConfig関数の環境変数解決を検証する。
// 環境変数を変更するためt.Parallel()は使用しない。
func TestLoadConfig(t *testing.T) {
	t.Run("未設定の場合はデフォルト値が使われること", func(t *testing.T) {
		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig()でエラーが発生: %v", err)
		}
		if cfg.Port != "8081" {
			t.Errorf("Port = %q, want %q", cfg.Port, "8081")
		}
		if cfg.CoreAPIKeyHeader != "X-Internal-Api-Key" {
			t.Errorf("CoreAPIKeyHeader = %q, want %q", cfg.CoreAPIKeyHeader, "X-Internal-Api-Key")
		}
		if cfg.CoreTimeout != 10*time.Second {
			t.Errorf("CoreTimeout = %v, want 10s", cfg.CoreTimeout)
		}
		if cfg.JWTTTL != time.Hour {
			t.Errorf("JWTTTL = %v, want 1h", cfg.JWTTTL)
		}
	})

	t.Run("環境変数が優先されること", func(t *testing.T) {
		t.Setenv("CORE_BASE_URL", "http://core:9000")
		t.Setenv("CORE_TIMEOUT", "3s")
		t.Setenv("JWT_TTL", "30m")
		t.Setenv("CORE_INTERNAL_API_KEY_HEADER", "X-Custom-Key")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig()でエラーが発生: %v", err)
		}
		if cfg.CoreBaseURL != "http://core:9000" {
			t.Errorf("CoreBaseURL = %q, want %q", cfg.CoreBaseURL, "http://core:9000")
		}
		if cfg.CoreTimeout != 3*time.Second {
			t.Errorf("CoreTimeout = %v, want 3s", cfg.CoreTimeout)
		}
		if cfg.JWTTTL != 30*time.Minute {
			t.Errorf("JWTTTL = %v, want 30m", cfg.JWTTTL)
		}
		if cfg.CoreAPIKeyHeader != "X-Custom-Key" {
			t.Errorf("CoreAPIKeyHeader = %q, want %q", cfg.CoreAPIKeyHeader, "X-Custom-Key")
		}
	})

	t.Run("タイムアウトのパースに失敗した場合はエラーになること", func(t *testing.T) {
		t.Setenv("CORE_TIMEOUT", "not-a-duration")

		if _, err := LoadConfig(); err == nil {
			t.Fatal("不正なCORE_TIMEOUTでエラーが返らなかった")
		}
	})

	t.Run("TTLのパースに失敗した場合はエラーになること", func(t *testing.T) {
		t.Setenv("JWT_TTL", "one-hour")

		if _, err := LoadConfig(); err == nil {
			t.Fatal("不正なJWT_TTLでエラーが返らなかった")
		}
	})
}
