package coreclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Coreの内部認証エンドポイント。CoreService側の@RequestMappingと同期すること。
const (
	loginPath  = "/api/v1/internal/auth/login"
	signupPath = "/api/v1/internal/auth/signup"
)

// Credentials はCoreへ転送するログイン認証情報。
// リクエストの処理中のみ存在し、永続化もログ出力もしない。
type Credentials struct {
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	// Password はユーザーのパスワード。
	Password string `json:"password"`
}

// Registration はCoreへ転送するユーザー登録情報。
type Registration struct {
	// Name はユーザーの表示名。
	Name string `json:"name"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	// Password はユーザーのパスワード。
	Password string `json:"password"`
	// PhoneNumber はユーザーの電話番号。
	PhoneNumber string `json:"phoneNumber"`
}

// Identity はログイン成功時にCoreが返す検証済みユーザー情報。
// BFF側でこの構造体を組み立てるコードパスは存在しない。
type Identity struct {
	// UserID はユーザーの一意識別子。
	UserID int64 `json:"userId"`
	// Name はユーザーの表示名。
	Name string `json:"name"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	// Roles はユーザーに付与されたロール（ADMIN・MANAGER・EMPLOYEE等）。
	Roles []string `json:"roles"`
}

// Client はCore Serviceの内部APIを呼び出すHTTPクライアント。
// 全リクエストに共有シークレットヘッダーを付与する。
// 内部のhttp.Clientはコネクションプールを持ち、並行利用に対して安全。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL はCore ServiceのベースURL（例: "http://core:8080"）。
	baseURL string
	// apiKeyHeader は共有シークレットを載せるヘッダー名。
	apiKeyHeader string
	// apiKey はBFF→Core間の共有シークレット。ログには出力しない。
	apiKey string
}

// New は新しいCore Serviceクライアントを生成する。
// apiKeyが空の場合は設定エラーとして失敗する。共有シークレットの欠落は
// 実行時の分岐ではなく起動時に検出すべき問題であるため。
func New(baseURL, apiKeyHeader, apiKey string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("CoreのベースURLが設定されていません")
	}
	if apiKeyHeader == "" {
		return nil, errors.New("内部APIキーのヘッダー名が設定されていません")
	}
	if apiKey == "" {
		return nil, errors.New("内部APIキーが設定されていません")
	}
	if timeout <= 0 {
		return nil, errors.New("Core呼び出しのタイムアウトは正の値である必要があります")
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      baseURL,
		apiKeyHeader: apiKeyHeader,
		apiKey:       apiKey,
	}, nil
}

// Login はCoreの内部ログインエンドポイントで認証情報を検証する。
// 成功時は検証済みのIdentityを返す。失敗時は*Error型で分類を返す:
// 401→KindInvalidCredentials、404→KindNotFound、その他→KindUnavailable。
func (c *Client) Login(ctx context.Context, creds Credentials) (*Identity, error) {
	status, body, err := c.postJSON(ctx, loginPath, creds)
	if err != nil {
		return nil, err
	}
	if terr := translateLoginStatus(status, body); terr != nil {
		return nil, terr
	}

	var identity Identity
	if err := json.Unmarshal(body, &identity); err != nil {
		return nil, &Error{
			Kind:    KindUnavailable,
			Message: fmt.Sprintf("Coreのログイン応答のパースに失敗: %v", err),
			Status:  status,
		}
	}
	return &identity, nil
}

// CreateUser はCoreの内部登録エンドポイントでユーザーを作成する。
// 成功時はCoreが返した作成済みユーザーのペイロードをそのまま返す。
// 400→KindConflict（Messageは利用者へ中継可）、404→KindNotFound、
// その他→KindUnavailable。
func (c *Client) CreateUser(ctx context.Context, reg Registration) (json.RawMessage, error) {
	status, body, err := c.postJSON(ctx, signupPath, reg)
	if err != nil {
		return nil, err
	}
	if terr := translateSignupStatus(status, body); terr != nil {
		return nil, terr
	}
	return json.RawMessage(body), nil
}

// postJSON はJSONボディをPOSTし、ステータスコードとレスポンスボディを返す。
// 非2xxはここではエラーにせず、呼び出し側の変換関数に委ねる。
// 接続失敗・タイムアウト等のトランスポート層の失敗はKindUnavailableとなる。
func (c *Client) postJSON(ctx context.Context, path string, payload any) (int, []byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("リクエストボディのシリアライズに失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return 0, nil, fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(c.apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &Error{
			Kind:    KindUnavailable,
			Message: fmt.Sprintf("Core Serviceとの通信に失敗: %v", err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &Error{
			Kind:    KindUnavailable,
			Message: fmt.Sprintf("Coreの応答の読み取りに失敗: %v", err),
			Status:  resp.StatusCode,
		}
	}
	return resp.StatusCode, body, nil
}
