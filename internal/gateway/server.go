package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/connectrh/bff/internal/audit"
	"github.com/connectrh/bff/internal/coreclient"
	"github.com/connectrh/bff/pkg/middleware"
	"github.com/connectrh/bff/pkg/token"
)

// Server は認証ゲートウェイ（BFF）のHTTPサーバー。
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線となる。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// core はCore Serviceの内部APIクライアント。
	core *coreclient.Client
	// issuer はセッショントークンの発行器。
	issuer *token.Issuer
	// recorder は認証イベントの記録先。
	recorder *audit.Recorder
}

// NewServer は新しいBFFサーバーを生成する。
// 署名鍵・共有シークレット・TTLの検証はここで行われ、
// 不正な設定は起動エラーとして即座に失敗する。
func NewServer(cfg Config) (*Server, error) {
	issuer, err := token.New(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("トークン発行器の生成に失敗: %w", err)
	}

	core, err := coreclient.New(cfg.CoreBaseURL, cfg.CoreAPIKeyHeader, cfg.CoreAPIKey, cfg.CoreTimeout)
	if err != nil {
		return nil, fmt.Errorf("Core Serviceクライアントの生成に失敗: %w", err)
	}

	recorder, err := audit.Open(cfg.AuditDBPath)
	if err != nil {
		return nil, fmt.Errorf("監査ストアの初期化に失敗: %w", err)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS([]string{cfg.FrontendURL}))

	s := &Server{
		router:   router,
		port:     cfg.Port,
		core:     core,
		issuer:   issuer,
		recorder: recorder,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Close は監査ストアの接続を閉じる。
func (s *Server) Close() error {
	return s.recorder.Close()
}

// setupRoutes はAPIルーティングを設定する。
// 認証不要なのはログイン・登録・ヘルスチェックのみで、
// それ以外のルートはJWTAuthで保護する。
func (s *Server) setupRoutes() {
	auth := s.router.Group("/api/v1/auth")
	{
		// ログイン（認証不要）
		auth.POST("/login", s.handleLogin())
		// ユーザー登録（認証不要）
		auth.POST("/register", s.handleRegister())
		// 認証済みユーザーのクレーム参照
		auth.GET("/me", middleware.JWTAuth(s.issuer), s.handleMe())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "bff"})
	})
}

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// Email はユーザーのメールアドレス。
	Email string `json:"email" binding:"required,email"`
	// Password はユーザーのパスワード。
	Password string `json:"password" binding:"required"`
}

// registerRequest はユーザー登録リクエストのJSON構造。
type registerRequest struct {
	// Name はユーザーの表示名。
	Name string `json:"name" binding:"required"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email" binding:"required,email"`
	// Password はユーザーのパスワード。
	Password string `json:"password" binding:"required"`
	// PhoneNumber はユーザーの電話番号。
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// authResponse はログイン成功時のJSONレスポンス構造。
type authResponse struct {
	// Token はBFFが発行した署名済みセッショントークン。
	Token string `json:"token"`
	// UserID はユーザーの一意識別子。
	UserID int64 `json:"userId"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	// Name はユーザーの表示名。
	Name string `json:"name"`
	// Roles はユーザーに付与されたロール。
	Roles []string `json:"roles"`
}

// handleLogin はログインを処理するハンドラを返す。
// 入力検証 → Coreへの委譲 → トークン発行 → 応答、の一本道のパイプライン。
// 認証情報の誤りは401（空ボディ）、それ以外の失敗は500（空ボディ）を返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "メールアドレスとパスワードを正しく指定してください"})
			return
		}

		identity, err := s.core.Login(c.Request.Context(), coreclient.Credentials{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			s.failLogin(c, err)
			return
		}

		st, err := s.issuer.Issue(identity.UserID, identity.Name, identity.Roles)
		if err != nil {
			log.Printf("[ERROR] セッショントークンの発行に失敗: %v", err)
			c.Status(http.StatusInternalServerError)
			return
		}

		s.recordEvent(c, audit.Event{
			Type:    audit.TypeLoginSucceeded,
			Subject: strconv.FormatInt(identity.UserID, 10),
		})

		c.JSON(http.StatusOK, authResponse{
			Token:  st.Value,
			UserID: identity.UserID,
			Email:  identity.Email,
			Name:   identity.Name,
			Roles:  identity.Roles,
		})
	}
}

// failLogin はログイン失敗時の応答と記録を行う。
// Core由来の詳細メッセージは外部へ中継せず、内部の記録のみに残す。
func (s *Server) failLogin(c *gin.Context, err error) {
	var cerr *coreclient.Error
	if !errors.As(err, &cerr) {
		log.Printf("[ERROR] ログイン処理で想定外のエラー: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	switch cerr.Kind {
	case coreclient.KindInvalidCredentials:
		// 想定内の出来事。エラーログではなくイベントとして記録する
		s.recordEvent(c, audit.Event{Type: audit.TypeLoginFailed, Detail: cerr.Message})
		c.Status(http.StatusUnauthorized)
	case coreclient.KindNotFound:
		// BFF→Core間のルーティング設定ミス。利用者の問題ではない
		log.Printf("[ERROR] Coreのログインエンドポイントが見つかりません（設定ミス）: %v", cerr)
		s.recordEvent(c, audit.Event{Type: audit.TypeCoreMisroute, Detail: cerr.Message})
		c.Status(http.StatusInternalServerError)
	default:
		log.Printf("[ERROR] Core Serviceが利用できません: %v", cerr)
		s.recordEvent(c, audit.Event{Type: audit.TypeCoreUnavailable, Detail: cerr.Message})
		c.Status(http.StatusInternalServerError)
	}
}

// handleRegister はユーザー登録を処理するハンドラを返す。
// Coreが400で拒否した場合のみ、そのメッセージを利用者へそのまま返す
// （メール重複等の利用者が対処可能な検証エラーであるため）。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "登録内容を正しく指定してください"})
			return
		}

		payload, err := s.core.CreateUser(c.Request.Context(), coreclient.Registration{
			Name:        req.Name,
			Email:       req.Email,
			Password:    req.Password,
			PhoneNumber: req.PhoneNumber,
		})
		if err != nil {
			s.failRegister(c, err)
			return
		}

		s.recordEvent(c, audit.Event{Type: audit.TypeUserRegistered})

		if len(payload) == 0 {
			c.Status(http.StatusCreated)
			return
		}
		c.Data(http.StatusCreated, "application/json; charset=utf-8", payload)
	}
}

// failRegister はユーザー登録失敗時の応答と記録を行う。
func (s *Server) failRegister(c *gin.Context, err error) {
	var cerr *coreclient.Error
	if !errors.As(err, &cerr) {
		log.Printf("[ERROR] ユーザー登録処理で想定外のエラー: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	switch cerr.Kind {
	case coreclient.KindConflict:
		// 想定内の検証エラー。Coreのメッセージをそのまま返す
		s.recordEvent(c, audit.Event{Type: audit.TypeRegistrationRejected, Detail: cerr.Message})
		c.JSON(http.StatusBadRequest, gin.H{"message": cerr.Message})
	case coreclient.KindNotFound:
		log.Printf("[ERROR] Coreの登録エンドポイントが見つかりません（設定ミス）: %v", cerr)
		s.recordEvent(c, audit.Event{Type: audit.TypeCoreMisroute, Detail: cerr.Message})
		c.Status(http.StatusInternalServerError)
	default:
		log.Printf("[ERROR] Core Serviceが利用できません: %v", cerr)
		s.recordEvent(c, audit.Event{Type: audit.TypeCoreUnavailable, Detail: cerr.Message})
		c.Status(http.StatusInternalServerError)
	}
}

// handleMe は認証済みユーザーのクレームを返すハンドラを返す。
// JWTAuthミドルウェアが事前に適用されている必要がある。
func (s *Server) handleMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": middleware.GetUserID(c),
			"name":   middleware.GetName(c),
			"roles":  middleware.GetRoles(c),
		})
	}
}

// recordEvent は認証イベントを記録する。記録の失敗は応答に影響させず、
// ログ出力のみ行う。クライアント切断後も記録は完了させる。
func (s *Server) recordEvent(c *gin.Context, e audit.Event) {
	ctx := context.WithoutCancel(c.Request.Context())
	if err := s.recorder.Record(ctx, e); err != nil {
		log.Printf("[WARN] 認証イベントの記録に失敗: %v", err)
	}
}
