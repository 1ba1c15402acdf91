package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/connectrh/bff/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestIssuer はテスト用のトークン発行器を生成する。
func newTestIssuer(t *testing.T) *token.Issuer {
	t.Helper()

	secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	issuer, err := token.New(secret, time.Hour)
	if err != nil {
		t.Fatalf("テスト用発行器の生成に失敗: %v", err)
	}
	return issuer
}

// newProtectedRouter はJWTAuthで保護されたテスト用ルーターを生成する。
func newProtectedRouter(issuer *token.Issuer) *gin.Engine {
	router := gin.New()
	router.GET("/protected", JWTAuth(issuer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetUserID(c),
			"name":    GetName(c),
			"roles":   GetRoles(c),
		})
	})
	return router
}

// TestJWTAuth はJWTAuthミドルウェアを検証する。
func TestJWTAuth(t *testing.T) {
	t.Parallel()

	t.Run("有効なトークンでリクエストが通過しクレームが設定されること", func(t *testing.T) {
		t.Parallel()

		issuer := newTestIssuer(t)
		st, err := issuer.Issue(7, "Ana", []string{"EMPLOYEE", "MANAGER"})
		if err != nil {
			t.Fatalf("トークン発行に失敗: %v", err)
		}

		var gotUserID, gotName string
		var gotRoles []string
		router := gin.New()
		router.GET("/protected", JWTAuth(issuer), func(c *gin.Context) {
			gotUserID = GetUserID(c)
			gotName = GetName(c)
			gotRoles = GetRoles(c)
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+st.Value)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if gotUserID != "7" {
			t.Errorf("GetUserID() = %q, want %q", gotUserID, "7")
		}
		if gotName != "Ana" {
			t.Errorf("GetName() = %q, want %q", gotName, "Ana")
		}
		if !slices.Equal(gotRoles, []string{"EMPLOYEE", "MANAGER"}) {
			t.Errorf("GetRoles() = %v, want %v", gotRoles, []string{"EMPLOYEE", "MANAGER"})
		}
	})

	t.Run("Authorizationヘッダーがない場合401が返ること", func(t *testing.T) {
		t.Parallel()

		router := newProtectedRouter(newTestIssuer(t))

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("Bearer形式でない場合401が返ること", func(t *testing.T) {
		t.Parallel()

		router := newProtectedRouter(newTestIssuer(t))

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("改ざんされたトークンの場合401が返ること", func(t *testing.T) {
		t.Parallel()

		issuer := newTestIssuer(t)
		st, err := issuer.Issue(7, "Ana", []string{"EMPLOYEE"})
		if err != nil {
			t.Fatalf("トークン発行に失敗: %v", err)
		}

		router := newProtectedRouter(issuer)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+st.Value[:len(st.Value)-2]+"xx")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("別の鍵で署名されたトークンの場合401が返ること", func(t *testing.T) {
		t.Parallel()

		otherSecret := base64.StdEncoding.EncodeToString([]byte("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"))
		other, err := token.New(otherSecret, time.Hour)
		if err != nil {
			t.Fatalf("別鍵の発行器生成に失敗: %v", err)
		}
		st, err := other.Issue(7, "Ana", []string{"EMPLOYEE"})
		if err != nil {
			t.Fatalf("トークン発行に失敗: %v", err)
		}

		router := newProtectedRouter(newTestIssuer(t))

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+st.Value)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}

// TestGetUserID はミドルウェア未適用時のフォールバックを検証する。
func TestGetUserID(t *testing.T) {
	t.Parallel()

	t.Run("クレーム未設定の場合はゼロ値を返すこと", func(t *testing.T) {
		t.Parallel()

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		if got := GetUserID(c); got != "" {
			t.Errorf("GetUserID() = %q, want empty string", got)
		}
		if got := GetName(c); got != "" {
			t.Errorf("GetName() = %q, want empty string", got)
		}
		if got := GetRoles(c); got != nil {
			t.Errorf("GetRoles() = %v, want nil", got)
		}
	})
}
