package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/connectrh/bff/pkg/token"
)

// コンテキストに設定するキー。JWTAuth適用後のハンドラから参照する。
const (
	contextKeyUserID = "user_id"
	contextKeyName   = "name"
	contextKeyRoles  = "roles"
)

// JWTAuth はBearerトークンを検証するGinミドルウェアを返す。
// 検証に成功した場合、コンテキストにユーザーID・名前・ロールを設定する。
// ログイン・登録・ヘルスチェック以外の保護ルートはすべてこのミドルウェアで守る。
func JWTAuth(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorizationヘッダーが必要です",
			})
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Bearer トークン形式が不正です",
			})
			return
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "トークンが無効です",
			})
			return
		}

		c.Set(contextKeyUserID, claims.Subject)
		c.Set(contextKeyName, claims.Name)
		c.Set(contextKeyRoles, claims.Roles)
		c.Next()
	}
}

// GetUserID はGinコンテキストからユーザーID（subクレーム）を取得する。
// JWTAuthミドルウェアが事前に適用されている必要がある。
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get(contextKeyUserID)
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetName はGinコンテキストからユーザーの表示名を取得する。
func GetName(c *gin.Context) string {
	name, _ := c.Get(contextKeyName)
	if n, ok := name.(string); ok {
		return n
	}
	return ""
}

// GetRoles はGinコンテキストからユーザーのロールを取得する。
// 順序に意味はなく、集合として扱うこと。
func GetRoles(c *gin.Context) []string {
	roles, _ := c.Get(contextKeyRoles)
	if r, ok := roles.([]string); ok {
		return r
	}
	return nil
}
