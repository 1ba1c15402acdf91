package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// issuerName はトークンのiss（発行者）クレームに設定する値。
const issuerName = "connectrh-bff"

// minKeyBytes はHS256署名鍵として許容する最小バイト長。
const minKeyBytes = 32

// Claims はBFFが発行するJWTのクレーム（ペイロード）を表す。
// Subject（sub）にはユーザーIDの10進文字列表現を設定する。
type Claims struct {
	jwt.RegisteredClaims
	// Name はユーザーの表示名。
	Name string `json:"name"`
	// Roles はユーザーに付与されたロール。順序に意味はなく、
	// 利用側は集合として扱うこと。
	Roles []string `json:"roles"`
}

// SessionToken は発行済みのセッショントークンを表す。発行後は不変。
type SessionToken struct {
	// Value は署名済みJWT文字列。
	Value string
	// IssuedAt はトークンの発行日時。
	IssuedAt time.Time
	// ExpiresAt はトークンの有効期限。IssuedAt + TTLに等しい。
	ExpiresAt time.Time
}

// Issuer はセッショントークンの発行器。
// 署名鍵とTTLは生成時に検証済みであり、以降は変更されない。
type Issuer struct {
	// key はHS256署名に使用する共通鍵。
	key []byte
	// ttl はトークンの有効期間。
	ttl time.Duration
	// now は現在時刻の取得関数。テストで差し替える。
	now func() time.Time
}

// New はトークン発行器を生成する。
// secretはBase64エンコードされた署名鍵で、デコード後32バイト以上であること。
// ttlは正の値であること。いずれの違反も起動時の設定エラーとして扱う。
func New(secret string, ttl time.Duration) (*Issuer, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("署名鍵のBase64デコードに失敗: %w", err)
	}
	if len(key) < minKeyBytes {
		return nil, fmt.Errorf("署名鍵が短すぎます: %dバイト（最低%dバイト必要）", len(key), minKeyBytes)
	}
	if ttl <= 0 {
		return nil, errors.New("トークンTTLは正の値である必要があります")
	}
	return &Issuer{
		key: key,
		ttl: ttl,
		now: time.Now,
	}, nil
}

// TTL は設定されたトークンの有効期間を返す。
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue はCore Serviceで検証済みのユーザー情報からセッショントークンを発行する。
// クレームには sub（ユーザーIDの文字列表現）・name・roles を含める。
func (i *Issuer) Issue(userID int64, name string, roles []string) (*SessionToken, error) {
	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    issuerName,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Name:  name,
		Roles: roles,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return nil, fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return &SessionToken{
		Value:     signed,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Parse は署名済みトークン文字列を検証し、クレームを返す。
// 署名不一致・有効期限切れ・HS256以外のアルゴリズムはエラーとなる。
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return i.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("トークンの検証に失敗: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("トークンが無効です")
	}
	return claims, nil
}
