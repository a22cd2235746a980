package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName 是保存会话令牌的 cookie 名。
const CookieName = "session"

const usernameKey = "username"

type Claims struct {
	jwt.RegisteredClaims
}

// NewSessionToken 为 username 签发 HS256 会话令牌，subject 即用户名。
func NewSessionToken(username, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken 校验签名与过期时间，返回令牌中的用户名。
func ParseSessionToken(tokenStr, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid session token")
	}
	return claims.Subject, nil
}

// SetSession 写入会话 cookie。不设置 Max-Age，生命周期跟随浏览器会话。
func SetSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, 0, "/", "", false, true)
}

// ClearSession 让浏览器立即丢弃会话 cookie。
func ClearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	delete(c.Keys, usernameKey)
}

func SetUsername(c *gin.Context, username string) {
	c.Set(usernameKey, username)
}

// GetUsername 返回当前请求的登录用户名，匿名请求返回空串。
func GetUsername(c *gin.Context) string {
	if v, ok := c.Get(usernameKey); ok {
		if u, ok2 := v.(string); ok2 {
			return u
		}
	}
	return ""
}

func IsAuthenticated(c *gin.Context) bool {
	return GetUsername(c) != ""
}
