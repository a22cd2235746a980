package mw

import (
	"net/http"

	"flatchat/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SignInPath 是未登录用户被重定向到的页面。
const SignInPath = "/account/signinup"

// Session 从会话 cookie 解析当前用户并放入请求上下文；无效 cookie 按匿名处理。
func Session(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err == nil && token != "" {
			username, err := auth.ParseSessionToken(token, secret)
			if err != nil {
				log.Debug().Err(err).Str("request_id", GetRequestID(c)).Msg("ignore invalid session cookie")
			} else {
				auth.SetUsername(c, username)
			}
		}
		c.Next()
	}
}

// RequireUser 把匿名请求重定向到登录/注册页，而不是返回错误状态码。
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.IsAuthenticated(c) {
			c.Redirect(http.StatusFound, SignInPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
