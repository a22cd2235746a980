package server

import (
	"embed"
	"html/template"
	"net/http"

	"flatchat/internal/config"
	"flatchat/internal/metrics"
	"flatchat/internal/mw"
	"flatchat/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templateFS embed.FS

func loadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// SetupRouter 统一初始化 Gin 中间件、页面路由以及运维端点。
func SetupRouter(cfg config.Config, users *service.UserService, rooms *service.RoomService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestID())
	r.Use(mw.AccessLog())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.Session(cfg.SessionSecret))
	r.SetHTMLTemplate(loadTemplates())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := NewHandler(cfg, users, rooms)

	r.GET("/", h.Home)
	r.GET("/account/signinup", h.SignInUpForm)
	r.POST("/account/signinup", h.SignInUp)
	// 头像公开可读，不做身份校验。
	r.GET("/pfp/:filename", h.ServeImage)

	// 以下页面需要登录，匿名访问会被重定向到登录页。
	authed := r.Group("")
	authed.Use(mw.RequireUser())

	authed.GET("/account/", h.Account)
	authed.GET("/account/delete", h.DeleteAccount)
	authed.POST("/account/upload", h.UploadImage)

	authed.GET("/public/", h.PublicRoom)
	authed.POST("/public/", h.PublicRoom)
	authed.GET("/room/:roomname/", h.Room)
	authed.POST("/room/:roomname/", h.Room)

	authed.GET("/create/", h.CreateRoomForm)
	authed.POST("/create/", h.CreateRoom)

	return r
}
