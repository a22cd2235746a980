package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"flatchat/internal/auth"
	"flatchat/internal/config"
	"flatchat/internal/metrics"
	"flatchat/internal/models"
	"flatchat/internal/mw"
	"flatchat/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// 与旧版客户端约定的纯文本响应。
const (
	IncorrectPasswordText = "Incorrect password"
	NotAllowedText        = "You are not allowed in this chatroom."
	internalErrorText     = "internal error"
)

// Handler 聚合所有 HTTP handler，依赖注入 service 层。
type Handler struct {
	cfg   config.Config
	users *service.UserService
	rooms *service.RoomService
}

func NewHandler(cfg config.Config, users *service.UserService, rooms *service.RoomService) *Handler {
	return &Handler{cfg: cfg, users: users, rooms: rooms}
}

func (h *Handler) fail(c *gin.Context, err error, msg string) {
	log.Error().Err(err).Str("user", auth.GetUsername(c)).Str("request_id", mw.GetRequestID(c)).Msg(msg)
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, internalErrorText)
}

// Home 渲染首页，附带登录状态与房间列表。
func (h *Handler) Home(c *gin.Context) {
	rooms, err := h.rooms.List()
	if err != nil {
		log.Error().Err(err).Msg("list rooms")
	}
	c.HTML(http.StatusOK, "home.html", gin.H{"LoggedIn": auth.IsAuthenticated(c), "Rooms": rooms})
}

func (h *Handler) SignInUpForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signinup.html", nil)
}

// SignInUp 登录或自动注册。密码错误时返回纯文本且不改动当前会话。
func (h *Handler) SignInUp(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	created, err := h.users.SignInOrUp(username, password)
	switch {
	case errors.Is(err, service.ErrIncorrectPassword):
		metrics.SigninsTotal.WithLabelValues("incorrect_password").Inc()
		c.String(http.StatusOK, IncorrectPasswordText)
		return
	case errors.Is(err, service.ErrInvalidUsername), errors.Is(err, service.ErrInvalidPassword):
		metrics.SigninsTotal.WithLabelValues("invalid").Inc()
		c.String(http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.fail(c, err, "sign in")
		return
	}

	token, err := auth.NewSessionToken(username, h.cfg.SessionSecret, h.cfg.SessionTTL())
	if err != nil {
		h.fail(c, err, "sign in issue session")
		return
	}
	if created {
		metrics.SigninsTotal.WithLabelValues("created").Inc()
		log.Info().Str("username", username).Msg("account created")
	} else {
		metrics.SigninsTotal.WithLabelValues("ok").Inc()
	}
	auth.SetSession(c, token)
	c.Redirect(http.StatusFound, "/account/")
}

func (h *Handler) Account(c *gin.Context) {
	c.HTML(http.StatusOK, "account.html", gin.H{"Username": auth.GetUsername(c)})
}

// DeleteAccount 删除账号与头像并清空会话，这也是唯一的登出方式。
func (h *Handler) DeleteAccount(c *gin.Context) {
	username := auth.GetUsername(c)
	if err := h.users.Delete(username); err != nil {
		h.fail(c, err, "delete account")
		return
	}
	metrics.AccountsDeletedTotal.Inc()
	log.Info().Str("username", username).Msg("account deleted")
	auth.ClearSession(c)
	c.Redirect(http.StatusFound, "/")
}

// UploadImage 保存 .jpg 头像；其他扩展名被忽略，同样跳回账号页。
func (h *Handler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("pfp")
	if err != nil {
		c.String(http.StatusBadRequest, "missing pfp file")
		return
	}
	defer file.Close()

	username := auth.GetUsername(c)
	if err := h.users.UploadImage(username, header.Filename, file); err != nil {
		if !errors.Is(err, service.ErrInvalidImage) {
			h.fail(c, err, "upload image")
			return
		}
		log.Debug().Str("username", username).Str("filename", header.Filename).Msg("reject non-jpg upload")
	}
	c.Redirect(http.StatusFound, "/account/")
}

// ServeImage 直接返回头像目录中的文件，任何人都可访问。
func (h *Handler) ServeImage(c *gin.Context) {
	name := c.Param("filename")
	f, err := h.users.OpenImage(name)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilename) || errors.Is(err, fs.ErrNotExist) {
			c.Status(http.StatusNotFound)
			return
		}
		h.fail(c, err, "open image")
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		h.fail(c, err, "stat image")
		return
	}
	if st.IsDir() {
		c.Status(http.StatusNotFound)
		return
	}
	http.ServeContent(c.Writer, c.Request, name, st.ModTime(), f)
}

func (h *Handler) PublicRoom(c *gin.Context) {
	h.chatroom(c, service.PublicRoom)
}

func (h *Handler) Room(c *gin.Context) {
	h.chatroom(c, c.Param("roomname"))
}

// chatroom 处理房间的查看与发言：先做访问控制，POST 时追加消息，然后渲染全部历史。
func (h *Handler) chatroom(c *gin.Context, room string) {
	username := auth.GetUsername(c)

	if c.Request.Method == http.MethodPost {
		posted, err := h.rooms.Post(room, username, c.PostForm("message"))
		if err != nil {
			h.roomError(c, err, room, "post message")
			return
		}
		if posted {
			metrics.MessagesTotal.Inc()
		}
	}

	messages, err := h.rooms.History(room, username)
	if err != nil {
		h.roomError(c, err, room, "load messages")
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	c.HTML(http.StatusOK, "chat.html", gin.H{"Messages": messages, "Username": username, "Roomname": room})
}

func (h *Handler) roomError(c *gin.Context, err error, room, msg string) {
	switch {
	case errors.Is(err, service.ErrNotAllowed):
		c.String(http.StatusOK, NotAllowedText)
	case errors.Is(err, service.ErrInvalidRoomName):
		c.String(http.StatusNotFound, "room not found")
	default:
		h.fail(c, fmt.Errorf("room %s: %w", room, err), msg)
	}
}

func (h *Handler) CreateRoomForm(c *gin.Context) {
	c.HTML(http.StatusOK, "create.html", nil)
}

// CreateRoom 创建房间并写入白名单，成功后跳转到新房间。房间名为空时重新显示表单。
func (h *Handler) CreateRoom(c *gin.Context) {
	room := strings.TrimSpace(c.PostForm("roomname"))
	allowed := service.ParseAllowed(c.PostForm("allowed"))
	if room == "" {
		c.HTML(http.StatusOK, "create.html", nil)
		return
	}
	if err := h.rooms.Create(room, allowed); err != nil {
		if errors.Is(err, service.ErrInvalidRoomName) {
			c.String(http.StatusBadRequest, "invalid room name")
			return
		}
		h.fail(c, err, "create room")
		return
	}
	metrics.RoomsCreatedTotal.Inc()
	log.Info().Str("room", room).Str("by", auth.GetUsername(c)).Strs("allowed", allowed).Msg("room created")
	c.Redirect(http.StatusFound, "/room/"+url.PathEscape(room)+"/")
}
