package service

import (
	"slices"
	"strings"
	"time"

	"flatchat/internal/models"
)

// PublicRoom 是 /public/ 路由对应的房间名。
const PublicRoom = "public"

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// RoomService 封装房间访问控制、消息读写与房间创建。
type RoomService struct {
	allowed  AllowListRepository
	messages MessageRepository
	now      func() time.Time
}

func NewRoomService(allowed AllowListRepository, messages MessageRepository) *RoomService {
	return &RoomService{allowed: allowed, messages: messages, now: time.Now}
}

// ValidateRoomName 房间名会直接作为文件名使用，必须是安全的单段名称。
func ValidateRoomName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return ErrInvalidRoomName
	case strings.ContainsAny(name, "/\\\x00\r\n"):
		return ErrInvalidRoomName
	case strings.HasPrefix(name, "."), strings.HasSuffix(name, "_allowed"):
		return ErrInvalidRoomName
	case len(name) > 128:
		return ErrInvalidRoomName
	}
	return nil
}

// ParseAllowed 把逗号分隔的用户名列表拆开，去掉空白项。
func ParseAllowed(csv string) []string {
	var users []string
	for _, u := range strings.Split(csv, ",") {
		if u = strings.TrimSpace(u); u != "" {
			users = append(users, u)
		}
	}
	return users
}

// CanAccess 白名单为空表示房间公开；否则只有名单内的用户可以查看和发言。
func (s *RoomService) CanAccess(room, username string) (bool, error) {
	if err := ValidateRoomName(room); err != nil {
		return false, err
	}
	allowed, err := s.allowed.Load(room)
	if err != nil {
		return false, err
	}
	return len(allowed) == 0 || slices.Contains(allowed, username), nil
}

// Post 向房间追加一条消息。空白消息被静默忽略，返回 posted=false。
func (s *RoomService) Post(room, username, text string) (posted bool, err error) {
	ok, err := s.CanAccess(room, username)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrNotAllowed
	}
	if strings.TrimSpace(text) == "" {
		return false, nil
	}
	msg := models.Message{
		Room:      room,
		Timestamp: s.now().Format(models.TimeLayout),
		Username:  username,
		Text:      lineBreaks.Replace(text),
	}
	if err := s.messages.Append(room, msg); err != nil {
		return false, err
	}
	return true, nil
}

// History 返回房间全部消息，按时间先后排列。
func (s *RoomService) History(room, username string) ([]models.Message, error) {
	ok, err := s.CanAccess(room, username)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAllowed
	}
	return s.messages.Load(room)
}

// Create 确保房间日志存在并写入白名单；白名单为空时同样写出，表示不受限。
func (s *RoomService) Create(room string, allowed []string) error {
	if err := ValidateRoomName(room); err != nil {
		return err
	}
	if err := s.messages.Ensure(room); err != nil {
		return err
	}
	return s.allowed.Save(room, allowed)
}

// List 返回所有已存在的房间名。
func (s *RoomService) List() ([]string, error) {
	return s.messages.Rooms()
}
