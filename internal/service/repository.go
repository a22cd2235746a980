package service

import (
	"io"
	"os"

	"flatchat/internal/models"
)

// AccountRepository 是账号存储的抽象，文件后端与 gorm 后端都实现它。
type AccountRepository interface {
	Load() (map[string]string, error)
	Save(accounts map[string]string) error
	// GetOrCreate 返回已存储的密码；用户名未知时注册并返回 created=true。
	GetOrCreate(username, password string) (stored string, created bool, err error)
	Delete(username string) (existed bool, err error)
}

type AllowListRepository interface {
	Load(room string) ([]string, error)
	Save(room string, users []string) error
}

type MessageRepository interface {
	Append(room string, msg models.Message) error
	Load(room string) ([]models.Message, error)
	Ensure(room string) error
	Rooms() ([]string, error)
}

type ImageRepository interface {
	Save(username string, r io.Reader) error
	Open(name string) (*os.File, error)
	Delete(username string) error
}
