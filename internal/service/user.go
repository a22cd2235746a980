package service

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// UserService 封装账号与头像相关的业务逻辑。
type UserService struct {
	accounts AccountRepository
	images   ImageRepository
}

func NewUserService(accounts AccountRepository, images ImageRepository) *UserService {
	return &UserService{accounts: accounts, images: images}
}

// MaxUsernameLen 与数据库后端 username 列的长度一致。
const MaxUsernameLen = 64

// ValidateUsername 做最基本的检查：用户名会作为文件名和记录字段使用。
// 首尾带空白的用户名也拒绝，否则 "bob " 与白名单里的 "bob" 对不上。
func ValidateUsername(username string) error {
	if username == "" || len(username) > MaxUsernameLen || username != strings.TrimSpace(username) {
		return ErrInvalidUsername
	}
	if strings.ContainsAny(username, ":|/\\\r\n") || username == "." || username == ".." {
		return ErrInvalidUsername
	}
	return nil
}

// SignInOrUp 登录已有账号，或在用户名未知时自动注册。密码区分大小写、精确匹配。
func (s *UserService) SignInOrUp(username, password string) (created bool, err error) {
	if err := ValidateUsername(username); err != nil {
		return false, err
	}
	if strings.ContainsAny(password, "\r\n") {
		return false, ErrInvalidPassword
	}
	stored, created, err := s.accounts.GetOrCreate(username, password)
	if err != nil {
		return false, err
	}
	if stored != password {
		return false, ErrIncorrectPassword
	}
	return created, nil
}

// Delete 删除账号及其头像。账号不存在时不报错。
func (s *UserService) Delete(username string) error {
	if _, err := s.accounts.Delete(username); err != nil {
		return err
	}
	return s.images.Delete(username)
}

// UploadImage 保存用户头像；只接受扩展名为 .jpg（不区分大小写）的文件。
func (s *UserService) UploadImage(username, filename string, r io.Reader) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".jpg") {
		return ErrInvalidImage
	}
	return s.images.Save(username, r)
}

// OpenImage 打开头像目录下的文件。name 必须是不含路径分隔符的文件名。
func (s *UserService) OpenImage(name string) (*os.File, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") || filepath.Base(name) != name {
		return nil, ErrInvalidFilename
	}
	return s.images.Open(name)
}
