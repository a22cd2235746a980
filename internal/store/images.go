package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Images 管理 pfp/<username>.jpg 头像文件。
type Images struct {
	dir string
}

func NewImages(pfpDir string) *Images {
	return &Images{dir: pfpDir}
}

func (s *Images) path(username string) string {
	return filepath.Join(s.dir, username+".jpg")
}

// Save 用 r 的内容覆盖用户头像。
func (s *Images) Save(username string, r io.Reader) error {
	return writeFileAtomic(s.path(username), func(w io.Writer) error {
		_, err := io.Copy(w, r)
		return err
	})
}

// Open 打开头像目录下名为 name 的文件。调用方负责校验 name 是裸文件名。
func (s *Images) Open(name string) (*os.File, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", name, err)
	}
	return f, nil
}

// Delete 删除用户头像，文件不存在不算错误。
func (s *Images) Delete(username string) error {
	err := os.Remove(s.path(username))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image %s: %w", username, err)
	}
	return nil
}
