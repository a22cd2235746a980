package store

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// AllowLists 管理 chatrooms/<room>_allowed.txt，每行一个用户名。
type AllowLists struct {
	dir   string
	locks keyedMutex
}

func NewAllowLists(roomDir string) *AllowLists {
	return &AllowLists{dir: roomDir}
}

func (s *AllowLists) path(room string) string {
	return filepath.Join(s.dir, room+"_allowed.txt")
}

// Load 返回房间白名单；文件不存在时返回空切片，表示不受限。
func (s *AllowLists) Load(room string) ([]string, error) {
	p := s.path(room)
	unlock := s.locks.lock(p)
	defer unlock()

	f, err := openIfExists(p)
	if err != nil || f == nil {
		return nil, err
	}
	defer f.Close()

	var users []string
	err = readLines(f, func(line string) {
		if u := strings.TrimSpace(line); u != "" {
			users = append(users, u)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return users, nil
}

// Save 覆盖写入白名单。空列表也会写出一个空文件。
func (s *AllowLists) Save(room string, users []string) error {
	p := s.path(room)
	unlock := s.locks.lock(p)
	defer unlock()

	return writeFileAtomic(p, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		for _, u := range users {
			if _, err := bw.WriteString(u + "\n"); err != nil {
				return err
			}
		}
		return bw.Flush()
	})
}
