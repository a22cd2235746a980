package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"flatchat/internal/models"

	"github.com/rs/zerolog/log"
)

const (
	logSuffix     = ".txt"
	allowedSuffix = "_allowed.txt"
)

// Messages 管理 chatrooms/<room>.txt 追加式消息日志。
type Messages struct {
	dir   string
	locks keyedMutex
}

func NewMessages(roomDir string) *Messages {
	return &Messages{dir: roomDir}
}

func (s *Messages) path(room string) string {
	return filepath.Join(s.dir, room+logSuffix)
}

// Append 在房间日志末尾追加一行 timestamp|username|text，文件不存在时创建。
func (s *Messages) Append(room string, msg models.Message) error {
	p := s.path(room)
	unlock := s.locks.lock(p)
	defer unlock()

	f, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", p, err)
	}
	line := msg.Timestamp + "|" + msg.Username + "|" + msg.Text + "\n"
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", p, err)
	}
	return f.Close()
}

// Load 按文件顺序读取房间全部消息。每行只按前两个 | 切分，其余部分保留在正文中；
// 分隔符不足的行记录警告后跳过。
func (s *Messages) Load(room string) ([]models.Message, error) {
	p := s.path(room)
	unlock := s.locks.lock(p)
	defer unlock()

	f, err := openIfExists(p)
	if err != nil || f == nil {
		return nil, err
	}
	defer f.Close()

	var msgs []models.Message
	lineNo := 0
	err = readLines(f, func(line string) {
		lineNo++
		if line == "" {
			return
		}
		parts := strings.SplitN(line, "|", 3)
		if len(parts) != 3 {
			log.Warn().Str("room", room).Int("line", lineNo).Msg("skip malformed message record")
			return
		}
		msgs = append(msgs, models.Message{Room: room, Timestamp: parts[0], Username: parts[1], Text: parts[2]})
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return msgs, nil
}

// Ensure 在日志文件不存在时创建空文件，已有内容保持不变。
func (s *Messages) Ensure(room string) error {
	p := s.path(room)
	unlock := s.locks.lock(p)
	defer unlock()

	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", p, err)
	}
	return f.Close()
}

// Rooms 列出目录下所有房间名，按字母序。
func (s *Messages) Rooms() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", s.dir, err)
	}
	var rooms []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasSuffix(name, allowedSuffix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}
		rooms = append(rooms, strings.TrimSuffix(name, logSuffix))
	}
	sort.Strings(rooms)
	return rooms, nil
}
