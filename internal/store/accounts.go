package store

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const accountsFile = "accounts.txt"

// Accounts 管理 username:password 行格式的账号文件。
type Accounts struct {
	path string
	mu   sync.Mutex
}

func NewAccounts(dataDir string) *Accounts {
	return &Accounts{path: filepath.Join(dataDir, accountsFile)}
}

// Path 返回账号文件路径。
func (a *Accounts) Path() string { return a.path }

// Load 读取全部账号。文件不存在视为空；没有冒号的行被跳过。
func (a *Accounts) Load() (map[string]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.load()
}

// Save 用给定映射整体覆盖账号文件。
func (a *Accounts) Save(accounts map[string]string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.save(accounts)
}

// GetOrCreate 返回已存储的密码；用户名未知时以 password 注册新账号并返回 created=true。
func (a *Accounts) GetOrCreate(username, password string) (string, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	accounts, err := a.load()
	if err != nil {
		return "", false, err
	}
	if stored, ok := accounts[username]; ok {
		return stored, false, nil
	}
	accounts[username] = password
	if err := a.save(accounts); err != nil {
		return "", false, err
	}
	return password, true, nil
}

// Delete 删除账号，返回该账号此前是否存在。重复删除是无操作。
func (a *Accounts) Delete(username string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	accounts, err := a.load()
	if err != nil {
		return false, err
	}
	if _, ok := accounts[username]; !ok {
		return false, nil
	}
	delete(accounts, username)
	return true, a.save(accounts)
}

func (a *Accounts) load() (map[string]string, error) {
	accounts := make(map[string]string)
	f, err := openIfExists(a.path)
	if err != nil || f == nil {
		return accounts, err
	}
	defer f.Close()

	err = readLines(f, func(line string) {
		if user, pwd, ok := strings.Cut(line, ":"); ok {
			accounts[user] = pwd
		}
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.path, err)
	}
	return accounts, nil
}

func (a *Accounts) save(accounts map[string]string) error {
	users := make([]string, 0, len(accounts))
	for u := range accounts {
		users = append(users, u)
	}
	sort.Strings(users)
	return writeFileAtomic(a.path, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		for _, u := range users {
			if _, err := fmt.Fprintf(bw, "%s:%s\n", u, accounts[u]); err != nil {
				return err
			}
		}
		return bw.Flush()
	})
}
