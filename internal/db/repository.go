package db

import (
	"errors"

	"flatchat/internal/models"

	"gorm.io/gorm"
)

// AccountRepo 以 accounts 表实现账号存储。
type AccountRepo struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) *AccountRepo { return &AccountRepo{db: db} }

func (r *AccountRepo) Load() (map[string]string, error) {
	var rows []models.Account
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, a := range rows {
		out[a.Username] = a.Password
	}
	return out, nil
}

// Save 在一个事务内用 accounts 替换整张表。
func (r *AccountRepo) Save(accounts map[string]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Account{}).Error; err != nil {
			return err
		}
		for u, p := range accounts {
			if err := tx.Create(&models.Account{Username: u, Password: p}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AccountRepo) GetOrCreate(username, password string) (string, bool, error) {
	var (
		stored  string
		created bool
	)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var acc models.Account
		err := tx.Where("username = ?", username).First(&acc).Error
		if err == nil {
			stored = acc.Password
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(&models.Account{Username: username, Password: password}).Error; err != nil {
			return err
		}
		stored, created = password, true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return stored, created, nil
}

func (r *AccountRepo) Delete(username string) (bool, error) {
	res := r.db.Delete(&models.Account{}, "username = ?", username)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AllowListRepo 以 allowed_users 表实现房间白名单。
type AllowListRepo struct {
	db *gorm.DB
}

func NewAllowListRepo(db *gorm.DB) *AllowListRepo { return &AllowListRepo{db: db} }

func (r *AllowListRepo) Load(room string) ([]string, error) {
	var users []string
	err := r.db.Model(&models.AllowedUser{}).Where("room = ?", room).Order("id asc").Pluck("username", &users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *AllowListRepo) Save(room string, users []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room = ?", room).Delete(&models.AllowedUser{}).Error; err != nil {
			return err
		}
		for _, u := range users {
			if err := tx.Create(&models.AllowedUser{Room: room, Username: u}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// MessageRepo 以 rooms/messages 表实现消息日志。
type MessageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) *MessageRepo { return &MessageRepo{db: db} }

func (r *MessageRepo) Append(room string, msg models.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureRoom(tx, room); err != nil {
			return err
		}
		msg.ID = 0
		msg.Room = room
		return tx.Create(&msg).Error
	})
}

func (r *MessageRepo) Load(room string) ([]models.Message, error) {
	var msgs []models.Message
	if err := r.db.Where("room = ?", room).Order("id asc").Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *MessageRepo) Ensure(room string) error {
	return ensureRoom(r.db, room)
}

func (r *MessageRepo) Rooms() ([]string, error) {
	var names []string
	if err := r.db.Model(&models.Room{}).Order("name asc").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func ensureRoom(tx *gorm.DB, room string) error {
	var rm models.Room
	return tx.Where(models.Room{Name: room}).FirstOrCreate(&rm).Error
}
