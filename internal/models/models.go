package models

import "time"

// TimeLayout 是消息时间戳在日志文件和页面上的格式。
const TimeLayout = "2006-01-02 15:04:05"

type Account struct {
	Username  string `gorm:"primaryKey;size:64"`
	Password  string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AllowedUser struct {
	ID       uint   `gorm:"primaryKey"`
	Room     string `gorm:"index:idx_allowed_room;size:128;not null"`
	Username string `gorm:"size:64;not null"`
}

// Room 只在 SQL 后端中显式存在；文件后端用日志文件本身表示房间。
type Room struct {
	Name      string `gorm:"primaryKey;size:128"`
	CreatedAt time.Time
}

// Message 对应日志文件中的一行 timestamp|username|text。
type Message struct {
	ID        uint   `gorm:"primaryKey"`
	Room      string `gorm:"index:idx_msg_room;size:128;not null"`
	Timestamp string `gorm:"size:19;not null"`
	Username  string `gorm:"size:64;not null"`
	Text      string `gorm:"type:text;not null"`
}
