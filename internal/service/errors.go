package service

import "errors"

// 业务层通用错误，handler 可根据错误类型映射到合适的响应。
var (
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrNotAllowed        = errors.New("not allowed in this chatroom")
	ErrInvalidRoomName   = errors.New("invalid room name")
	ErrInvalidImage      = errors.New("profile picture must be a .jpg file")
	ErrInvalidFilename   = errors.New("invalid filename")
)
