package main

import (
	"fmt"

	"flatchat/internal/config"
	"flatchat/internal/db"
	"flatchat/internal/service"
	"flatchat/internal/store"
)

type backend struct {
	accounts service.AccountRepository
	allowed  service.AllowListRepository
	messages service.MessageRepository
	images   service.ImageRepository
	close    func() error
}

// openBackend 按 STORE_DRIVER 选择平面文件或 gorm 存储。头像始终保存在磁盘上。
func openBackend(cfg config.Config) (*backend, error) {
	if err := store.EnsureDirs(cfg.PfpDir); err != nil {
		return nil, err
	}
	b := &backend{images: store.NewImages(cfg.PfpDir), close: func() error { return nil }}

	switch cfg.StoreDriver {
	case config.StoreFile:
		if err := store.EnsureDirs(cfg.DataDir, cfg.ChatroomDir); err != nil {
			return nil, err
		}
		b.accounts = store.NewAccounts(cfg.DataDir)
		b.allowed = store.NewAllowLists(cfg.ChatroomDir)
		b.messages = store.NewMessages(cfg.ChatroomDir)
	case config.StorePostgres, config.StoreSQLite:
		gdb, err := db.Connect(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if err := db.Migrate(gdb); err != nil {
			return nil, fmt.Errorf("db migrate: %w", err)
		}
		b.accounts = db.NewAccountRepo(gdb)
		b.allowed = db.NewAllowListRepo(gdb)
		b.messages = db.NewMessageRepo(gdb)
		b.close = func() error { return db.Close(gdb) }
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	return b, nil
}
