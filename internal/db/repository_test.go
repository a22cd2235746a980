package db

import (
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"flatchat/internal/models"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := Connect(DriverSQLite, filepath.Join(t.TempDir(), "chat.db"))
	if err != nil {
		t.Skipf("skip: sqlite not available: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Skipf("skip: migrate failed: %v", err)
	}
	t.Cleanup(func() { _ = Close(gdb) })
	return gdb
}

func TestConnect_UnknownDriver(t *testing.T) {
	if _, err := Connect("mysql", "dsn"); err == nil {
		t.Error("Connect() with unknown driver should fail")
	}
}

func TestAccountRepo(t *testing.T) {
	repo := NewAccountRepo(openTestDB(t))

	stored, created, err := repo.GetOrCreate("alice", "pw1")
	if err != nil || !created || stored != "pw1" {
		t.Fatalf("GetOrCreate() = (%q, %v, %v)", stored, created, err)
	}
	stored, created, err = repo.GetOrCreate("alice", "wrong")
	if err != nil || created || stored != "pw1" {
		t.Fatalf("GetOrCreate() existing = (%q, %v, %v)", stored, created, err)
	}

	want := map[string]string{"bob": "b", "carol": "c"}
	if err := repo.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %v, want %v", got, want)
	}

	existed, err := repo.Delete("bob")
	if err != nil || !existed {
		t.Fatalf("Delete() = (%v, %v)", existed, err)
	}
	existed, err = repo.Delete("bob")
	if err != nil || existed {
		t.Fatalf("second Delete() = (%v, %v)", existed, err)
	}
}

func TestAllowListRepo(t *testing.T) {
	repo := NewAllowListRepo(openTestDB(t))

	got, err := repo.Load("team")
	if err != nil || len(got) != 0 {
		t.Fatalf("Load() empty = (%v, %v)", got, err)
	}
	if err := repo.Save("team", []string{"bob", "alice"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save("other", []string{"zed"}); err != nil {
		t.Fatal(err)
	}
	got, err = repo.Load("team")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"bob", "alice"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %v, want %v", got, want)
	}
	if err := repo.Save("team", []string{"carol"}); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.Load("team")
	if want := []string{"carol"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Load() after overwrite = %v, want %v", got, want)
	}
}

func TestMessageRepo(t *testing.T) {
	repo := NewMessageRepo(openTestDB(t))

	rooms, err := repo.Rooms()
	if err != nil || len(rooms) != 0 {
		t.Fatalf("Rooms() before append = (%v, %v)", rooms, err)
	}
	for i := 0; i < 5; i++ {
		msg := models.Message{Timestamp: "2024-01-02 03:04:05", Username: "alice", Text: fmt.Sprintf("m%d", i)}
		if err := repo.Append("public", msg); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	if err := repo.Ensure("team"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Ensure("team"); err != nil {
		t.Fatalf("second Ensure() error = %v", err)
	}

	msgs, err := repo.Load("public")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 5 {
		t.Fatalf("Load() returned %d messages, want 5", len(msgs))
	}
	for i, m := range msgs {
		if m.Text != fmt.Sprintf("m%d", i) {
			t.Errorf("message %d = %q", i, m.Text)
		}
	}

	rooms, err = repo.Rooms()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"public", "team"}; !reflect.DeepEqual(rooms, want) {
		t.Errorf("Rooms() = %v, want %v", rooms, want)
	}
}
