package service

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"flatchat/internal/store"
)

func newRoomService(t *testing.T) (*RoomService, string) {
	t.Helper()
	dir := t.TempDir()
	return NewRoomService(store.NewAllowLists(dir), store.NewMessages(dir)), dir
}

func TestValidateRoomName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"public", false},
		{"team-1", false},
		{"with space", false},
		{"", true},
		{".", true},
		{"..", true},
		{"../etc", true},
		{"a/b", true},
		{`a\b`, true},
		{".hidden", true},
		{"team_allowed", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoomName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRoomName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestParseAllowed(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"bob", []string{"bob"}},
		{" bob , alice,,carol ", []string{"bob", "alice", "carol"}},
	}
	for _, tt := range tests {
		if got := ParseAllowed(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseAllowed(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPostAndHistory_Unrestricted(t *testing.T) {
	svc, _ := newRoomService(t)
	users := []string{"alice", "bob", "carol"}
	for _, u := range users {
		posted, err := svc.Post(PublicRoom, u, "hi from "+u)
		if err != nil || !posted {
			t.Fatalf("Post(%s) = (%v, %v)", u, posted, err)
		}
	}
	for _, u := range users {
		msgs, err := svc.History(PublicRoom, u)
		if err != nil {
			t.Fatalf("History(%s) error = %v", u, err)
		}
		if len(msgs) != len(users) {
			t.Errorf("History(%s) len = %d, want %d", u, len(msgs), len(users))
		}
	}
}

func TestPostAndHistory_LongMessage(t *testing.T) {
	svc, _ := newRoomService(t)
	long := strings.Repeat("z", 2*1024*1024)
	for _, text := range []string{long, "short"} {
		if _, err := svc.Post(PublicRoom, "alice", text); err != nil {
			t.Fatalf("Post() error = %v", err)
		}
	}
	msgs, err := svc.History(PublicRoom, "alice")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(msgs) != 2 || msgs[0].Text != long || msgs[1].Text != "short" {
		t.Errorf("History() returned %d messages", len(msgs))
	}
}

func TestPostAndHistory_Restricted(t *testing.T) {
	svc, _ := newRoomService(t)
	if err := svc.Create("team", []string{"bob"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Post("team", "bob", "secret plan"); err != nil {
		t.Fatalf("Post(bob) error = %v", err)
	}

	if _, err := svc.Post("team", "carol", "let me in"); !errors.Is(err, ErrNotAllowed) {
		t.Errorf("Post(carol) error = %v, want ErrNotAllowed", err)
	}
	msgs, err := svc.History("team", "carol")
	if !errors.Is(err, ErrNotAllowed) {
		t.Errorf("History(carol) error = %v, want ErrNotAllowed", err)
	}
	if msgs != nil {
		t.Errorf("History(carol) leaked %v", msgs)
	}

	msgs, err = svc.History("team", "bob")
	if err != nil || len(msgs) != 1 || msgs[0].Text != "secret plan" {
		t.Errorf("History(bob) = (%v, %v)", msgs, err)
	}
}

func TestPost_TimestampAndOrder(t *testing.T) {
	svc, _ := newRoomService(t)
	base := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
	i := 0
	svc.now = func() time.Time {
		i++
		return base.Add(time.Duration(i) * time.Second)
	}

	const n = 10
	for k := 0; k < n; k++ {
		if _, err := svc.Post("r", "alice", "msg"); err != nil {
			t.Fatal(err)
		}
	}
	msgs, err := svc.History("r", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != n {
		t.Fatalf("History() len = %d, want %d", len(msgs), n)
	}
	layout := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)
	for k, m := range msgs {
		if !layout.MatchString(m.Timestamp) {
			t.Errorf("timestamp %q does not match YYYY-MM-DD HH:MM:SS", m.Timestamp)
		}
		want := base.Add(time.Duration(k+1) * time.Second).Format("2006-01-02 15:04:05")
		if m.Timestamp != want {
			t.Errorf("message %d timestamp = %s, want %s", k, m.Timestamp, want)
		}
	}
}

func TestPost_BlankMessageLeavesLogUnchanged(t *testing.T) {
	svc, dir := newRoomService(t)
	if _, err := svc.Post("r", "alice", "first"); err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(dir, "r.txt")
	before, _ := os.ReadFile(logPath)

	for _, text := range []string{"", " ", "\t\n  "} {
		posted, err := svc.Post("r", "alice", text)
		if err != nil || posted {
			t.Errorf("Post(%q) = (%v, %v), want (false, nil)", text, posted, err)
		}
	}
	after, _ := os.ReadFile(logPath)
	if !bytes.Equal(before, after) {
		t.Errorf("log changed: %q -> %q", before, after)
	}

	if _, err := svc.Post("empty", "alice", "   "); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "empty.txt")); !os.IsNotExist(err) {
		t.Error("blank post created a room log")
	}
}

func TestPost_FoldsLineBreaks(t *testing.T) {
	svc, _ := newRoomService(t)
	if _, err := svc.Post("r", "alice", "line one\r\nline two\nthree"); err != nil {
		t.Fatal(err)
	}
	msgs, _ := svc.History("r", "alice")
	if len(msgs) != 1 || msgs[0].Text != "line one line two three" {
		t.Errorf("History() = %+v", msgs)
	}
}

func TestCreateAndList(t *testing.T) {
	svc, dir := newRoomService(t)
	if err := svc.Create("open", nil); err != nil {
		t.Fatalf("Create(open) error = %v", err)
	}
	if err := svc.Create("team", []string{"bob"}); err != nil {
		t.Fatalf("Create(team) error = %v", err)
	}
	if err := svc.Create("../escape", nil); !errors.Is(err, ErrInvalidRoomName) {
		t.Errorf("Create(../escape) error = %v, want ErrInvalidRoomName", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "open_allowed.txt")); err != nil {
		t.Errorf("allow-list file not written for open room: %v", err)
	}
	ok, err := svc.CanAccess("open", "anyone")
	if err != nil || !ok {
		t.Errorf("CanAccess(open) = (%v, %v), want true", ok, err)
	}

	rooms, err := svc.List()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"open", "team"}; !reflect.DeepEqual(rooms, want) {
		t.Errorf("List() = %v, want %v", rooms, want)
	}
}
