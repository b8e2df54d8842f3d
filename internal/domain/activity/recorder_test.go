package activity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"cashbook-go/pkg/logger"
)

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []Entry
	fail    bool
}

func (r *fakeActivityRepo) CreateEntry(ctx context.Context, entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("store down")
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeActivityRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]Entry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Entry, 0)
	for _, e := range r.entries {
		if e.AccountID == accountID {
			result = append(result, e)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeActivityRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "text")
}

func TestRecorderWritesEntries(t *testing.T) {
	repo := &fakeActivityRepo{}
	rec := NewRecorder(repo, testLogger(), 8)

	rec.Record(Entry{
		AccountID:        "acc-1",
		ActorUserID:      "user-1",
		ActorDisplayName: "Ana",
		Action:           ActionWeekLocked,
	})
	rec.Close()

	if repo.count() != 1 {
		t.Fatalf("expected 1 entry, got %d", repo.count())
	}
	got := repo.entries[0]
	if got.ID == "" {
		t.Error("expected generated id")
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at set")
	}
	if got.ActorDisplayName != "Ana" {
		t.Errorf("expected snapshot display name, got %q", got.ActorDisplayName)
	}
}

func TestRecorderNeverBlocksCaller(t *testing.T) {
	repo := &fakeActivityRepo{fail: true}
	rec := NewRecorder(repo, testLogger(), 1)
	defer rec.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			rec.Record(Entry{AccountID: "acc-1", ActorUserID: "u", Action: ActionExpenseCreated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked the caller")
	}
}

func TestRecorderRecordAfterCloseIsSafe(t *testing.T) {
	repo := &fakeActivityRepo{}
	rec := NewRecorder(repo, testLogger(), 4)
	rec.Close()

	// Must not panic.
	rec.Record(Entry{AccountID: "acc-1", ActorUserID: "u", Action: ActionExpenseCreated})
}

type fakeMemberChecker struct {
	members map[string]bool
}

func (c *fakeMemberChecker) IsMember(ctx context.Context, accountID, userID string) (bool, error) {
	return c.members[accountID+"/"+userID], nil
}

func TestListByAccountRequiresMembership(t *testing.T) {
	repo := &fakeActivityRepo{entries: []Entry{{AccountID: "acc-1", Action: ActionWeekCreated}}}
	svc := NewService(repo, &fakeMemberChecker{members: map[string]bool{"acc-1/user-1": true}})

	entries, total, err := svc.ListByAccount(context.Background(), "user-1", "acc-1", 0, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 1 || len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	_, _, err = svc.ListByAccount(context.Background(), "stranger", "acc-1", 0, 0)
	if !errors.Is(err, ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}
