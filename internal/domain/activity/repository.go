package activity

import "context"

type Repository interface {
	CreateEntry(ctx context.Context, entry *Entry) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]Entry, int64, error)
}
