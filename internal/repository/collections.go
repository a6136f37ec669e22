package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hostel-sentinel/internal/models"
	"hostel-sentinel/internal/store"
)

// Collection key suffixes. The prefix is configurable so several deployments
// can share one Redis.
const (
	roomsKey  = "rooms"
	issuesKey = "issues"
	userKey   = "current-user"
)

// RoomsRepo persists the full room roster as one JSON document.
// No partial update contract: callers always load and save the whole list.
type RoomsRepo struct {
	kv     store.KV
	prefix string
}

func NewRoomsRepo(kv store.KV, prefix string) *RoomsRepo {
	return &RoomsRepo{kv: kv, prefix: prefix}
}

func (r *RoomsRepo) LoadAll(ctx context.Context) ([]models.Room, error) {
	return loadDoc[models.Room](ctx, r.kv, r.prefix+roomsKey)
}

func (r *RoomsRepo) SaveAll(ctx context.Context, rooms []models.Room) error {
	return saveDoc(ctx, r.kv, r.prefix+roomsKey, rooms)
}

// IssuesRepo persists the issue history (open and resolved) as one document.
type IssuesRepo struct {
	kv     store.KV
	prefix string
}

func NewIssuesRepo(kv store.KV, prefix string) *IssuesRepo {
	return &IssuesRepo{kv: kv, prefix: prefix}
}

func (r *IssuesRepo) LoadAll(ctx context.Context) ([]models.Issue, error) {
	return loadDoc[models.Issue](ctx, r.kv, r.prefix+issuesKey)
}

func (r *IssuesRepo) SaveAll(ctx context.Context, issues []models.Issue) error {
	return saveDoc(ctx, r.kv, r.prefix+issuesKey, issues)
}

// UserRepo holds the current-user record.
type UserRepo struct {
	kv     store.KV
	prefix string
}

func NewUserRepo(kv store.KV, prefix string) *UserRepo {
	return &UserRepo{kv: kv, prefix: prefix}
}

// Load returns (nil, nil) when no user is stored.
func (r *UserRepo) Load(ctx context.Context) (*models.User, error) {
	raw, err := r.kv.Get(ctx, r.prefix+userKey)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("load %s: %w", userKey, err)
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode %s: %w", userKey, err)
	}
	return &u, nil
}

func (r *UserRepo) Save(ctx context.Context, u models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode %s: %w", userKey, err)
	}
	return r.kv.Set(ctx, r.prefix+userKey, string(raw), 0)
}

func (r *UserRepo) Clear(ctx context.Context) error {
	return r.kv.Del(ctx, r.prefix+userKey)
}

// loadDoc reads a whole collection; a missing key is an empty collection,
// not an error ("no data yet" is a normal state).
func loadDoc[T any](ctx context.Context, kv store.KV, key string) ([]T, error) {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func saveDoc[T any](ctx context.Context, kv store.KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(raw), 0)
}
