package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Nasirkc/smart-bookmark/internal/domain"
)

// ErrNotFound is returned when a bookmark does not exist or belongs to
// another user.
var ErrNotFound = errors.New("bookmark not found")

// Store handles Redis operations for bookmarks. Every successful write
// also publishes the matching change-feed event: inserts on the shared
// insert channel, deletes on the owner's delete channel.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Create persists a new bookmark for ownerID. The store assigns the id
// and creation timestamp. Title and URL are expected to be validated by
// the caller.
func (s *Store) Create(ctx context.Context, ownerID, title, url string) (domain.Bookmark, error) {
	b := domain.Bookmark{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.save(ctx, b); err != nil {
		return domain.Bookmark{}, err
	}

	s.publishInsert(ctx, b)
	return b, nil
}

// Import persists a bookmark with a caller-assigned id, skipping it when
// the id already exists. Used by the seed importer so repeated boots do
// not duplicate rows. Returns whether the bookmark was added.
func (s *Store) Import(ctx context.Context, b domain.Bookmark) (bool, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	added, err := s.client.SetNX(ctx, BookmarkKey(b.ID), data, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to import bookmark: %w", err)
	}
	if !added {
		return false, nil
	}

	if err := s.client.SAdd(ctx, OwnerSetKey(b.OwnerID), b.ID).Err(); err != nil {
		return false, fmt.Errorf("failed to add bookmark to owner set: %w", err)
	}

	s.publishInsert(ctx, b)
	return true, nil
}

// Get retrieves a bookmark by id
func (s *Store) Get(ctx context.Context, id string) (domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Bookmark{}, ErrNotFound
		}
		return domain.Bookmark{}, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var b domain.Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}

	return b, nil
}

// List retrieves all bookmarks owned by ownerID, newest first.
func (s *Store) List(ctx context.Context, ownerID string) ([]domain.Bookmark, error) {
	ids, err := s.client.SMembers(ctx, OwnerSetKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark ids: %w", err)
	}

	if len(ids) == 0 {
		return []domain.Bookmark{}, nil
	}

	bookmarks := make([]domain.Bookmark, 0, len(ids))
	for _, id := range ids {
		b, err := s.Get(ctx, id)
		if err != nil {
			// Skip bookmarks that couldn't be retrieved
			continue
		}
		bookmarks = append(bookmarks, b)
	}

	sort.SliceStable(bookmarks, func(i, j int) bool {
		return bookmarks[i].CreatedAt.After(bookmarks[j].CreatedAt)
	})

	return bookmarks, nil
}

// Delete removes a bookmark owned by ownerID and publishes the delete
// event on the owner's channel. Returns ErrNotFound when the id does not
// exist or is owned by someone else.
func (s *Store) Delete(ctx context.Context, ownerID, id string) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if b.OwnerID != ownerID {
		return ErrNotFound
	}

	if err := s.client.Del(ctx, BookmarkKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if err := s.client.SRem(ctx, OwnerSetKey(ownerID), id).Err(); err != nil {
		return fmt.Errorf("failed to remove bookmark from owner set: %w", err)
	}

	// Event delivery is best effort; a subscriber that misses it falls
	// back to polling.
	_ = s.client.Publish(ctx, DeleteChannel(ownerID), id).Err()

	return nil
}

func (s *Store) save(ctx context.Context, b domain.Bookmark) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, BookmarkKey(b.ID), data, 0)
	pipe.SAdd(ctx, OwnerSetKey(b.OwnerID), b.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}

	return nil
}

func (s *Store) publishInsert(ctx context.Context, b domain.Bookmark) {
	data, err := json.Marshal(b)
	if err != nil {
		return
	}
	_ = s.client.Publish(ctx, InsertChannel(), data).Err()
}
