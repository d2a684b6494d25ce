package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/tacuruses/naturalista-bot/internal/domain"
)

// ErrMissingPostID is returned when a publisher reports success without an
// id, which would leave the next post with nothing to reply to.
var ErrMissingPostID = errors.New("publisher returned an empty post id")

// PublishThread publishes posts in order, each one replying to the previous
// post's id. It stops at the first failure and returns the ids published so far.
func PublishThread(ctx context.Context, pub Publisher, posts []domain.Post) ([]string, error) {
	ids := make([]string, 0, len(posts))
	lastID := ""
	for i, post := range posts {
		if lastID != "" {
			post.InReplyTo = lastID
		}
		id, err := pub.Publish(ctx, post)
		if err != nil {
			return ids, fmt.Errorf("publish post %d/%d: %w", i+1, len(posts), err)
		}
		if id == "" {
			return ids, fmt.Errorf("publish post %d/%d: %w", i+1, len(posts), ErrMissingPostID)
		}
		ids = append(ids, id)
		lastID = id
	}
	return ids, nil
}
