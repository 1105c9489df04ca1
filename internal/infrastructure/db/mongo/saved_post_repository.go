package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

type SavedPostRepository struct {
	col *mongo.Collection
}

func NewSavedPostRepository(db *mongo.Database) *SavedPostRepository {
	return &SavedPostRepository{col: db.Collection(collectionSavedPosts)}
}

// Save upserts on (user_id, post_id) so repeated saves keep the first bookmark.
func (r *SavedPostRepository) Save(ctx context.Context, s *domain.SavedPost) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": s.UserID, "post_id": s.PostID},
		bson.M{"$setOnInsert": bson.M{"_id": s.ID, "created_at": s.CreatedAt}},
		options.Update().SetUpsert(true),
	)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("save post: %w", err)
	}
	return nil
}

func (r *SavedPostRepository) Delete(ctx context.Context, userID, postID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID, "post_id": postID}); err != nil {
		return fmt.Errorf("unsave post: %w", err)
	}
	return nil
}

func (r *SavedPostRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SavedPost, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list saved posts: %w", err)
	}
	saved := []*domain.SavedPost{}
	if err := cur.All(ctx, &saved); err != nil {
		return nil, fmt.Errorf("decode saved posts: %w", err)
	}
	return saved, nil
}
