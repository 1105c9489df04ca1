package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &p, nil
}

// List returns posts matching the filter, newest first, with the total match count.
func (r *PostRepository) List(ctx context.Context, f ports.ListPostsFilter) ([]*domain.Post, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.CategoryID != "" {
		filter["category_id"] = f.CategoryID
	}
	if f.LocationID != "" {
		filter["location_id"] = f.LocationID
	}
	if f.Search != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * f.Limit)).SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	posts := []*domain.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, 0, fmt.Errorf("decode posts: %w", err)
	}
	return posts, total, nil
}

// DecrementWorkers takes one slot. The nr_workers > 0 guard and the $inc run
// as one document update, so the counter can never go negative.
func (r *PostRepository) DecrementWorkers(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "nr_workers": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"nr_workers": -1}},
	)
	if err != nil {
		return fmt.Errorf("decrement workers: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	found, err := exists(ctx, r.col, id)
	if err != nil {
		return fmt.Errorf("decrement workers: %w", err)
	}
	if !found {
		return domain.ErrPostNotFound
	}
	return domain.ErrNoCapacity
}

// IncrementWorkers returns one slot unless the post is already back at capacity.
func (r *PostRepository) IncrementWorkers(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "$expr": bson.M{"$lt": bson.A{"$nr_workers", "$capacity"}}},
		bson.M{"$inc": bson.M{"nr_workers": 1}},
	)
	if err != nil {
		return false, fmt.Errorf("increment workers: %w", err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	found, err := exists(ctx, r.col, id)
	if err != nil {
		return false, fmt.Errorf("increment workers: %w", err)
	}
	if !found {
		return false, domain.ErrPostNotFound
	}
	return false, nil
}
