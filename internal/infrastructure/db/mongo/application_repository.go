package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

type ApplicationRepository struct {
	col   *mongo.Collection
	posts *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{
		col:   db.Collection(collectionApplications),
		posts: db.Collection(collectionPosts),
	}
}

// Create inserts the application. The unique (user_id, post_id) index turns a
// concurrent second insert into domain.ErrDuplicateApplication.
func (r *ApplicationRepository) Create(ctx context.Context, a *domain.Application) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateApplication
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Application
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return &a, nil
}

func (r *ApplicationRepository) Exists(ctx context.Context, userID, postID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID, "post_id": postID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check application: %w", err)
	}
	return n > 0, nil
}

func (r *ApplicationRepository) DeleteOwned(ctx context.Context, id, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return false, fmt.Errorf("delete application: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// UpdateStatusFrom applies the transition only from the allowed source
// statuses. A repeat call matches nothing and reports false.
func (r *ApplicationRepository) UpdateStatusFrom(
	ctx context.Context,
	id string,
	next domain.ApplicationStatus,
	from []domain.ApplicationStatus,
) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": from}},
		bson.M{"$set": bson.M{"status": next, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("update application status: %w", err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	found, err := exists(ctx, r.col, id)
	if err != nil {
		return false, fmt.Errorf("update application status: %w", err)
	}
	if !found {
		return false, domain.ErrApplicationNotFound
	}
	return false, nil
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Application, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *ApplicationRepository) ListByPost(ctx context.Context, postID string) ([]*domain.Application, error) {
	return r.list(ctx, bson.M{"post_id": postID})
}

func (r *ApplicationRepository) list(ctx context.Context, filter bson.M) ([]*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	apps := []*domain.Application{}
	if err := cur.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}
	return apps, nil
}

// ExistsForEmployer reports whether applicantID applied to any post employerID owns.
func (r *ApplicationRepository) ExistsForEmployer(ctx context.Context, applicantID, employerID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	postIDs, err := r.posts.Distinct(ctx, "_id", bson.M{"user_id": employerID})
	if err != nil {
		return false, fmt.Errorf("list employer posts: %w", err)
	}
	if len(postIDs) == 0 {
		return false, nil
	}

	n, err := r.col.CountDocuments(ctx,
		bson.M{"user_id": applicantID, "post_id": bson.M{"$in": postIDs}},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("check employer applications: %w", err)
	}
	return n > 0, nil
}
