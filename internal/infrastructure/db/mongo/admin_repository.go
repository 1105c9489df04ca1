package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

const cascadeTimeout = 30 * time.Second

// AdminRepository answers dashboard counts and runs the cascading deletes.
// Cascades run child collections first so a failure midway leaves the parent
// in place and the delete can be retried.
type AdminRepository struct {
	users        *mongo.Collection
	posts        *mongo.Collection
	applications *mongo.Collection
	cvs          *mongo.Collection
	companies    *mongo.Collection
	savedPosts   *mongo.Collection
}

func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{
		users:        db.Collection(collectionUsers),
		posts:        db.Collection(collectionPosts),
		applications: db.Collection(collectionApplications),
		cvs:          db.Collection(collectionCVs),
		companies:    db.Collection(collectionCompanies),
		savedPosts:   db.Collection(collectionSavedPosts),
	}
}

func (r *AdminRepository) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	return count(ctx, r.users, bson.M{"role": role})
}

func (r *AdminRepository) CountPosts(ctx context.Context) (int64, error) {
	return count(ctx, r.posts, bson.M{})
}

func (r *AdminRepository) CountApplications(ctx context.Context, status domain.ApplicationStatus) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return count(ctx, r.applications, filter)
}

func count(ctx context.Context, col *mongo.Collection, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", col.Name(), err)
	}
	return n, nil
}

// DeletePost removes the post, its applications and its bookmarks.
func (r *AdminRepository) DeletePost(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, cascadeTimeout)
	defer cancel()

	found, err := exists(ctx, r.posts, id)
	if err != nil {
		return fmt.Errorf("find post: %w", err)
	}
	if !found {
		return domain.ErrPostNotFound
	}

	if _, err := r.applications.DeleteMany(ctx, bson.M{"post_id": id}); err != nil {
		return fmt.Errorf("delete post applications: %w", err)
	}
	if _, err := r.savedPosts.DeleteMany(ctx, bson.M{"post_id": id}); err != nil {
		return fmt.Errorf("delete post bookmarks: %w", err)
	}
	if _, err := r.posts.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// DeleteUser removes the user and everything hanging off the account. Slots
// held by the user's applications on other employers' posts are returned.
// The stored CV and company image paths are reported for file cleanup.
func (r *AdminRepository) DeleteUser(ctx context.Context, id string) (*ports.CascadeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, cascadeTimeout)
	defer cancel()

	found, err := exists(ctx, r.users, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}

	owned, err := r.posts.Distinct(ctx, "_id", bson.M{"user_id": id})
	if err != nil {
		return nil, fmt.Errorf("list user posts: %w", err)
	}
	if owned == nil {
		owned = []any{}
	}

	// One application per (user, post), so each held slot maps to a distinct post.
	applied, err := r.applications.Distinct(ctx, "post_id", bson.M{
		"user_id": id,
		"post_id": bson.M{"$nin": owned},
	})
	if err != nil {
		return nil, fmt.Errorf("list user applications: %w", err)
	}
	if len(applied) > 0 {
		_, err := r.posts.UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": applied}, "$expr": bson.M{"$lt": bson.A{"$nr_workers", "$capacity"}}},
			bson.M{"$inc": bson.M{"nr_workers": 1}},
		)
		if err != nil {
			return nil, fmt.Errorf("restore slots: %w", err)
		}
	}

	byUserOrPost := bson.M{"$or": bson.A{
		bson.M{"user_id": id},
		bson.M{"post_id": bson.M{"$in": owned}},
	}}
	if _, err := r.applications.DeleteMany(ctx, byUserOrPost); err != nil {
		return nil, fmt.Errorf("delete user applications: %w", err)
	}
	if _, err := r.savedPosts.DeleteMany(ctx, byUserOrPost); err != nil {
		return nil, fmt.Errorf("delete user bookmarks: %w", err)
	}
	if _, err := r.posts.DeleteMany(ctx, bson.M{"user_id": id}); err != nil {
		return nil, fmt.Errorf("delete user posts: %w", err)
	}

	result := &ports.CascadeResult{}

	var company domain.Company
	switch err := r.companies.FindOneAndDelete(ctx, bson.M{"user_id": id}).Decode(&company); {
	case err == nil:
		if company.Image != "" {
			result.Files = append(result.Files, company.Image)
		}
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, fmt.Errorf("delete user company: %w", err)
	}

	var cv domain.CV
	switch err := r.cvs.FindOneAndDelete(ctx, bson.M{"user_id": id}).Decode(&cv); {
	case err == nil:
		if cv.File != "" {
			result.Files = append(result.Files, cv.File)
		}
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, fmt.Errorf("delete user cv: %w", err)
	}

	if _, err := r.users.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return result, nil
}
