package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

// ReferenceRepository serves cities and categories.
type ReferenceRepository struct {
	cities     *mongo.Collection
	categories *mongo.Collection
}

func NewReferenceRepository(db *mongo.Database) *ReferenceRepository {
	return &ReferenceRepository{
		cities:     db.Collection(collectionCities),
		categories: db.Collection(collectionCategories),
	}
}

func (r *ReferenceRepository) ListCities(ctx context.Context) ([]*domain.City, error) {
	out := []*domain.City{}
	if err := listByName(ctx, r.cities, &out); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return out, nil
}

func (r *ReferenceRepository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	out := []*domain.Category{}
	if err := listByName(ctx, r.categories, &out); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func listByName(ctx context.Context, col *mongo.Collection, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func (r *ReferenceRepository) FindCity(ctx context.Context, id string) (*domain.City, error) {
	var c domain.City
	if err := findByID(ctx, r.cities, id, &c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCityNotFound
		}
		return nil, fmt.Errorf("find city: %w", err)
	}
	return &c, nil
}

func (r *ReferenceRepository) FindCategory(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	if err := findByID(ctx, r.categories, id, &c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &c, nil
}

func findByID(ctx context.Context, col *mongo.Collection, id string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return col.FindOne(ctx, bson.M{"_id": id}).Decode(out)
}

func (r *ReferenceRepository) CreateCity(ctx context.Context, c *domain.City) error {
	return insertNamed(ctx, r.cities, c, "city")
}

func (r *ReferenceRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	return insertNamed(ctx, r.categories, c, "category")
}

func insertNamed(ctx context.Context, col *mongo.Collection, doc any, kind string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s name", domain.ErrDuplicate, kind)
		}
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	return nil
}
