package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

// CVRepository stores at most one CV per user, enforced by a unique index on user_id.
type CVRepository struct {
	col *mongo.Collection
}

func NewCVRepository(db *mongo.Database) *CVRepository {
	return &CVRepository{col: db.Collection(collectionCVs)}
}

func (r *CVRepository) Create(ctx context.Context, cv *domain.CV) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, cv); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrCVExists
		}
		return fmt.Errorf("insert cv: %w", err)
	}
	return nil
}

func (r *CVRepository) FindByID(ctx context.Context, id string) (*domain.CV, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *CVRepository) FindByUserID(ctx context.Context, userID string) (*domain.CV, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *CVRepository) findOne(ctx context.Context, filter bson.M) (*domain.CV, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var cv domain.CV
	if err := r.col.FindOne(ctx, filter).Decode(&cv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCVNotFound
		}
		return nil, fmt.Errorf("find cv: %w", err)
	}
	return &cv, nil
}

func (r *CVRepository) UpdateFile(ctx context.Context, cv *domain.CV) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": cv.ID}, bson.M{"$set": bson.M{
		"file":        cv.File,
		"file_name":   cv.FileName,
		"mime_type":   cv.MimeType,
		"size":        cv.Size,
		"uploaded_at": cv.UploadedAt,
	}})
	if err != nil {
		return fmt.Errorf("update cv: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCVNotFound
	}
	return nil
}

func (r *CVRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete cv: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCVNotFound
	}
	return nil
}

// CompanyRepository stores one company per employer.
type CompanyRepository struct {
	col *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{col: db.Collection(collectionCompanies)}
}

func (r *CompanyRepository) Create(ctx context.Context, c *domain.Company) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrCompanyExists
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *CompanyRepository) FindByUserID(ctx context.Context, userID string) (*domain.Company, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *CompanyRepository) findOne(ctx context.Context, filter bson.M) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Company
	if err := r.col.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return &c, nil
}

func (r *CompanyRepository) Update(ctx context.Context, c *domain.Company) error {
	return r.set(ctx, c.ID, bson.M{
		"name":        c.Name,
		"description": c.Description,
		"phone":       c.Phone,
		"address":     c.Address,
		"website":     c.Website,
		"email":       c.Email,
		"updated_at":  c.UpdatedAt,
	})
}

func (r *CompanyRepository) UpdateImage(ctx context.Context, id, image string) error {
	return r.set(ctx, id, bson.M{"image": image, "updated_at": time.Now().UTC()})
}

func (r *CompanyRepository) set(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}
