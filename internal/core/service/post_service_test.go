package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

type postFixture struct {
	posts     *stubPostRepo
	companies *stubCompanyRepo
	admin     *stubAdminRepo
	stats     *stubStatsCache
	svc       *PostService
}

func newPostFixture() *postFixture {
	posts := newStubPostRepo()
	companies := newStubCompanyRepo()
	adminRepo := newStubAdminRepo()
	stats := &stubStatsCache{}
	companies.seed("company-1", employer.UserID, "")
	return &postFixture{
		posts:     posts,
		companies: companies,
		admin:     adminRepo,
		stats:     stats,
		svc:       NewPostService(posts, companies, newStubRefRepo(), adminRepo, stats, discardLogger),
	}
}

func validPostInput() ports.CreatePostInput {
	return ports.CreatePostInput{
		CategoryID:     "cat-1",
		LocationID:     "city-1",
		Title:          "Backend Engineer",
		Description:    "Build APIs",
		Type:           "full-time",
		NrWorkers:      3,
		ExpirationDate: time.Now().Add(30 * 24 * time.Hour),
	}
}

func TestPostService_Create_Success(t *testing.T) {
	f := newPostFixture()

	post, err := f.svc.Create(context.Background(), employer, validPostInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if post.NrWorkers != 3 || post.Capacity != 3 {
		t.Fatalf("expected nr_workers = capacity = 3, got %d/%d", post.NrWorkers, post.Capacity)
	}
	if post.CompanyID != "company-1" || post.UserID != employer.UserID {
		t.Fatalf("unexpected ownership: %+v", post)
	}
	if _, err := f.posts.FindByID(context.Background(), post.ID); err != nil {
		t.Fatalf("expected post to be stored: %v", err)
	}
}

func TestPostService_Create_Refusals(t *testing.T) {
	tests := []struct {
		name   string
		caller domain.Caller
		mutate func(*ports.CreatePostInput)
		field  string
		kind   error
	}{
		{"employee", employee, nil, "", domain.ErrWrongRole},
		{"no company", otherEmployer, nil, "company", domain.ErrValidation},
		{"zero workers", employer, func(in *ports.CreatePostInput) { in.NrWorkers = 0 }, "nr_workers", domain.ErrValidation},
		{"past expiration", employer, func(in *ports.CreatePostInput) { in.ExpirationDate = time.Now().Add(-time.Hour) }, "expiration_date", domain.ErrValidation},
		{"unknown category", employer, func(in *ports.CreatePostInput) { in.CategoryID = "nope" }, "category_id", domain.ErrValidation},
		{"unknown location", employer, func(in *ports.CreatePostInput) { in.LocationID = "nope" }, "location_id", domain.ErrValidation},
		{"missing title", employer, func(in *ports.CreatePostInput) { in.Title = "  " }, "title", domain.ErrValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newPostFixture()
			in := validPostInput()
			if tc.mutate != nil {
				tc.mutate(&in)
			}

			_, err := f.svc.Create(context.Background(), tc.caller, in)
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
			var verr *domain.ValidationError
			if tc.field != "" && (!errors.As(err, &verr) || verr.Field != tc.field) {
				t.Fatalf("expected field %s, got %v", tc.field, err)
			}
		})
	}
}

func TestPostService_List_Pagination(t *testing.T) {
	f := newPostFixture()
	for i := 0; i < 45; i++ {
		f.posts.seed(fmt.Sprintf("post-%02d", i), employer.UserID, 1)
	}

	res, err := f.svc.List(context.Background(), ports.ListPostsInput{Page: 3, Limit: 20})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if res.Total != 45 || res.TotalPages != 3 || len(res.Items) != 5 {
		t.Fatalf("unexpected page: total=%d pages=%d items=%d", res.Total, res.TotalPages, len(res.Items))
	}

	res, _ = f.svc.List(context.Background(), ports.ListPostsInput{Limit: 500})
	if res.Limit != 100 || res.Page != 1 {
		t.Fatalf("expected limit capped at 100 and page 1, got %d/%d", res.Limit, res.Page)
	}

	res, _ = f.svc.List(context.Background(), ports.ListPostsInput{})
	if res.Limit != 20 {
		t.Fatalf("expected default limit 20, got %d", res.Limit)
	}
}

func TestPostService_Delete(t *testing.T) {
	f := newPostFixture()
	f.posts.seed("post-1", employer.UserID, 1)
	f.stats.stats = &ports.Stats{Posts: 1}

	if err := f.svc.Delete(context.Background(), otherEmployer, "post-1"); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if f.stats.invalidated != 0 {
		t.Fatalf("a refused delete must keep the cached counts")
	}
	if err := f.svc.Delete(context.Background(), employer, "post-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(f.admin.deletedPosts) != 1 || f.admin.deletedPosts[0] != "post-1" {
		t.Fatalf("expected cascade delete of post-1, got %v", f.admin.deletedPosts)
	}
	if f.stats.invalidated != 1 || f.stats.stats != nil {
		t.Fatalf("expected the cached admin counts to be dropped, invalidated=%d", f.stats.invalidated)
	}
}

func TestSavedPostService(t *testing.T) {
	posts := newStubPostRepo()
	posts.seed("post-1", employer.UserID, 1)
	svc := NewSavedPostService(newStubSavedRepo(), posts)

	for i := 0; i < 2; i++ {
		if err := svc.Save(context.Background(), employee, "post-1"); err != nil {
			t.Fatalf("Save #%d failed: %v", i+1, err)
		}
	}
	saved, _ := svc.List(context.Background(), employee)
	if len(saved) != 1 {
		t.Fatalf("expected save to be idempotent, got %d entries", len(saved))
	}

	if err := svc.Save(context.Background(), employee, "ghost"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}

	if err := svc.Unsave(context.Background(), employee, "post-1"); err != nil {
		t.Fatalf("Unsave failed: %v", err)
	}
	saved, _ = svc.List(context.Background(), employee)
	if len(saved) != 0 {
		t.Fatalf("expected no saved posts, got %d", len(saved))
	}
}

func TestReferenceService_CreateCity(t *testing.T) {
	svc := NewReferenceService(newStubRefRepo())

	city, err := svc.CreateCity(context.Background(), " Durres ", domain.Coordinates{Lat: 41.3, Lng: 19.4})
	if err != nil {
		t.Fatalf("CreateCity failed: %v", err)
	}
	if city.Name != "Durres" || city.ID == "" {
		t.Fatalf("unexpected city: %+v", city)
	}

	if _, err := svc.CreateCity(context.Background(), "Nowhere", domain.Coordinates{Lat: 120}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for latitude, got %v", err)
	}
	if _, err := svc.CreateCategory(context.Background(), ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty category, got %v", err)
	}
}
