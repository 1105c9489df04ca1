package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories. Each one guards its maps with a mutex so the
// concurrency tests exercise the same conditional semantics as the Mongo
// adapters.
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := *u
	r.users[u.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

type stubPostRepo struct {
	mu    sync.Mutex
	posts map[string]*domain.Post
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func (r *stubPostRepo) seed(id, ownerID string, slots int) *domain.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &domain.Post{ID: id, UserID: ownerID, Title: "Job " + id, NrWorkers: slots, Capacity: slots}
	r.posts[id] = p
	clone := *p
	return &clone
}

func (r *stubPostRepo) workers(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.posts[id].NrWorkers
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.posts[p.ID] = &clone
	return nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPostRepo) List(_ context.Context, f ports.ListPostsFilter) ([]*domain.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.Post
	for _, p := range r.posts {
		if f.UserID != "" && p.UserID != f.UserID {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.LocationID != "" && p.LocationID != f.LocationID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Search)) {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	limit := f.Limit
	if limit <= 0 {
		limit = len(matched)
	}
	skip := (f.Page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return []*domain.Post{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubPostRepo) DecrementWorkers(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return domain.ErrPostNotFound
	}
	if p.NrWorkers <= 0 {
		return domain.ErrNoCapacity
	}
	p.NrWorkers--
	return nil
}

func (r *stubPostRepo) IncrementWorkers(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return false, domain.ErrPostNotFound
	}
	if p.NrWorkers >= p.Capacity {
		return false, nil
	}
	p.NrWorkers++
	return true, nil
}

type stubAppRepo struct {
	mu        sync.Mutex
	apps      map[string]*domain.Application
	posts     *stubPostRepo
	createErr error
}

func newStubAppRepo(posts *stubPostRepo) *stubAppRepo {
	return &stubAppRepo{apps: make(map[string]*domain.Application), posts: posts}
}

func (r *stubAppRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}

func (r *stubAppRepo) Create(_ context.Context, a *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.apps {
		if existing.UserID == a.UserID && existing.PostID == a.PostID {
			return domain.ErrDuplicateApplication
		}
	}
	clone := *a
	r.apps[a.ID] = &clone
	return nil
}

func (r *stubAppRepo) FindByID(_ context.Context, id string) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAppRepo) Exists(_ context.Context, userID, postID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.UserID == userID && a.PostID == postID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAppRepo) DeleteOwned(_ context.Context, id, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok || a.UserID != userID {
		return false, nil
	}
	delete(r.apps, id)
	return true, nil
}

func (r *stubAppRepo) UpdateStatusFrom(_ context.Context, id string, next domain.ApplicationStatus, from []domain.ApplicationStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return false, domain.ErrApplicationNotFound
	}
	for _, s := range from {
		if a.Status == s {
			a.Status = next
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAppRepo) ListByUser(_ context.Context, userID string) ([]*domain.Application, error) {
	return r.filter(func(a *domain.Application) bool { return a.UserID == userID }), nil
}

func (r *stubAppRepo) ListByPost(_ context.Context, postID string) ([]*domain.Application, error) {
	return r.filter(func(a *domain.Application) bool { return a.PostID == postID }), nil
}

func (r *stubAppRepo) ExistsForEmployer(ctx context.Context, applicantID, employerID string) (bool, error) {
	for _, a := range r.filter(func(a *domain.Application) bool { return a.UserID == applicantID }) {
		if p, err := r.posts.FindByID(ctx, a.PostID); err == nil && p.UserID == employerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAppRepo) filter(keep func(*domain.Application) bool) []*domain.Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Application
	for _, a := range r.apps {
		if keep(a) {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out
}

type stubCVRepo struct {
	mu        sync.Mutex
	cvs       map[string]*domain.CV
	updateErr error
}

func newStubCVRepo() *stubCVRepo {
	return &stubCVRepo{cvs: make(map[string]*domain.CV)}
}

func (r *stubCVRepo) seed(userID string) *domain.CV {
	r.mu.Lock()
	defer r.mu.Unlock()
	cv := &domain.CV{ID: "cv-" + userID, UserID: userID, File: "cv/" + userID + ".pdf", FileName: "cv.pdf"}
	r.cvs[cv.ID] = cv
	clone := *cv
	return &clone
}

func (r *stubCVRepo) Create(_ context.Context, cv *domain.CV) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.cvs {
		if existing.UserID == cv.UserID {
			return domain.ErrCVExists
		}
	}
	clone := *cv
	r.cvs[cv.ID] = &clone
	return nil
}

func (r *stubCVRepo) FindByID(_ context.Context, id string) (*domain.CV, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cv, ok := r.cvs[id]
	if !ok {
		return nil, domain.ErrCVNotFound
	}
	clone := *cv
	return &clone, nil
}

func (r *stubCVRepo) FindByUserID(_ context.Context, userID string) (*domain.CV, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cv := range r.cvs {
		if cv.UserID == userID {
			clone := *cv
			return &clone, nil
		}
	}
	return nil, domain.ErrCVNotFound
}

func (r *stubCVRepo) UpdateFile(_ context.Context, cv *domain.CV) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.cvs[cv.ID]; !ok {
		return domain.ErrCVNotFound
	}
	clone := *cv
	r.cvs[cv.ID] = &clone
	return nil
}

func (r *stubCVRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cvs[id]; !ok {
		return domain.ErrCVNotFound
	}
	delete(r.cvs, id)
	return nil
}

type stubCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*domain.Company
	createErr error
}

func newStubCompanyRepo() *stubCompanyRepo {
	return &stubCompanyRepo{companies: make(map[string]*domain.Company)}
}

func (r *stubCompanyRepo) seed(id, ownerID, image string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.companies[id] = &domain.Company{ID: id, UserID: ownerID, Name: "Acme", Phone: "555", Image: image}
}

func (r *stubCompanyRepo) Create(_ context.Context, c *domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.companies {
		if existing.UserID == c.UserID {
			return domain.ErrCompanyExists
		}
	}
	clone := *c
	r.companies[c.ID] = &clone
	return nil
}

func (r *stubCompanyRepo) FindByID(_ context.Context, id string) (*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCompanyRepo) FindByUserID(_ context.Context, userID string) (*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.UserID == userID {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCompanyNotFound
}

func (r *stubCompanyRepo) Update(_ context.Context, c *domain.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[c.ID]; !ok {
		return domain.ErrCompanyNotFound
	}
	clone := *c
	r.companies[c.ID] = &clone
	return nil
}

func (r *stubCompanyRepo) UpdateImage(_ context.Context, id, image string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return domain.ErrCompanyNotFound
	}
	c.Image = image
	return nil
}

func (r *stubCompanyRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[id]; !ok {
		return domain.ErrCompanyNotFound
	}
	delete(r.companies, id)
	return nil
}

type stubRefRepo struct {
	cities     map[string]*domain.City
	categories map[string]*domain.Category
}

func newStubRefRepo() *stubRefRepo {
	return &stubRefRepo{
		cities:     map[string]*domain.City{"city-1": {ID: "city-1", Name: "Tirana"}},
		categories: map[string]*domain.Category{"cat-1": {ID: "cat-1", Name: "Engineering"}},
	}
}

func (r *stubRefRepo) ListCities(context.Context) ([]*domain.City, error) {
	var out []*domain.City
	for _, c := range r.cities {
		out = append(out, c)
	}
	return out, nil
}

func (r *stubRefRepo) ListCategories(context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *stubRefRepo) FindCity(_ context.Context, id string) (*domain.City, error) {
	c, ok := r.cities[id]
	if !ok {
		return nil, domain.ErrCityNotFound
	}
	return c, nil
}

func (r *stubRefRepo) FindCategory(_ context.Context, id string) (*domain.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return c, nil
}

func (r *stubRefRepo) CreateCity(_ context.Context, c *domain.City) error {
	r.cities[c.ID] = c
	return nil
}

func (r *stubRefRepo) CreateCategory(_ context.Context, c *domain.Category) error {
	r.categories[c.ID] = c
	return nil
}

type stubSavedRepo struct {
	saved map[string]*domain.SavedPost
}

func newStubSavedRepo() *stubSavedRepo {
	return &stubSavedRepo{saved: make(map[string]*domain.SavedPost)}
}

func (r *stubSavedRepo) Save(_ context.Context, s *domain.SavedPost) error {
	key := s.UserID + "/" + s.PostID
	if _, ok := r.saved[key]; !ok {
		clone := *s
		r.saved[key] = &clone
	}
	return nil
}

func (r *stubSavedRepo) Delete(_ context.Context, userID, postID string) error {
	delete(r.saved, userID+"/"+postID)
	return nil
}

func (r *stubSavedRepo) ListByUser(_ context.Context, userID string) ([]*domain.SavedPost, error) {
	var out []*domain.SavedPost
	for _, s := range r.saved {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type stubFileStore struct {
	mu     sync.Mutex
	files  map[string][]byte
	putErr error
}

func newStubFileStore() *stubFileStore {
	return &stubFileStore{files: make(map[string][]byte)}
}

func (s *stubFileStore) has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok
}

func (s *stubFileStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

func (s *stubFileStore) Put(_ context.Context, dir, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return "", s.putErr
	}
	path := dir + "/" + name
	s.files[path] = append([]byte(nil), data...)
	return path, nil
}

func (s *stubFileStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

func (s *stubFileStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *recordingNotifier) Enqueue(notification domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func (n *recordingNotifier) byTemplate(tmpl domain.NotificationTemplate) []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.Notification
	for _, s := range n.sent {
		if s.Template == tmpl {
			out = append(out, s)
		}
	}
	return out
}

func (n *recordingNotifier) total() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type stubCVChecker map[string]bool

func (c stubCVChecker) HasCV(_ context.Context, userID string) (bool, error) {
	return c[userID], nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var (
	employee      = domain.Caller{UserID: "emp-1", Role: domain.RoleEmployee}
	otherEmployee = domain.Caller{UserID: "emp-2", Role: domain.RoleEmployee}
	employer      = domain.Caller{UserID: "boss-1", Role: domain.RoleEmployer}
	otherEmployer = domain.Caller{UserID: "boss-2", Role: domain.RoleEmployer}
	admin         = domain.Caller{UserID: "admin-1", Role: domain.RoleAdmin}
)

// minimalPDF is enough for content sniffing to report application/pdf.
var minimalPDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

// minimalPNG is the 8-byte PNG signature followed by an IHDR chunk header.
var minimalPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
}
