package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

type appFixture struct {
	posts    *stubPostRepo
	apps     *stubAppRepo
	notifier *recordingNotifier
	cvs      stubCVChecker
	svc      *ApplicationService
}

func newAppFixture() *appFixture {
	posts := newStubPostRepo()
	apps := newStubAppRepo(posts)
	notifier := &recordingNotifier{}
	cvs := stubCVChecker{employee.UserID: true, otherEmployee.UserID: true}
	svc := NewApplicationService(apps, posts, NewCapacityTracker(posts, discardLogger), cvs, notifier, discardLogger)
	return &appFixture{posts: posts, apps: apps, notifier: notifier, cvs: cvs, svc: svc}
}

func TestApplicationService_Apply_Success(t *testing.T) {
	f := newAppFixture()
	f.posts.seed("post-1", employer.UserID, 3)

	app, err := f.svc.Apply(context.Background(), employee, "post-1")
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if app.Status != domain.StatusPending {
		t.Fatalf("expected pending, got %s", app.Status)
	}
	if app.UserID != employee.UserID || app.PostID != "post-1" {
		t.Fatalf("unexpected application: %+v", app)
	}
	if got := f.posts.workers("post-1"); got != 2 {
		t.Fatalf("expected 2 open slots, got %d", got)
	}

	toEmployer := f.notifier.byTemplate(domain.TemplateNewApplication)
	if len(toEmployer) != 1 || toEmployer[0].Recipient != employer.UserID {
		t.Fatalf("expected one new_application to the employer, got %+v", toEmployer)
	}
	toApplicant := f.notifier.byTemplate(domain.TemplateApplicationReceived)
	if len(toApplicant) != 1 || toApplicant[0].Recipient != employee.UserID {
		t.Fatalf("expected one application_received to the applicant, got %+v", toApplicant)
	}
}

func TestApplicationService_Apply_EmployerRefused(t *testing.T) {
	f := newAppFixture()
	f.posts.seed("post-1", employer.UserID, 1)

	if _, err := f.svc.Apply(context.Background(), otherEmployer, "post-1"); !errors.Is(err, domain.ErrWrongRole) {
		t.Fatalf("expected ErrWrongRole, got %v", err)
	}
	if got := f.posts.workers("post-1"); got != 1 {
		t.Fatalf("expected slots untouched, got %d", got)
	}
}

func TestApplicationService_Apply_PostNotFound(t *testing.T) {
	f := newAppFixture()

	if _, err := f.svc.Apply(context.Background(), employee, "ghost"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestApplicationService_Apply_NoCapacity(t *testing.T) {
	f := newAppFixture()
	f.posts.seed("post-1", employer.UserID, 0)

	if _, err := f.svc.Apply(context.Background(), employee, "post-1"); !errors.Is(err, domain.ErrNoCapacity) {
		t.Fatalf("expected ErrNoCapacity, got %v", err)
	}
	if f.apps.count() != 0 {
		t.Fatalf("expected no application to be stored")
	}
}

func TestApplicationService_Apply_Duplicate(t *testing.T) {
	f := newAppFixture()
	f.posts.seed("post-1", employer.UserID, 5)

	if _, err := f.svc.Apply(context.Background(), employee, "post-1"); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	if _, err := f.svc.Apply(context.Background(), employee, "post-1"); !errors.Is(err, domain.ErrDuplicateApplication) {
		t.Fatalf("expected ErrDuplicateApplication, got %v", err)
	}
	if got := f.posts.workers("post-1"); got != 4 {
		t.Fatalf("duplicate must not take a slot, got %d open", got)
	}
	if f.apps.count() != 1 {
		t.Fatalf("expected exactly one application, got %d", f.apps.count())
	}
}

func TestApplicationService_Apply_MissingCVLeavesStateUnchanged(t *testing.T) {
	f := newAppFixture()
	f.posts.seed("post-1", employer.UserID, 2)
	delete(f.cvs, employee.UserID)

	if _, err := f.svc.Apply(context.Background(), employee, "post-1"); !errors.Is(err, domain.ErrMissingCV) {
		t.Fatalf("expected ErrMissingCV, got %v", err)
	}
	if got := f.posts.workers("post-1"); got != 2 {
		t.Fatalf("expected slots untouched, got %d", got)
	}
	if f.apps.count() != 0 {
		t.Fatalf("expected no application to be stored")
	}
	if f.notifier.total() != 0 {
		t.Fatalf("expected no notifications, got %d", f.notifier.total())
	}
}

func TestApplicationService_Apply_CreateFailureReturnsSlot(t *testing.T) {
	f := newAppFixture()
	f.posts.seed("post-1", employer.UserID, 1)
	f.apps.createErr = domain.StorageError("insert application", errors.New("connection reset"))

	if _, err := f.svc.Apply(context.Background(), employee, "post-1"); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if got := f.posts.workers("post-1"); got != 1 {
		t.Fatalf("expected the slot to be returned, got %d open", got)
	}
	if f.notifier.total() != 0 {
		t.Fatalf("expected no notifications after a failed apply")
	}
}

func TestApplicationService_Apply_ConcurrentLastSlot(t *testing.T) {
	f := newAppFixture()
	f.posts.seed("post-1", employer.UserID, 1)

	const applicants = 20
	for i := 0; i < applicants; i++ {
		f.cvs[fmt.Sprintf("applicant-%d", i)] = true
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < applicants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caller := domain.Caller{UserID: fmt.Sprintf("applicant-%d", i), Role: domain.RoleEmployee}
			_, err := f.svc.Apply(context.Background(), caller, "post-1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrNoCapacity):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("expected exactly one successful apply, got %d", succeeded)
	}
	if conflicts != applicants-1 {
		t.Fatalf("expected %d capacity conflicts, got %d", applicants-1, conflicts)
	}
	if got := f.posts.workers("post-1"); got != 0 {
		t.Fatalf("expected 0 open slots, got %d", got)
	}
}

func TestApplicationService_ConcurrentApplyWithdrawKeepsCounterInRange(t *testing.T) {
	f := newAppFixture()
	f.posts.seed("post-1", employer.UserID, 3)

	const applicants = 12
	for i := 0; i < applicants; i++ {
		f.cvs[fmt.Sprintf("applicant-%d", i)] = true
	}

	var wg sync.WaitGroup
	for i := 0; i < applicants; i++ {
		caller := domain.Caller{UserID: fmt.Sprintf("applicant-%d", i), Role: domain.RoleEmployee}
		wg.Add(1)
		go func() {
			defer wg.Done()
			app, err := f.svc.Apply(context.Background(), caller, "post-1")
			if err != nil {
				return
			}
			if err := f.svc.Withdraw(context.Background(), caller, app.ID); err != nil {
				t.Errorf("withdraw failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := f.posts.workers("post-1"); got != 3 {
		t.Fatalf("expected all 3 slots back, got %d", got)
	}
	if f.apps.count() != 0 {
		t.Fatalf("expected no applications left, got %d", f.apps.count())
	}
}

func TestApplicationService_ApplyWithdrawRoundTrip(t *testing.T) {
	f := newAppFixture()
	f.posts.seed("post-1", employer.UserID, 2)

	app, err := f.svc.Apply(context.Background(), employee, "post-1")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if err := f.svc.Withdraw(context.Background(), employee, app.ID); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	if got := f.posts.workers("post-1"); got != 2 {
		t.Fatalf("expected slots restored to 2, got %d", got)
	}
	if _, err := f.apps.FindByID(context.Background(), app.ID); !errors.Is(err, domain.ErrApplicationNotFound) {
		t.Fatalf("expected application to be gone, got %v", err)
	}

	// The pair is free again.
	if _, err := f.svc.Apply(context.Background(), employee, "post-1"); err != nil {
		t.Fatalf("re-apply failed: %v", err)
	}
}

func TestApplicationService_Withdraw_NonOwnerRefused(t *testing.T) {
	f := newAppFixture()
	f.posts.seed("post-1", employer.UserID, 2)

	app, err := f.svc.Apply(context.Background(), employee, "post-1")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if err := f.svc.Withdraw(context.Background(), otherEmployee, app.ID); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if f.apps.count() != 1 {
		t.Fatalf("expected the application to survive")
	}
	if got := f.posts.workers("post-1"); got != 1 {
		t.Fatalf("expected slot still taken, got %d open", got)
	}
}

func TestApplicationService_Withdraw_NotFound(t *testing.T) {
	f := newAppFixture()

	if err := f.svc.Withdraw(context.Background(), employee, "ghost"); !errors.Is(err, domain.ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestApplicationService_Withdraw_PostAlreadyDeleted(t *testing.T) {
	f := newAppFixture()
	f.posts.seed("post-1", employer.UserID, 1)

	app, err := f.svc.Apply(context.Background(), employee, "post-1")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	delete(f.posts.posts, "post-1")

	if err := f.svc.Withdraw(context.Background(), employee, app.ID); err != nil {
		t.Fatalf("expected withdraw to succeed without a post, got %v", err)
	}
}

func TestApplicationService_AcceptTwiceNotifiesTwice(t *testing.T) {
	f := newAppFixture()
	f.posts.seed("post-1", employer.UserID, 2)

	app, err := f.svc.Apply(context.Background(), employee, "post-1")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := f.svc.Accept(context.Background(), employer, app.ID)
		if err != nil {
			t.Fatalf("accept #%d failed: %v", i+1, err)
		}
		if got.Status != domain.StatusAccepted {
			t.Fatalf("accept #%d: expected accepted, got %s", i+1, got.Status)
		}
	}

	stored, _ := f.apps.FindByID(context.Background(), app.ID)
	if stored.Status != domain.StatusAccepted {
		t.Fatalf("expected stored status accepted, got %s", stored.Status)
	}
	accepted := f.notifier.byTemplate(domain.TemplateApplicationAccepted)
	if len(accepted) != 2 {
		t.Fatalf("expected two acceptance notifications, got %d", len(accepted))
	}
	for _, n := range accepted {
		if n.Recipient != employee.UserID {
			t.Fatalf("expected notification to the applicant, got %s", n.Recipient)
		}
	}
	if got := f.posts.workers("post-1"); got != 1 {
		t.Fatalf("review must not touch capacity, got %d open", got)
	}
}

func TestApplicationService_RejectThenAccept(t *testing.T) {
	f := newAppFixture()
	f.posts.seed("post-1", employer.UserID, 2)

	app, err := f.svc.Apply(context.Background(), employee, "post-1")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	rejected, err := f.svc.Reject(context.Background(), employer, app.ID)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != domain.StatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}

	accepted, err := f.svc.Accept(context.Background(), employer, app.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != domain.StatusAccepted {
		t.Fatalf("expected accepted, got %s", accepted.Status)
	}

	if n := len(f.notifier.byTemplate(domain.TemplateApplicationRejected)); n != 1 {
		t.Fatalf("expected one rejection notification, got %d", n)
	}
	if n := len(f.notifier.byTemplate(domain.TemplateApplicationAccepted)); n != 1 {
		t.Fatalf("expected one acceptance notification, got %d", n)
	}
}

func TestApplicationService_Review_NonOwnerRefused(t *testing.T) {
	f := newAppFixture()
	f.posts.seed("post-1", employer.UserID, 2)

	app, err := f.svc.Apply(context.Background(), employee, "post-1")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	before := f.notifier.total()

	if _, err := f.svc.Accept(context.Background(), otherEmployer, app.ID); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if f.notifier.total() != before {
		t.Fatalf("a refused review must not notify")
	}

	if _, err := f.svc.Reject(context.Background(), admin, app.ID); err != nil {
		t.Fatalf("admin reject failed: %v", err)
	}
}

func TestApplicationService_ListForPost(t *testing.T) {
	f := newAppFixture()
	f.posts.seed("post-1", employer.UserID, 5)

	for _, c := range []domain.Caller{employee, otherEmployee} {
		if _, err := f.svc.Apply(context.Background(), c, "post-1"); err != nil {
			t.Fatalf("apply failed: %v", err)
		}
	}

	apps, err := f.svc.ListForPost(context.Background(), employer, "post-1")
	if err != nil {
		t.Fatalf("ListForPost failed: %v", err)
	}
	if len(apps) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(apps))
	}

	if _, err := f.svc.ListForPost(context.Background(), otherEmployer, "post-1"); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	mine, err := f.svc.ListMine(context.Background(), employee)
	if err != nil {
		t.Fatalf("ListMine failed: %v", err)
	}
	if len(mine) != 1 || mine[0].UserID != employee.UserID {
		t.Fatalf("unexpected own applications: %+v", mine)
	}
}

func TestCapacityTracker_ReleaseStopsAtCapacity(t *testing.T) {
	posts := newStubPostRepo()
	posts.seed("post-1", employer.UserID, 2)
	tracker := NewCapacityTracker(posts, discardLogger)

	if err := tracker.ReleaseSlot(context.Background(), "post-1"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if got := posts.workers("post-1"); got != 2 {
		t.Fatalf("expected release to stop at capacity 2, got %d", got)
	}

	if err := tracker.ReserveSlot(context.Background(), "post-1"); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if err := tracker.ReserveSlot(context.Background(), "post-1"); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if err := tracker.ReserveSlot(context.Background(), "post-1"); !errors.Is(err, domain.ErrNoCapacity) {
		t.Fatalf("expected ErrNoCapacity, got %v", err)
	}
	if got := posts.workers("post-1"); got != 0 {
		t.Fatalf("expected 0 open slots, got %d", got)
	}
}
