package review

import (
	"context"
	"errors"
	"testing"

	"github.com/opencongress/congresso/models"
)

type fakeAbstractStore struct {
	abstract    *models.Abstract
	statusErr   error
	gotStatus   models.AbstractStatus
	gotType     models.AbstractType
	gotFilePath string
	gotVersion  int
	calls       int
}

func (f *fakeAbstractStore) GetAbstractByID(_ context.Context, id string) (*models.Abstract, error) {
	if f.abstract == nil || f.abstract.ID != id {
		return nil, errors.New("abstract not found")
	}
	cp := *f.abstract
	return &cp, nil
}

func (f *fakeAbstractStore) UpdateAbstractStatus(_ context.Context, _ string, status models.AbstractStatus, expectedVersion int) error {
	f.calls++
	f.gotStatus = status
	f.gotVersion = expectedVersion
	return f.statusErr
}

func (f *fakeAbstractStore) UpdateAbstractTypeAndStatus(_ context.Context, _ string, abstractType models.AbstractType, status models.AbstractStatus, expectedVersion int) error {
	f.calls++
	f.gotType = abstractType
	f.gotStatus = status
	f.gotVersion = expectedVersion
	return f.statusErr
}

func (f *fakeAbstractStore) SetAbstractFinalVersion(_ context.Context, _ string, filePath, _ string, expectedVersion int) error {
	f.calls++
	f.gotFilePath = filePath
	f.gotVersion = expectedVersion
	return f.statusErr
}

type fakeTransitionStore struct {
	records []*models.StatusTransition
}

func (f *fakeTransitionStore) CreateStatusTransition(_ context.Context, tr *models.StatusTransition) error {
	f.records = append(f.records, tr)
	return nil
}

func (f *fakeTransitionStore) GetTransitionsByAbstractID(_ context.Context, _ string) ([]models.StatusTransition, error) {
	out := make([]models.StatusTransition, len(f.records))
	for i, r := range f.records {
		out[i] = *r
	}
	return out, nil
}

type fakeNotifier struct {
	notified int
	lastFrom models.AbstractStatus
	lastTo   models.AbstractStatus
}

func (f *fakeNotifier) NotifyStatusChange(_ context.Context, _ *models.Abstract, from, to models.AbstractStatus) error {
	f.notified++
	f.lastFrom = from
	f.lastTo = to
	return nil
}

func newTestAbstract(status models.AbstractStatus) *models.Abstract {
	return &models.Abstract{
		ID:      "a1",
		Status:  status,
		Type:    models.AbstractTypePoster,
		Version: 3,
	}
}

func TestTransitionHappyPath(t *testing.T) {
	store := &fakeAbstractStore{abstract: newTestAbstract(models.AbstractStatusSubmitted)}
	audit := &fakeTransitionStore{}
	notifier := &fakeNotifier{}
	svc := NewService(store, audit, notifier)

	updated, err := svc.Transition(context.Background(), "a1", models.AbstractStatusReviewing, "reviewer-1", "starting review")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != models.AbstractStatusReviewing {
		t.Errorf("status = %s, want reviewing", updated.Status)
	}
	if updated.Version != 4 {
		t.Errorf("version = %d, want 4", updated.Version)
	}
	if store.gotVersion != 3 {
		t.Errorf("update used version guard %d, want 3", store.gotVersion)
	}
	if len(audit.records) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(audit.records))
	}
	rec := audit.records[0]
	if rec.FromStatus != models.AbstractStatusSubmitted || rec.ToStatus != models.AbstractStatusReviewing {
		t.Errorf("audit record %s -> %s, want submitted -> reviewing", rec.FromStatus, rec.ToStatus)
	}
	if rec.ActorID != "reviewer-1" || rec.Note != "starting review" {
		t.Errorf("audit record actor/note not preserved: %+v", rec)
	}
	if notifier.notified != 1 || notifier.lastTo != models.AbstractStatusReviewing {
		t.Errorf("author should have been notified once of the new status")
	}
}

func TestTransitionRejectsIllegalMove(t *testing.T) {
	store := &fakeAbstractStore{abstract: newTestAbstract(models.AbstractStatusSubmitted)}
	svc := NewService(store, &fakeTransitionStore{}, nil)

	_, err := svc.Transition(context.Background(), "a1", models.AbstractStatusApproved, "reviewer-1", "")
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if invalid.From != models.AbstractStatusSubmitted || invalid.To != models.AbstractStatusApproved {
		t.Errorf("error carries %s -> %s, want submitted -> approved", invalid.From, invalid.To)
	}
	if store.calls != 0 {
		t.Error("no write should happen for an illegal transition")
	}
}

func TestTransitionPropagatesVersionConflict(t *testing.T) {
	conflict := errors.New("version conflict")
	store := &fakeAbstractStore{
		abstract:  newTestAbstract(models.AbstractStatusReviewing),
		statusErr: conflict,
	}
	audit := &fakeTransitionStore{}
	svc := NewService(store, audit, nil)

	_, err := svc.Transition(context.Background(), "a1", models.AbstractStatusApproved, "reviewer-1", "")
	if !errors.Is(err, conflict) {
		t.Fatalf("expected wrapped conflict error, got %v", err)
	}
	if len(audit.records) != 0 {
		t.Error("no audit record should be written when the status write fails")
	}
}

func TestExecuteTypeChange(t *testing.T) {
	store := &fakeAbstractStore{abstract: newTestAbstract(models.AbstractStatusTypeChange)}
	audit := &fakeTransitionStore{}
	svc := NewService(store, audit, nil)

	updated, err := svc.ExecuteTypeChange(context.Background(), "a1", "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Type != models.AbstractTypeOral {
		t.Errorf("type = %s, want oral", updated.Type)
	}
	if updated.Status != models.AbstractStatusReviewing {
		t.Errorf("status = %s, want reviewing", updated.Status)
	}
	if store.gotType != models.AbstractTypeOral || store.gotStatus != models.AbstractStatusReviewing {
		t.Error("store should receive the flipped type and reviewing status in one update")
	}
}

func TestExecuteTypeChangeRequiresTypeChangeStatus(t *testing.T) {
	store := &fakeAbstractStore{abstract: newTestAbstract(models.AbstractStatusReviewing)}
	svc := NewService(store, &fakeTransitionStore{}, nil)

	_, err := svc.ExecuteTypeChange(context.Background(), "a1", "admin-1")
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
}

func TestAttachFinalVersion(t *testing.T) {
	store := &fakeAbstractStore{abstract: newTestAbstract(models.AbstractStatusApproved)}
	audit := &fakeTransitionStore{}
	svc := NewService(store, audit, nil)

	updated, err := svc.AttachFinalVersion(context.Background(), "a1", "account-1", "final-versions/a1.pdf", "deadbeef")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != models.AbstractStatusFinalVersion {
		t.Errorf("status = %s, want final-version", updated.Status)
	}
	if updated.FinalFilePath != "final-versions/a1.pdf" {
		t.Errorf("final file path not recorded: %q", updated.FinalFilePath)
	}
	if store.gotFilePath != "final-versions/a1.pdf" {
		t.Errorf("store received path %q", store.gotFilePath)
	}
}

func TestAttachFinalVersionRequiresApproved(t *testing.T) {
	for _, status := range []models.AbstractStatus{
		models.AbstractStatusSubmitted,
		models.AbstractStatusReviewing,
		models.AbstractStatusRejected,
		models.AbstractStatusFinalVersion,
	} {
		store := &fakeAbstractStore{abstract: newTestAbstract(status)}
		svc := NewService(store, &fakeTransitionStore{}, nil)
		if _, err := svc.AttachFinalVersion(context.Background(), "a1", "account-1", "p", "h"); err == nil {
			t.Errorf("final version attach from %s should fail", status)
		}
	}
}
