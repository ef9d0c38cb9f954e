package review

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/opencongress/congresso/models"
)

// InvalidTransitionError is returned when a requested status change is not
// in the transition table for the abstract's current status.
type InvalidTransitionError struct {
	From models.AbstractStatus
	To   models.AbstractStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition from %q to %q", e.From, e.To)
}

// AbstractStore is the slice of the datastore the review service needs.
// Updates are guarded by the abstract's version token; implementations
// return a version-conflict error when the token no longer matches.
type AbstractStore interface {
	GetAbstractByID(ctx context.Context, id string) (*models.Abstract, error)
	UpdateAbstractStatus(ctx context.Context, id string, status models.AbstractStatus, expectedVersion int) error
	UpdateAbstractTypeAndStatus(ctx context.Context, id string, abstractType models.AbstractType, status models.AbstractStatus, expectedVersion int) error
	SetAbstractFinalVersion(ctx context.Context, id, filePath, fileHash string, expectedVersion int) error
}

// TransitionStore records the append-only audit trail of status changes.
type TransitionStore interface {
	CreateStatusTransition(ctx context.Context, transition *models.StatusTransition) error
	GetTransitionsByAbstractID(ctx context.Context, abstractID string) ([]models.StatusTransition, error)
}

// Notifier informs the submitting author about review decisions.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, abstract *models.Abstract, from, to models.AbstractStatus) error
}

// Service applies status transitions: it validates the move against the
// transition table, writes the new status under the version guard, and
// appends the audit record. Author notification is non-fatal.
type Service struct {
	abstracts   AbstractStore
	transitions TransitionStore
	notifier    Notifier
}

func NewService(abstracts AbstractStore, transitions TransitionStore, notifier Notifier) *Service {
	return &Service{
		abstracts:   abstracts,
		transitions: transitions,
		notifier:    notifier,
	}
}

// Transition moves the abstract to the requested status. It returns the
// updated abstract, or an InvalidTransitionError / version-conflict error.
func (s *Service) Transition(ctx context.Context, abstractID string, to models.AbstractStatus, actorID, note string) (*models.Abstract, error) {
	abstract, err := s.abstracts.GetAbstractByID(ctx, abstractID)
	if err != nil {
		return nil, fmt.Errorf("failed to load abstract %s: %w", abstractID, err)
	}

	from := abstract.Status
	if !CanTransition(from, to) {
		return nil, &InvalidTransitionError{From: from, To: to}
	}

	if err := s.abstracts.UpdateAbstractStatus(ctx, abstractID, to, abstract.Version); err != nil {
		return nil, fmt.Errorf("failed to update status of abstract %s: %w", abstractID, err)
	}

	s.recordAndNotify(ctx, abstract, from, to, actorID, note)

	abstract.Status = to
	abstract.Version++
	abstract.UpdatedAt = time.Now().UTC()
	return abstract, nil
}

// ExecuteTypeChange flips the abstract's presentation format and returns it
// to reviewing in a single guarded update. Only legal while the abstract is
// in type-change.
func (s *Service) ExecuteTypeChange(ctx context.Context, abstractID, actorID string) (*models.Abstract, error) {
	abstract, err := s.abstracts.GetAbstractByID(ctx, abstractID)
	if err != nil {
		return nil, fmt.Errorf("failed to load abstract %s: %w", abstractID, err)
	}

	from := abstract.Status
	if from != models.AbstractStatusTypeChange {
		return nil, &InvalidTransitionError{From: from, To: models.AbstractStatusReviewing}
	}

	flipped := abstract.Type.Flipped()
	if err := s.abstracts.UpdateAbstractTypeAndStatus(ctx, abstractID, flipped, models.AbstractStatusReviewing, abstract.Version); err != nil {
		return nil, fmt.Errorf("failed to execute type change for abstract %s: %w", abstractID, err)
	}

	note := fmt.Sprintf("type changed from %s to %s", abstract.Type, flipped)
	s.recordAndNotify(ctx, abstract, from, models.AbstractStatusReviewing, actorID, note)

	abstract.Type = flipped
	abstract.Status = models.AbstractStatusReviewing
	abstract.Version++
	abstract.UpdatedAt = time.Now().UTC()
	return abstract, nil
}

// AttachFinalVersion records the uploaded final file on an approved
// abstract and moves it to final-version, its terminal status.
func (s *Service) AttachFinalVersion(ctx context.Context, abstractID, actorID, filePath, fileHash string) (*models.Abstract, error) {
	abstract, err := s.abstracts.GetAbstractByID(ctx, abstractID)
	if err != nil {
		return nil, fmt.Errorf("failed to load abstract %s: %w", abstractID, err)
	}

	from := abstract.Status
	if !CanTransition(from, models.AbstractStatusFinalVersion) {
		return nil, &InvalidTransitionError{From: from, To: models.AbstractStatusFinalVersion}
	}

	if err := s.abstracts.SetAbstractFinalVersion(ctx, abstractID, filePath, fileHash, abstract.Version); err != nil {
		return nil, fmt.Errorf("failed to attach final version to abstract %s: %w", abstractID, err)
	}

	s.recordAndNotify(ctx, abstract, from, models.AbstractStatusFinalVersion, actorID, "final version uploaded: "+filePath)

	abstract.Status = models.AbstractStatusFinalVersion
	abstract.FinalFilePath = filePath
	abstract.FinalFileHash = fileHash
	abstract.Version++
	abstract.UpdatedAt = time.Now().UTC()
	return abstract, nil
}

// Transitions returns the audit trail for one abstract, newest first.
func (s *Service) Transitions(ctx context.Context, abstractID string) ([]models.StatusTransition, error) {
	transitions, err := s.transitions.GetTransitionsByAbstractID(ctx, abstractID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transitions for abstract %s: %w", abstractID, err)
	}
	return transitions, nil
}

// recordAndNotify appends the audit row and notifies the author. Both are
// non-fatal: the status write already succeeded.
func (s *Service) recordAndNotify(ctx context.Context, abstract *models.Abstract, from, to models.AbstractStatus, actorID, note string) {
	record := &models.StatusTransition{
		ID:         uuid.NewString(),
		AbstractID: abstract.ID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
		Note:       note,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.transitions.CreateStatusTransition(ctx, record); err != nil {
		log.Printf("WARN (ReviewService): Failed to record transition %s -> %s for abstract %s: %v", from, to, abstract.ID, err)
	}

	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyStatusChange(ctx, abstract, from, to); err != nil {
		log.Printf("WARN (ReviewService): Failed to notify author of abstract %s about %s -> %s: %v", abstract.ID, from, to, err)
	}
}
