package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/medication"
	"github.com/medtrack/medtrack/internal/platform/apperr"
	"github.com/medtrack/medtrack/internal/platform/auth"
	"github.com/medtrack/medtrack/pkg/pagination"
)

// DefaultSnoozeMinutes is acknowledged back to the caller when no snooze
// duration is supplied. It is not persisted and does not reschedule anything.
const DefaultSnoozeMinutes = 15

// AdherenceRecorder propagates a taken event into the owning medication's
// adherence counter. Implemented by the medication repository.
type AdherenceRecorder interface {
	IncrementAdherence(ctx context.Context, medicationID uuid.UUID) error
}

type Service struct {
	repo        Repository
	adherence   AdherenceRecorder
	horizonDays int
	now         func() time.Time
}

func NewService(repo Repository, horizonDays int) *Service {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return &Service{repo: repo, horizonDays: horizonDays, now: time.Now}
}

// SetAdherenceRecorder attaches the medication-side counter collaborator.
func (s *Service) SetAdherenceRecorder(a AdherenceRecorder) {
	s.adherence = a
}

// Generate produces and persists the reminder calendar for a medication over
// the service's horizon, starting today. A frequency that matches no days
// yields an empty batch without error.
//
// Generation is not idempotent: calling it twice for the same medication
// duplicates the calendar. The medication-create path is the only caller.
func (s *Service) Generate(ctx context.Context, caller auth.Caller, medicationID uuid.UUID, freq medication.Frequency, timeOfDay string) ([]*Reminder, error) {
	if caller.Role != auth.RolePatient {
		return nil, apperr.Forbidden("only patients can generate reminders")
	}
	if medicationID == uuid.Nil || freq == "" || timeOfDay == "" {
		return nil, apperr.Validation("medication_id, frequency, and time are required")
	}
	if !freq.Valid() {
		return nil, apperr.Validation("invalid frequency %q", freq)
	}

	days := Occurrences(freq, s.now(), s.horizonDays)
	batch := buildBatch(caller.ID, medicationID, timeOfDay, days)
	if len(batch) == 0 {
		return []*Reminder{}, nil
	}
	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return nil, apperr.Unexpected(err, "persist reminder batch")
	}
	return batch, nil
}

// PlanForMedication satisfies medication.ReminderPlanner.
func (s *Service) PlanForMedication(ctx context.Context, ownerID, medicationID uuid.UUID, freq medication.Frequency, timeOfDay string) (int, error) {
	batch, err := s.Generate(ctx, auth.Caller{ID: ownerID, Role: auth.RolePatient}, medicationID, freq, timeOfDay)
	if err != nil {
		return 0, err
	}
	return len(batch), nil
}

// DiscardForMedication removes every reminder of a deleted medication.
func (s *Service) DiscardForMedication(ctx context.Context, medicationID uuid.UUID) error {
	return s.repo.DeleteByMedication(ctx, medicationID)
}

// TallyForMedication reports (total, taken) over a medication's reminders.
func (s *Service) TallyForMedication(ctx context.Context, medicationID uuid.UUID) (int, int, error) {
	return s.repo.TallyForMedication(ctx, medicationID)
}

func (s *Service) owned(ctx context.Context, caller auth.Caller, reminderID uuid.UUID) (*Reminder, error) {
	if caller.Role != auth.RolePatient {
		return nil, apperr.Forbidden("only patients can update reminders")
	}
	r, err := s.repo.GetByID(ctx, reminderID)
	if err != nil {
		return nil, apperr.NotFound("reminder not found")
	}
	if r.UserID != caller.ID {
		return nil, apperr.Forbidden("not authorized for this reminder")
	}
	return r, nil
}

// MarkTaken transitions the reminder to Taken (clearing any snooze) and
// increments the owning medication's adherence counter. The transition is
// idempotent state-wise, but the counter increment is not guarded: a repeated
// call increments again, matching the lenient original behavior.
func (s *Service) MarkTaken(ctx context.Context, caller auth.Caller, reminderID uuid.UUID) (*Reminder, error) {
	r, err := s.owned(ctx, caller, reminderID)
	if err != nil {
		return nil, err
	}

	r.Taken = true
	r.Snoozed = false
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, apperr.Unexpected(err, "update reminder")
	}

	if s.adherence != nil {
		if err := s.adherence.IncrementAdherence(ctx, r.MedicationID); err != nil {
			return nil, apperr.Unexpected(err, "record adherence")
		}
	}
	return r, nil
}

// Snooze flags the reminder snoozed and counts the snooze. The snooze
// duration is acknowledgment-only metadata echoed back to the caller; it is
// neither persisted nor used to reschedule. Taken is untouched.
func (s *Service) Snooze(ctx context.Context, caller auth.Caller, reminderID uuid.UUID, snoozeMinutes int) (*Reminder, int, error) {
	if snoozeMinutes <= 0 {
		snoozeMinutes = DefaultSnoozeMinutes
	}
	r, err := s.owned(ctx, caller, reminderID)
	if err != nil {
		return nil, 0, err
	}

	r.Snoozed = true
	r.SnoozeCount++
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, 0, apperr.Unexpected(err, "update reminder")
	}
	return r, snoozeMinutes, nil
}

// List returns a page of the calling patient's reminders plus the total
// count, optionally restricted to a single calendar day.
func (s *Service) List(ctx context.Context, caller auth.Caller, date *time.Time, page pagination.Params) ([]*Reminder, int, error) {
	if caller.Role != auth.RolePatient {
		return nil, 0, apperr.Forbidden("only patients can view reminders")
	}
	reminders, total, err := s.repo.ListByOwner(ctx, caller.ID, date, page)
	if err != nil {
		return nil, 0, apperr.Unexpected(err, "list reminders")
	}
	return reminders, total, nil
}

// Today returns the calling patient's reminders due today.
func (s *Service) Today(ctx context.Context, caller auth.Caller, page pagination.Params) ([]*Reminder, int, error) {
	today := s.now()
	return s.List(ctx, caller, &today, page)
}

// Count reports the total number of reminders in the system.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// TallyForOwner reports (total, taken) over all of a patient's reminders.
func (s *Service) TallyForOwner(ctx context.Context, ownerID uuid.UUID) (int, int, error) {
	return s.repo.TallyForOwner(ctx, ownerID)
}
