package medication

import (
	"context"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/analytics"
	"github.com/medtrack/medtrack/internal/platform/apperr"
	"github.com/medtrack/medtrack/internal/platform/auth"
)

// ReminderPlanner generates and discards the reminder calendar for a
// medication. Implemented by the reminder service; wired in main to avoid an
// import cycle between the two domains.
type ReminderPlanner interface {
	PlanForMedication(ctx context.Context, ownerID, medicationID uuid.UUID, freq Frequency, timeOfDay string) (int, error)
	DiscardForMedication(ctx context.Context, medicationID uuid.UUID) error
	TallyForMedication(ctx context.Context, medicationID uuid.UUID) (total, taken int, err error)
}

type Service struct {
	repo    Repository
	planner ReminderPlanner
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SetReminderPlanner attaches the reminder planner collaborator.
func (s *Service) SetReminderPlanner(p ReminderPlanner) {
	s.planner = p
}

// Create registers a medication for the calling patient and generates its
// reminder calendar in the same call. Generation is not idempotent: it runs
// exactly once here, never again for the same medication.
func (s *Service) Create(ctx context.Context, caller auth.Caller, m *Medication) error {
	if caller.Role != auth.RolePatient {
		return apperr.Forbidden("only patients can add medications")
	}
	if m.Name == "" || m.Dosage == "" || m.Frequency == "" || m.TimeOfDay == "" {
		return apperr.Validation("name, dosage, frequency, and time are required")
	}
	if !m.Frequency.Valid() {
		return apperr.Validation("invalid frequency %q", m.Frequency)
	}
	if m.NotificationType == "" {
		m.NotificationType = "Push"
	}
	m.UserID = caller.ID
	m.Status = StatusActive
	m.AdherenceCount = 0

	if err := s.repo.Create(ctx, m); err != nil {
		return apperr.Unexpected(err, "create medication")
	}

	if s.planner != nil {
		if _, err := s.planner.PlanForMedication(ctx, caller.ID, m.ID, m.Frequency, m.TimeOfDay); err != nil {
			return apperr.Unexpected(err, "generate reminders")
		}
	}
	return nil
}

// List returns the calling patient's medications, newest first.
func (s *Service) List(ctx context.Context, caller auth.Caller) ([]*Medication, error) {
	if caller.Role != auth.RolePatient {
		return nil, apperr.Forbidden("only patients can view medications")
	}
	meds, err := s.repo.ListByOwner(ctx, caller.ID)
	if err != nil {
		return nil, apperr.Unexpected(err, "list medications")
	}
	return meds, nil
}

func (s *Service) get(ctx context.Context, caller auth.Caller, id uuid.UUID) (*Medication, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("medication not found")
	}
	if m.UserID != caller.ID {
		return nil, apperr.Forbidden("not authorized for this medication")
	}
	return m, nil
}

// Update applies owner edits. Frequency changes do not regenerate reminders.
func (s *Service) Update(ctx context.Context, caller auth.Caller, id uuid.UUID, in *Medication) (*Medication, error) {
	m, err := s.get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		m.Name = in.Name
	}
	if in.Dosage != "" {
		m.Dosage = in.Dosage
	}
	if in.Frequency != "" {
		if !in.Frequency.Valid() {
			return nil, apperr.Validation("invalid frequency %q", in.Frequency)
		}
		m.Frequency = in.Frequency
	}
	if in.TimeOfDay != "" {
		m.TimeOfDay = in.TimeOfDay
	}
	if in.NotificationType != "" {
		m.NotificationType = in.NotificationType
	}
	if in.Status != "" {
		if !in.Status.Valid() {
			return nil, apperr.Validation("invalid status %q", in.Status)
		}
		m.Status = in.Status
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, apperr.Unexpected(err, "update medication")
	}
	return m, nil
}

// Delete removes the medication and cascades to every reminder that
// references it.
func (s *Service) Delete(ctx context.Context, caller auth.Caller, id uuid.UUID) error {
	if _, err := s.get(ctx, caller, id); err != nil {
		return err
	}
	if s.planner != nil {
		if err := s.planner.DiscardForMedication(ctx, id); err != nil {
			return apperr.Unexpected(err, "delete reminders")
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Unexpected(err, "delete medication")
	}
	return nil
}

// Adherence reports the taken/total ratio over the medication's reminders.
func (s *Service) Adherence(ctx context.Context, caller auth.Caller, id uuid.UUID) (*AdherenceSummary, error) {
	m, err := s.get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	var total, taken int
	if s.planner != nil {
		total, taken, err = s.planner.TallyForMedication(ctx, id)
		if err != nil {
			return nil, apperr.Unexpected(err, "tally reminders")
		}
	}
	return &AdherenceSummary{
		MedicationID:        m.ID,
		MedicationName:      m.Name,
		TotalReminders:      total,
		TakenReminders:      taken,
		MissedReminders:     total - taken,
		AdherencePercentage: analytics.Percentage(taken, total),
	}, nil
}
