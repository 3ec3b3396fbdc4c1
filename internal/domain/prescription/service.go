package prescription

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/platform/apperr"
	"github.com/medtrack/medtrack/internal/platform/auth"
	"github.com/medtrack/medtrack/internal/platform/notification"
)

// PatientDirectory resolves the patient a prescription targets, the name of
// the issuing doctor, and notification addresses. Implemented by the
// identity service.
type PatientDirectory interface {
	FindPatientByEmail(ctx context.Context, email string) (uuid.UUID, error)
	DisplayName(ctx context.Context, id uuid.UUID) (string, error)
	EmailOf(ctx context.Context, id uuid.UUID) (string, error)
}

// Notifier sends templated notices. Implemented by the notification
// dispatcher.
type Notifier interface {
	SendFromTemplate(ctx context.Context, templateID, recipient string, data map[string]string) (*notification.Notice, error)
}

type Service struct {
	repo     Repository
	patients PatientDirectory
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, patients PatientDirectory) *Service {
	return &Service{repo: repo, patients: patients, now: time.Now}
}

// SetNotifier enables new-prescription notices. Optional; without it Create
// still persists normally.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// CreateInput carries the doctor-supplied fields. The patient is addressed
// by email, not ID, matching how doctors identify patients at the desk.
type CreateInput struct {
	PatientEmail string    `json:"patientEmail"`
	MedicineName string    `json:"medicineName"`
	Dosage       string    `json:"dosage"`
	DurationDays int       `json:"duration"`
	StartDate    time.Time `json:"startDate"`
	ExpiryDate   time.Time `json:"expiryDate"`
	Notes        string    `json:"notes"`
}

func (s *Service) Create(ctx context.Context, caller auth.Caller, in *CreateInput) (*Prescription, error) {
	if caller.Role != auth.RoleDoctor {
		return nil, apperr.Forbidden("only doctors can issue prescriptions")
	}
	if in.PatientEmail == "" || in.MedicineName == "" || in.Dosage == "" {
		return nil, apperr.Validation("patientEmail, medicineName, and dosage are required")
	}
	if in.DurationDays <= 0 && in.ExpiryDate.IsZero() {
		return nil, apperr.Validation("either duration or expiryDate is required")
	}

	patientID, err := s.patients.FindPatientByEmail(ctx, in.PatientEmail)
	if err != nil {
		return nil, apperr.NotFound("no patient with email %s", in.PatientEmail)
	}

	now := s.now()
	start := in.StartDate
	if start.IsZero() {
		start = now
	}
	expiry := in.ExpiryDate
	if expiry.IsZero() {
		expiry = DeriveExpiry(start, in.DurationDays)
	}

	p := &Prescription{
		DoctorID:     caller.ID,
		PatientID:    patientID,
		MedicineName: in.MedicineName,
		Dosage:       in.Dosage,
		DurationDays: in.DurationDays,
		StartDate:    start,
		ExpiryDate:   expiry,
		Status:       StatusFor(expiry, now),
		Notes:        in.Notes,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperr.Unexpected(err, "persist prescription")
	}
	s.notifyIssued(ctx, caller.ID, in.PatientEmail, p)
	return p, nil
}

// notifyIssued tells the patient about a new prescription. Delivery problems
// never fail the issuing request.
func (s *Service) notifyIssued(ctx context.Context, doctorID uuid.UUID, patientEmail string, p *Prescription) {
	if s.notifier == nil {
		return
	}
	doctorName, err := s.patients.DisplayName(ctx, doctorID)
	if err != nil {
		doctorName = "your doctor"
	}
	_, _ = s.notifier.SendFromTemplate(ctx, notification.TemplateNewPrescription, patientEmail, map[string]string{
		"doctor_name": doctorName,
		"medicine":    p.MedicineName,
		"dosage":      p.Dosage,
		"expiry":      p.ExpiryDate.Format("2006-01-02"),
	})
}

// List returns the prescriptions visible to the caller: a patient sees those
// issued to them, a doctor those they issued. Statuses are resolved and any
// Active record past its expiry is persisted as Expired before returning.
func (s *Service) List(ctx context.Context, caller auth.Caller) ([]*Prescription, error) {
	var (
		list []*Prescription
		err  error
	)
	switch caller.Role {
	case auth.RolePatient:
		list, err = s.repo.ListByPatient(ctx, caller.ID)
	case auth.RoleDoctor:
		list, err = s.repo.ListByDoctor(ctx, caller.ID)
	default:
		return nil, apperr.Forbidden("prescriptions are visible to patients and doctors only")
	}
	if err != nil {
		return nil, apperr.Unexpected(err, "list prescriptions")
	}
	if err := s.resolveAll(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, caller auth.Caller, id uuid.UUID) (*Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("prescription not found")
	}
	switch {
	case caller.Role == auth.RoleDoctor && p.DoctorID == caller.ID:
	case caller.Role == auth.RolePatient && p.PatientID == caller.ID:
	default:
		return nil, apperr.Forbidden("not authorized for this prescription")
	}
	if err := s.resolveAll(ctx, []*Prescription{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateInput carries doctor-editable fields. Zero values leave the stored
// field unchanged, except ExpiryDate which, when supplied, recomputes status.
type UpdateInput struct {
	MedicineName string    `json:"medicineName"`
	Dosage       string    `json:"dosage"`
	DurationDays int       `json:"duration"`
	ExpiryDate   time.Time `json:"expiryDate"`
	Notes        string    `json:"notes"`
}

func (s *Service) Update(ctx context.Context, caller auth.Caller, id uuid.UUID, in *UpdateInput) (*Prescription, error) {
	p, err := s.issued(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if in.MedicineName != "" {
		p.MedicineName = in.MedicineName
	}
	if in.Dosage != "" {
		p.Dosage = in.Dosage
	}
	if in.Notes != "" {
		p.Notes = in.Notes
	}
	if in.DurationDays > 0 {
		p.DurationDays = in.DurationDays
		if in.ExpiryDate.IsZero() {
			p.ExpiryDate = DeriveExpiry(p.StartDate, in.DurationDays)
		}
	}
	if !in.ExpiryDate.IsZero() {
		p.ExpiryDate = in.ExpiryDate
	}
	// An edited expiry recomputes status on the write path. This is the
	// only place an Expired prescription can return to Active.
	if in.DurationDays > 0 || !in.ExpiryDate.IsZero() {
		p.Status = StatusFor(p.ExpiryDate, s.now())
	} else {
		Resolve(p, s.now())
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apperr.Unexpected(err, "update prescription")
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, caller auth.Caller, id uuid.UUID) error {
	if _, err := s.issued(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Unexpected(err, "delete prescription")
	}
	return nil
}

// ListRecentByPatient returns the patient's newest prescriptions, statuses
// resolved. Used by patient analytics.
func (s *Service) ListRecentByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]*Prescription, error) {
	list, err := s.repo.ListRecentByPatient(ctx, patientID, limit)
	if err != nil {
		return nil, apperr.Unexpected(err, "list recent prescriptions")
	}
	if err := s.resolveAll(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListByDoctor returns a doctor's issued prescriptions with resolved
// statuses. Used by doctor analytics.
func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Prescription, error) {
	list, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, apperr.Unexpected(err, "list prescriptions")
	}
	if err := s.resolveAll(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) issued(ctx context.Context, caller auth.Caller, id uuid.UUID) (*Prescription, error) {
	if caller.Role != auth.RoleDoctor {
		return nil, apperr.Forbidden("only the issuing doctor can modify a prescription")
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("prescription not found")
	}
	if p.DoctorID != caller.ID {
		return nil, apperr.Forbidden("not authorized for this prescription")
	}
	return p, nil
}

func (s *Service) resolveAll(ctx context.Context, list []*Prescription) error {
	now := s.now()
	for _, p := range list {
		if Resolve(p, now) {
			if err := s.repo.UpdateStatus(ctx, p.ID, p.Status); err != nil {
				return apperr.Unexpected(err, "persist resolved status")
			}
			s.notifyExpired(ctx, p)
		}
	}
	return nil
}

// notifyExpired tells the patient their prescription lapsed. Sent once, on
// the read that persists the transition; delivery problems never fail the
// read.
func (s *Service) notifyExpired(ctx context.Context, p *Prescription) {
	if s.notifier == nil {
		return
	}
	email, err := s.patients.EmailOf(ctx, p.PatientID)
	if err != nil {
		return
	}
	_, _ = s.notifier.SendFromTemplate(ctx, notification.TemplatePrescriptionExpired, email, map[string]string{
		"medicine": p.MedicineName,
		"expiry":   p.ExpiryDate.Format("2006-01-02"),
	})
}
