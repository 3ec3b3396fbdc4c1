package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/domain/inventory"
	"github.com/medtrack/medtrack/internal/domain/prescription"
	"github.com/medtrack/medtrack/internal/platform/apperr"
	"github.com/medtrack/medtrack/internal/platform/auth"
)

// The facade reads through narrow source interfaces so it depends on no
// concrete domain service. Each is satisfied by the matching domain package.

type UserSource interface {
	CountByRole(ctx context.Context, role auth.Role) (int, error)
}

type MedicationSource interface {
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}

type ReminderSource interface {
	TallyForOwner(ctx context.Context, ownerID uuid.UUID) (int, int, error)
	Count(ctx context.Context) (int, error)
}

type PrescriptionSource interface {
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*prescription.Prescription, error)
	ListRecentByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]*prescription.Prescription, error)
	Count(ctx context.Context) (int, error)
}

type InventorySource interface {
	ListForPharmacist(ctx context.Context, pharmacistID uuid.UUID) ([]*inventory.Item, error)
	Count(ctx context.Context) (int, error)
}

type Service struct {
	users         UserSource
	medications   MedicationSource
	reminders     ReminderSource
	prescriptions PrescriptionSource
	stock         InventorySource
	now           func() time.Time
}

func NewService(users UserSource, medications MedicationSource, reminders ReminderSource,
	prescriptions PrescriptionSource, stock InventorySource) *Service {
	return &Service{
		users:         users,
		medications:   medications,
		reminders:     reminders,
		prescriptions: prescriptions,
		stock:         stock,
		now:           time.Now,
	}
}

// AdminOverview is the platform-wide activity summary.
type AdminOverview struct {
	Patients           int `json:"patients"`
	Doctors            int `json:"doctors"`
	Pharmacists        int `json:"pharmacists"`
	TotalPrescriptions int `json:"totalPrescriptions"`
	TotalReminders     int `json:"totalReminders"`
	TotalInventory     int `json:"totalInventoryItems"`
}

func (s *Service) AdminOverview(ctx context.Context, caller auth.Caller) (*AdminOverview, error) {
	if caller.Role != auth.RoleAdmin {
		return nil, apperr.Forbidden("admin analytics require the Admin role")
	}

	var (
		o   AdminOverview
		err error
	)
	if o.Patients, err = s.users.CountByRole(ctx, auth.RolePatient); err != nil {
		return nil, apperr.Unexpected(err, "count patients")
	}
	if o.Doctors, err = s.users.CountByRole(ctx, auth.RoleDoctor); err != nil {
		return nil, apperr.Unexpected(err, "count doctors")
	}
	if o.Pharmacists, err = s.users.CountByRole(ctx, auth.RolePharmacist); err != nil {
		return nil, apperr.Unexpected(err, "count pharmacists")
	}
	if o.TotalPrescriptions, err = s.prescriptions.Count(ctx); err != nil {
		return nil, apperr.Unexpected(err, "count prescriptions")
	}
	if o.TotalReminders, err = s.reminders.Count(ctx); err != nil {
		return nil, apperr.Unexpected(err, "count reminders")
	}
	if o.TotalInventory, err = s.stock.Count(ctx); err != nil {
		return nil, apperr.Unexpected(err, "count inventory")
	}
	return &o, nil
}

// DoctorOverview summarizes a doctor's issued prescriptions.
type DoctorOverview struct {
	TotalPrescriptions int          `json:"totalPrescriptions"`
	ActiveCount        int          `json:"activeCount"`
	ExpiredCount       int          `json:"expiredCount"`
	MonthlyIssued      []MonthCount `json:"monthlyIssued"`
}

func (s *Service) DoctorOverview(ctx context.Context, caller auth.Caller) (*DoctorOverview, error) {
	if caller.Role != auth.RoleDoctor {
		return nil, apperr.Forbidden("doctor analytics require the Doctor role")
	}

	list, err := s.prescriptions.ListByDoctor(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	o := DoctorOverview{TotalPrescriptions: len(list)}
	issued := make([]time.Time, 0, len(list))
	for _, p := range list {
		issued = append(issued, p.CreatedAt)
		switch p.Status {
		case prescription.StatusActive:
			o.ActiveCount++
		case prescription.StatusExpired:
			o.ExpiredCount++
		}
	}
	o.MonthlyIssued = MonthlyBuckets(issued, s.now())
	return &o, nil
}

// PharmacyOverview summarizes a pharmacist's stock alerts.
type PharmacyOverview struct {
	TotalItems    int     `json:"totalItems"`
	LowStock      int     `json:"lowStockCount"`
	Expired       int     `json:"expiredCount"`
	ExpiringSoon  int     `json:"expiringSoonCount"`
	TotalQuantity int     `json:"totalQuantity"`
	StockValue    float64 `json:"stockValue"`
}

func (s *Service) PharmacyOverview(ctx context.Context, caller auth.Caller) (*PharmacyOverview, error) {
	if caller.Role != auth.RolePharmacist {
		return nil, apperr.Forbidden("pharmacy analytics require the Pharmacist role")
	}

	items, err := s.stock.ListForPharmacist(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	o := PharmacyOverview{TotalItems: len(items)}
	for _, item := range items {
		if item.IsLowStock {
			o.LowStock++
		}
		if item.IsExpired {
			o.Expired++
		}
		if item.IsExpiringSoon {
			o.ExpiringSoon++
		}
		o.TotalQuantity += item.Quantity
		o.StockValue += item.Price * float64(item.Quantity)
	}
	return &o, nil
}

// PatientOverview summarizes a patient's adherence and recent prescriptions.
type PatientOverview struct {
	Medications         int                          `json:"medications"`
	TotalReminders      int                          `json:"totalReminders"`
	TakenReminders      int                          `json:"takenReminders"`
	MissedReminders     int                          `json:"missedReminders"`
	AdherencePercentage int                          `json:"adherencePercentage"`
	WeeklyTrend         []int                        `json:"weeklyTrend"`
	RecentPrescriptions []*prescription.Prescription `json:"recentPrescriptions"`
}

const recentPrescriptionLimit = 5

func (s *Service) PatientOverview(ctx context.Context, caller auth.Caller) (*PatientOverview, error) {
	if caller.Role != auth.RolePatient {
		return nil, apperr.Forbidden("patient analytics require the Patient role")
	}

	var (
		o   PatientOverview
		err error
	)
	if o.Medications, err = s.medications.CountByOwner(ctx, caller.ID); err != nil {
		return nil, apperr.Unexpected(err, "count medications")
	}
	if o.TotalReminders, o.TakenReminders, err = s.reminders.TallyForOwner(ctx, caller.ID); err != nil {
		return nil, apperr.Unexpected(err, "tally reminders")
	}
	o.MissedReminders = o.TotalReminders - o.TakenReminders
	o.AdherencePercentage = Percentage(o.TakenReminders, o.TotalReminders)
	o.WeeklyTrend = WeeklyTrend(o.AdherencePercentage)

	if o.RecentPrescriptions, err = s.prescriptions.ListRecentByPatient(ctx, caller.ID, recentPrescriptionLimit); err != nil {
		return nil, err
	}
	if o.RecentPrescriptions == nil {
		o.RecentPrescriptions = []*prescription.Prescription{}
	}
	return &o, nil
}
