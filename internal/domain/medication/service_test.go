package medication

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/platform/apperr"
	"github.com/medtrack/medtrack/internal/platform/auth"
)

// -- Mock Repository --

type mockRepo struct {
	meds map[uuid.UUID]*Medication
}

func newMockRepo() *mockRepo {
	return &mockRepo{meds: make(map[uuid.UUID]*Medication)}
}

func (m *mockRepo) Create(_ context.Context, med *Medication) error {
	med.ID = uuid.New()
	med.CreatedAt = time.Now()
	med.UpdatedAt = time.Now()
	m.meds[med.ID] = med
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Medication, error) {
	med, ok := m.meds[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return med, nil
}

func (m *mockRepo) Update(_ context.Context, med *Medication) error {
	m.meds[med.ID] = med
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.meds, id)
	return nil
}

func (m *mockRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*Medication, error) {
	var result []*Medication
	for _, med := range m.meds {
		if med.UserID == ownerID {
			result = append(result, med)
		}
	}
	return result, nil
}

func (m *mockRepo) CountByOwner(_ context.Context, ownerID uuid.UUID) (int, error) {
	list, _ := m.ListByOwner(context.Background(), ownerID)
	return len(list), nil
}

func (m *mockRepo) IncrementAdherence(_ context.Context, id uuid.UUID) error {
	if med, ok := m.meds[id]; ok {
		med.AdherenceCount++
	}
	return nil
}

// -- Mock planner --

type mockPlanner struct {
	planned   map[uuid.UUID]int
	discarded map[uuid.UUID]bool
	total     int
	taken     int
}

func newMockPlanner() *mockPlanner {
	return &mockPlanner{planned: make(map[uuid.UUID]int), discarded: make(map[uuid.UUID]bool)}
}

func (m *mockPlanner) PlanForMedication(_ context.Context, _, medicationID uuid.UUID, _ Frequency, _ string) (int, error) {
	m.planned[medicationID] = 30
	return 30, nil
}

func (m *mockPlanner) DiscardForMedication(_ context.Context, medicationID uuid.UUID) error {
	m.discarded[medicationID] = true
	return nil
}

func (m *mockPlanner) TallyForMedication(_ context.Context, _ uuid.UUID) (int, int, error) {
	return m.total, m.taken, nil
}

func patient() auth.Caller {
	return auth.Caller{ID: uuid.New(), Role: auth.RolePatient}
}

func TestCreate_PlansReminders(t *testing.T) {
	repo := newMockRepo()
	planner := newMockPlanner()
	svc := NewService(repo)
	svc.SetReminderPlanner(planner)

	caller := patient()
	m := &Medication{Name: "Metformin", Dosage: "850mg", Frequency: FrequencyDaily, TimeOfDay: "09:00"}
	if err := svc.Create(context.Background(), caller, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.UserID != caller.ID {
		t.Error("expected owner set from caller")
	}
	if m.Status != StatusActive {
		t.Errorf("expected Active default, got %s", m.Status)
	}
	if m.NotificationType != "Push" {
		t.Errorf("expected Push default, got %s", m.NotificationType)
	}
	if m.AdherenceCount != 0 {
		t.Errorf("expected zero adherence count, got %d", m.AdherenceCount)
	}
	if planner.planned[m.ID] != 30 {
		t.Error("expected reminder plan to run on create")
	}
}

func TestCreate_MissingFields(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Create(context.Background(), patient(), &Medication{Name: "X"})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected Validation, got %v", err)
	}
}

func TestCreate_NonPatientForbidden(t *testing.T) {
	svc := NewService(newMockRepo())
	doctor := auth.Caller{ID: uuid.New(), Role: auth.RoleDoctor}
	err := svc.Create(context.Background(), doctor, &Medication{
		Name: "X", Dosage: "1mg", Frequency: FrequencyDaily, TimeOfDay: "09:00",
	})
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("expected Forbidden, got %v", err)
	}
}

func TestUpdate_InvalidFrequencyRejected(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	caller := patient()
	m := &Medication{Name: "X", Dosage: "1mg", Frequency: FrequencyDaily, TimeOfDay: "09:00"}
	if err := svc.Create(context.Background(), caller, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Update(context.Background(), caller, m.ID, &Medication{Frequency: Frequency("Weekly")})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected Validation, got %v", err)
	}
}

func TestUpdate_OtherOwnerForbidden(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	owner := patient()
	m := &Medication{Name: "X", Dosage: "1mg", Frequency: FrequencyDaily, TimeOfDay: "09:00"}
	if err := svc.Create(context.Background(), owner, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Update(context.Background(), patient(), m.ID, &Medication{Name: "Y"})
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("expected Forbidden, got %v", err)
	}
}

func TestDelete_CascadesToReminders(t *testing.T) {
	repo := newMockRepo()
	planner := newMockPlanner()
	svc := NewService(repo)
	svc.SetReminderPlanner(planner)

	caller := patient()
	m := &Medication{Name: "X", Dosage: "1mg", Frequency: FrequencyDaily, TimeOfDay: "09:00"}
	if err := svc.Create(context.Background(), caller, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(context.Background(), caller, m.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !planner.discarded[m.ID] {
		t.Error("expected reminders discarded on medication delete")
	}
	if _, err := repo.GetByID(context.Background(), m.ID); err == nil {
		t.Error("expected medication deleted")
	}
}

func TestAdherence(t *testing.T) {
	repo := newMockRepo()
	planner := newMockPlanner()
	planner.total, planner.taken = 10, 7
	svc := NewService(repo)
	svc.SetReminderPlanner(planner)

	caller := patient()
	m := &Medication{Name: "Metformin", Dosage: "850mg", Frequency: FrequencyDaily, TimeOfDay: "09:00"}
	if err := svc.Create(context.Background(), caller, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := svc.Adherence(context.Background(), caller, m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.AdherencePercentage != 70 {
		t.Errorf("expected 70%%, got %d", summary.AdherencePercentage)
	}
	if summary.MissedReminders != 3 {
		t.Errorf("expected 3 missed, got %d", summary.MissedReminders)
	}
}

func TestAdherence_WithoutPlanner(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	caller := patient()
	m := &Medication{Name: "X", Dosage: "1mg", Frequency: FrequencyDaily, TimeOfDay: "09:00"}
	if err := svc.Create(context.Background(), caller, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := svc.Adherence(context.Background(), caller, m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalReminders != 0 || summary.AdherencePercentage != 0 {
		t.Errorf("expected empty summary without a planner, got %+v", summary)
	}
}

func TestAdherence_ZeroRemindersIsZeroPercent(t *testing.T) {
	repo := newMockRepo()
	planner := newMockPlanner()
	svc := NewService(repo)
	svc.SetReminderPlanner(planner)

	caller := patient()
	m := &Medication{Name: "X", Dosage: "1mg", Frequency: FrequencyDaily, TimeOfDay: "09:00"}
	if err := svc.Create(context.Background(), caller, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := svc.Adherence(context.Background(), caller, m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.AdherencePercentage != 0 {
		t.Errorf("expected 0%% with no reminders, got %d", summary.AdherencePercentage)
	}
}
