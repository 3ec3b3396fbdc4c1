package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/platform/apperr"
	"github.com/medtrack/medtrack/internal/platform/auth"
	"github.com/medtrack/medtrack/internal/platform/notification"
)

type mockRepo struct {
	items map[uuid.UUID]*Item
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Item)}
}

func (m *mockRepo) Create(_ context.Context, item *Item) error {
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	m.items[item.ID] = item
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return item, nil
}

func (m *mockRepo) Update(_ context.Context, item *Item) error {
	m.items[item.ID] = item
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListByPharmacist(_ context.Context, pharmacistID uuid.UUID) ([]*Item, error) {
	var result []*Item
	for _, item := range m.items {
		if item.PharmacistID == pharmacistID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (m *mockRepo) ListAll(_ context.Context) ([]*Item, error) {
	var result []*Item
	for _, item := range m.items {
		result = append(result, item)
	}
	return result, nil
}

func (m *mockRepo) Count(_ context.Context) (int, error) {
	return len(m.items), nil
}

func pharmacist() auth.Caller {
	return auth.Caller{ID: uuid.New(), Role: auth.RolePharmacist}
}

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

type mockNotifier struct {
	templates  []string
	recipients []string
	data       []map[string]string
}

func (m *mockNotifier) SendFromTemplate(_ context.Context, templateID, recipient string, data map[string]string) (*notification.Notice, error) {
	m.templates = append(m.templates, templateID)
	m.recipients = append(m.recipients, recipient)
	m.data = append(m.data, data)
	return &notification.Notice{TemplateID: templateID, Recipient: recipient}, nil
}

type mockRecipients struct{}

func (mockRecipients) EmailOf(_ context.Context, _ uuid.UUID) (string, error) {
	return "pharm@example.com", nil
}

func TestCreate_DefaultsThreshold(t *testing.T) {
	svc := NewService(newMockRepo())
	item := &Item{Name: "Aspirin", BatchNumber: "B-100", Quantity: 50,
		ExpiryDate: day(2027, time.January, 1)}
	if err := svc.Create(context.Background(), pharmacist(), item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.LowStockThreshold != DefaultLowStockThreshold {
		t.Errorf("expected default threshold %d, got %d", DefaultLowStockThreshold, item.LowStockThreshold)
	}
}

func TestCreate_NonPharmacistForbidden(t *testing.T) {
	svc := NewService(newMockRepo())
	caller := auth.Caller{ID: uuid.New(), Role: auth.RolePatient}
	err := svc.Create(context.Background(), caller, &Item{Name: "X", BatchNumber: "B"})
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("expected Forbidden, got %v", err)
	}
}

func TestCreate_NegativeQuantityRejected(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Create(context.Background(), pharmacist(), &Item{Name: "X", BatchNumber: "B", Quantity: -1})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected Validation, got %v", err)
	}
}

func TestList_PharmacistSeesOwnStockWithAlerts(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	caller := pharmacist()

	mine := &Item{Name: "Aspirin", BatchNumber: "B-1", Quantity: 2,
		LowStockThreshold: 10, ExpiryDate: day(2027, time.January, 1)}
	if err := svc.Create(context.Background(), caller, mine); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	theirs := &Item{Name: "Ibuprofen", BatchNumber: "B-2", Quantity: 99,
		LowStockThreshold: 10, ExpiryDate: day(2027, time.January, 1)}
	if err := svc.Create(context.Background(), pharmacist(), theirs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := svc.List(context.Background(), caller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item for owner, got %d", len(items))
	}
	if !items[0].IsLowStock {
		t.Error("expected derived low-stock flag on read")
	}
}

func TestList_AdminSeesEverything(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	for i := 0; i < 3; i++ {
		item := &Item{Name: "X", BatchNumber: fmt.Sprintf("B-%d", i), Quantity: 5,
			ExpiryDate: day(2027, time.January, 1)}
		if err := svc.Create(context.Background(), pharmacist(), item); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	admin := auth.Caller{ID: uuid.New(), Role: auth.RoleAdmin}
	items, err := svc.List(context.Background(), admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("expected 3 items for admin, got %d", len(items))
	}
}

func TestUpdate_OtherPharmacistForbidden(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	item := &Item{Name: "X", BatchNumber: "B", Quantity: 5, ExpiryDate: day(2027, time.January, 1)}
	if err := svc.Create(context.Background(), pharmacist(), item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Update(context.Background(), pharmacist(), item.ID, &UpdateInput{Quantity: intPtr(1)})
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("expected Forbidden, got %v", err)
	}
}

func TestUpdate_OmittedFieldsUnchanged(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	notifier := &mockNotifier{}
	svc.SetNotifier(notifier, mockRecipients{})

	caller := pharmacist()
	item := &Item{Name: "Aspirin", BatchNumber: "B-9", Quantity: 500, Price: 4.50,
		ExpiryDate: day(2027, time.January, 1)}
	if err := svc.Create(context.Background(), caller, item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Update(context.Background(), caller, item.ID, &UpdateInput{Name: "Aspirin 100mg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Aspirin 100mg" {
		t.Errorf("expected name updated, got %q", got.Name)
	}
	if got.Quantity != 500 {
		t.Errorf("expected quantity untouched, got %d", got.Quantity)
	}
	if got.Price != 4.50 {
		t.Errorf("expected price untouched, got %v", got.Price)
	}
	if len(notifier.templates) != 0 {
		t.Errorf("expected no alert for a rename, got %v", notifier.templates)
	}
}

func TestUpdate_ExplicitZeroApplies(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	caller := pharmacist()
	item := &Item{Name: "Aspirin", BatchNumber: "B-10", Quantity: 8, Price: 4.50,
		ExpiryDate: day(2027, time.January, 1)}
	if err := svc.Create(context.Background(), caller, item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Update(context.Background(), caller, item.ID, &UpdateInput{
		Quantity: intPtr(0), Price: floatPtr(0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Quantity != 0 || got.Price != 0 {
		t.Errorf("expected explicit zeroes applied, got qty %d price %v", got.Quantity, got.Price)
	}

	_, err = svc.Update(context.Background(), caller, item.ID, &UpdateInput{Quantity: intPtr(-1)})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected Validation for negative quantity, got %v", err)
	}
}

func TestUpdate_LowStockAlertOnCrossing(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	notifier := &mockNotifier{}
	svc.SetNotifier(notifier, mockRecipients{})

	caller := pharmacist()
	item := &Item{Name: "Aspirin", BatchNumber: "B-7", Quantity: 50,
		ExpiryDate: day(2027, time.January, 1)}
	if err := svc.Create(context.Background(), caller, item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Update(context.Background(), caller, item.ID, &UpdateInput{Quantity: intPtr(5)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.templates) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(notifier.templates))
	}
	if notifier.templates[0] != notification.TemplateLowStockAlert {
		t.Errorf("unexpected template %q", notifier.templates[0])
	}
	if notifier.recipients[0] != "pharm@example.com" {
		t.Errorf("unexpected recipient %q", notifier.recipients[0])
	}
	if notifier.data[0]["quantity"] != "5" {
		t.Errorf("unexpected quantity %q", notifier.data[0]["quantity"])
	}

	// Already below threshold, so a further drop does not alert again.
	if _, err := svc.Update(context.Background(), caller, item.ID, &UpdateInput{Quantity: intPtr(3)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.templates) != 1 {
		t.Errorf("expected no second alert, got %d", len(notifier.templates))
	}
}

func TestDelete(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	caller := pharmacist()
	item := &Item{Name: "X", BatchNumber: "B", Quantity: 5, ExpiryDate: day(2027, time.January, 1)}
	if err := svc.Create(context.Background(), caller, item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(context.Background(), caller, item.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := repo.Count(context.Background()); n != 0 {
		t.Errorf("expected empty inventory, got %d items", n)
	}
}
