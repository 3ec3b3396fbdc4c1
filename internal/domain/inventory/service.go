package inventory

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/platform/apperr"
	"github.com/medtrack/medtrack/internal/platform/auth"
	"github.com/medtrack/medtrack/internal/platform/notification"
)

// Notifier sends templated notices. Implemented by the notification
// dispatcher.
type Notifier interface {
	SendFromTemplate(ctx context.Context, templateID, recipient string, data map[string]string) (*notification.Notice, error)
}

// RecipientDirectory resolves a user's notification address. Implemented by
// the identity service.
type RecipientDirectory interface {
	EmailOf(ctx context.Context, id uuid.UUID) (string, error)
}

type Service struct {
	repo       Repository
	notifier   Notifier
	recipients RecipientDirectory
	now        func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SetNotifier enables low-stock alerts when an update drops an item to or
// below its threshold. Optional; without it updates behave the same minus
// the notice.
func (s *Service) SetNotifier(n Notifier, recipients RecipientDirectory) {
	s.notifier = n
	s.recipients = recipients
}

func (s *Service) Create(ctx context.Context, caller auth.Caller, item *Item) error {
	if caller.Role != auth.RolePharmacist {
		return apperr.Forbidden("only pharmacists can add inventory")
	}
	if item.Name == "" || item.BatchNumber == "" {
		return apperr.Validation("name and batchNumber are required")
	}
	if item.Quantity < 0 {
		return apperr.Validation("quantity must not be negative")
	}
	if item.Price < 0 {
		return apperr.Validation("price must not be negative")
	}
	if item.LowStockThreshold <= 0 {
		item.LowStockThreshold = DefaultLowStockThreshold
	}
	item.PharmacistID = caller.ID

	if err := s.repo.Create(ctx, item); err != nil {
		return apperr.Unexpected(err, "persist inventory item")
	}
	item.ComputeAlerts(s.now())
	return nil
}

// List returns inventory with alert flags computed. Pharmacists see their own
// stock, admins see everything.
func (s *Service) List(ctx context.Context, caller auth.Caller) ([]*Item, error) {
	var (
		items []*Item
		err   error
	)
	switch caller.Role {
	case auth.RolePharmacist:
		items, err = s.repo.ListByPharmacist(ctx, caller.ID)
	case auth.RoleAdmin:
		items, err = s.repo.ListAll(ctx)
	default:
		return nil, apperr.Forbidden("inventory is visible to pharmacists and admins only")
	}
	if err != nil {
		return nil, apperr.Unexpected(err, "list inventory")
	}
	today := s.now()
	for _, item := range items {
		item.ComputeAlerts(today)
	}
	return items, nil
}

// UpdateInput carries the pharmacist-editable fields. Omitted fields leave
// the stored value unchanged; quantity and price are pointers so an explicit
// zero still applies.
type UpdateInput struct {
	Name              string    `json:"name"`
	BatchNumber       string    `json:"batchNumber"`
	Manufacturer      string    `json:"manufacturer"`
	ExpiryDate        time.Time `json:"expiryDate"`
	Quantity          *int      `json:"quantity"`
	Price             *float64  `json:"price"`
	LowStockThreshold int       `json:"lowStockThreshold"`
}

func (s *Service) Update(ctx context.Context, caller auth.Caller, id uuid.UUID, in *UpdateInput) (*Item, error) {
	item, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	wasLow := item.Quantity <= item.LowStockThreshold

	if in.Name != "" {
		item.Name = in.Name
	}
	if in.BatchNumber != "" {
		item.BatchNumber = in.BatchNumber
	}
	if in.Manufacturer != "" {
		item.Manufacturer = in.Manufacturer
	}
	if !in.ExpiryDate.IsZero() {
		item.ExpiryDate = in.ExpiryDate
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, apperr.Validation("quantity must not be negative")
		}
		item.Quantity = *in.Quantity
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperr.Validation("price must not be negative")
		}
		item.Price = *in.Price
	}
	if in.LowStockThreshold > 0 {
		item.LowStockThreshold = in.LowStockThreshold
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, apperr.Unexpected(err, "update inventory item")
	}
	item.ComputeAlerts(s.now())
	if !wasLow && item.IsLowStock {
		s.notifyLowStock(ctx, item)
	}
	return item, nil
}

// notifyLowStock alerts the owning pharmacist. Delivery problems never fail
// the update.
func (s *Service) notifyLowStock(ctx context.Context, item *Item) {
	if s.notifier == nil || s.recipients == nil {
		return
	}
	email, err := s.recipients.EmailOf(ctx, item.PharmacistID)
	if err != nil {
		return
	}
	_, _ = s.notifier.SendFromTemplate(ctx, notification.TemplateLowStockAlert, email, map[string]string{
		"item":     item.Name,
		"batch":    item.BatchNumber,
		"quantity": strconv.Itoa(item.Quantity),
	})
}

func (s *Service) Delete(ctx context.Context, caller auth.Caller, id uuid.UUID) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Unexpected(err, "delete inventory item")
	}
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// ListForPharmacist returns a pharmacist's stock with alert flags computed.
// Used by pharmacy analytics.
func (s *Service) ListForPharmacist(ctx context.Context, pharmacistID uuid.UUID) ([]*Item, error) {
	items, err := s.repo.ListByPharmacist(ctx, pharmacistID)
	if err != nil {
		return nil, apperr.Unexpected(err, "list inventory")
	}
	today := s.now()
	for _, item := range items {
		item.ComputeAlerts(today)
	}
	return items, nil
}

func (s *Service) owned(ctx context.Context, caller auth.Caller, id uuid.UUID) (*Item, error) {
	if caller.Role != auth.RolePharmacist {
		return nil, apperr.Forbidden("only pharmacists can modify inventory")
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("inventory item not found")
	}
	if item.PharmacistID != caller.ID {
		return nil, apperr.Forbidden("not authorized for this inventory item")
	}
	return item, nil
}
