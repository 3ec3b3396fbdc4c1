package inventory

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLowStockThreshold applies when an item is created without one.
const DefaultLowStockThreshold = 10

// ExpiringSoonDays is the lookahead window for the expiring-soon flag.
const ExpiringSoonDays = 30

// Item is a pharmacist-owned stock record. The alert flags are derived at
// read time and never persisted.
type Item struct {
	ID                uuid.UUID `json:"id" db:"id"`
	PharmacistID      uuid.UUID `json:"pharmacistId" db:"pharmacist_id"`
	Name              string    `json:"name" db:"name"`
	BatchNumber       string    `json:"batchNumber" db:"batch_number"`
	Manufacturer      string    `json:"manufacturer" db:"manufacturer"`
	ExpiryDate        time.Time `json:"expiryDate" db:"expiry_date"`
	Quantity          int       `json:"quantity" db:"quantity"`
	Price             float64   `json:"price" db:"price"`
	LowStockThreshold int       `json:"lowStockThreshold" db:"low_stock_threshold"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`

	IsLowStock     bool `json:"isLowStock" db:"-"`
	IsExpired      bool `json:"isExpired" db:"-"`
	IsExpiringSoon bool `json:"isExpiringSoon" db:"-"`
}

// ComputeAlerts fills the derived flags relative to today. Expired and
// expiring-soon are mutually exclusive: days-to-expiry below zero is expired,
// zero through the lookahead window is expiring soon.
func (i *Item) ComputeAlerts(today time.Time) {
	i.IsLowStock = i.Quantity <= i.LowStockThreshold

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	expiry := time.Date(i.ExpiryDate.Year(), i.ExpiryDate.Month(), i.ExpiryDate.Day(), 0, 0, 0, 0, today.Location())
	daysToExpiry := int(expiry.Sub(day).Hours() / 24)

	i.IsExpired = daysToExpiry < 0
	i.IsExpiringSoon = daysToExpiry >= 0 && daysToExpiry <= ExpiringSoonDays
}
