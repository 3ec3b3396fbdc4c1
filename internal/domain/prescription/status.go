package prescription

import "time"

// StatusFor computes the status a prescription should carry given its expiry
// date at the moment of evaluation. Used once at create time and by update
// paths that supply a new expiry.
func StatusFor(expiry, now time.Time) Status {
	if expiry.Before(now) {
		return StatusExpired
	}
	return StatusActive
}

// Resolve applies the lazy expiry rule to a loaded prescription: an Active
// record whose expiry has passed becomes Expired. It never promotes Expired
// back to Active; an update that moves the expiry forward must set Active
// itself. Reports whether the record changed and needs persisting.
func Resolve(p *Prescription, now time.Time) bool {
	if p.Status == StatusActive && p.ExpiryDate.Before(now) {
		p.Status = StatusExpired
		return true
	}
	return false
}

// DeriveExpiry computes the expiry date when the caller supplies only a start
// date and duration.
func DeriveExpiry(start time.Time, durationDays int) time.Time {
	return start.AddDate(0, 0, durationDays)
}
