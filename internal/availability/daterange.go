// Package availability holds the booking overlap rule for cars, in both its Go
// form and its SQL form, plus the store primitives built on it.
package availability

import (
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

// DateLayout is the wire format of checkin and checkout dates.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate  = apperror.New(http.StatusBadRequest, "invalid date format")
	ErrInvalidRange = apperror.New(http.StatusBadRequest, "check-in date must be before check-out date")
)

// DateRange is a checkin/checkout pair of calendar dates (UTC midnight).
type DateRange struct {
	Checkin  time.Time
	Checkout time.Time
}

// ParseDate accepts "2006-01-02" or an RFC 3339 timestamp and returns the UTC
// calendar date it falls on.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return truncateToDate(t), nil
}

// NewDateRange builds a range and enforces checkin < checkout.
func NewDateRange(checkin, checkout time.Time) (DateRange, error) {
	r := DateRange{Checkin: truncateToDate(checkin), Checkout: truncateToDate(checkout)}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// ParseRange parses both dates and validates their order.
func ParseRange(checkin, checkout string) (DateRange, error) {
	in, err := ParseDate(checkin)
	if err != nil {
		return DateRange{}, err
	}
	out, err := ParseDate(checkout)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(in, out)
}

// Validate reports ErrInvalidRange unless checkin is strictly before checkout.
func (r DateRange) Validate() error {
	if r.Checkin.IsZero() || r.Checkout.IsZero() || !r.Checkin.Before(r.Checkout) {
		return ErrInvalidRange
	}
	return nil
}

// Nights is the number of days between checkin and checkout.
func (r DateRange) Nights() int {
	return int(r.Checkout.Sub(r.Checkin).Hours() / 24)
}

func (r DateRange) String() string {
	return r.Checkin.Format(DateLayout) + ".." + r.Checkout.Format(DateLayout)
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
