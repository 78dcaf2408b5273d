package reservation

import (
	"fmt"
	"strings"
	"time"
)

const displayLayout = "January 2 2006, 3:04 pm"

// startAtLayouts are tried in order by ParseStartAt. The last two are what
// browsers submit for <input type="datetime-local">.
var startAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

type Reservation struct {
	id         int64
	customerID int64
	StartAt    time.Time
	NumGuests  int
	notes      string
}

// NewReservation builds a reservation for customerID that has not been
// persisted yet.
func NewReservation(customerID int64, startAt time.Time, numGuests int, notes string) *Reservation {
	return &Reservation{
		customerID: customerID,
		StartAt:    startAt,
		NumGuests:  numGuests,
		notes:      notes,
	}
}

// Hydrate rebuilds a reservation from a storage row.
func Hydrate(id, customerID int64, startAt time.Time, numGuests int, notes *string) *Reservation {
	r := &Reservation{
		id:         id,
		customerID: customerID,
		StartAt:    startAt,
		NumGuests:  numGuests,
	}
	if notes != nil {
		r.notes = *notes
	}
	return r
}

func (r *Reservation) ID() int64 { return r.id }

func (r *Reservation) CustomerID() int64 { return r.customerID }

func (r *Reservation) IsNew() bool { return r.id == 0 }

func (r *Reservation) Notes() string { return r.notes }

func (r *Reservation) SetNotes(notes string) { r.notes = notes }

// MarkPersisted records the identifier storage assigned on insert.
func (r *Reservation) MarkPersisted(id int64) error {
	if r.id != 0 {
		return fmt.Errorf("reservation already persisted with id %d", r.id)
	}
	if id <= 0 {
		return fmt.Errorf("invalid reservation id %d", id)
	}
	r.id = id
	return nil
}

func (r *Reservation) FormattedStartAt() string {
	return r.StartAt.Format(displayLayout)
}

func ParseStartAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("start time is empty")
	}
	for _, layout := range startAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized start time %q", s)
}
