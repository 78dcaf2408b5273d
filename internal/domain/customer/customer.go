package customer

import "fmt"

// Customer of the restaurant. The identifier is zero until the customer is
// first saved and never changes afterwards.
type Customer struct {
	id        int64
	FirstName string
	LastName  string
	Phone     string
	notes     string

	// ReservationCount is only populated by the top ten ranking.
	ReservationCount int
}

// NewCustomer builds a customer that has not been persisted yet.
func NewCustomer(firstName, lastName, phone, notes string) *Customer {
	return &Customer{
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		notes:     notes,
	}
}

// Hydrate rebuilds a customer from a storage row. Phone and notes are
// nullable columns.
func Hydrate(id int64, firstName, lastName string, phone, notes *string) *Customer {
	c := &Customer{
		id:        id,
		FirstName: firstName,
		LastName:  lastName,
	}
	if phone != nil {
		c.Phone = *phone
	}
	if notes != nil {
		c.notes = *notes
	}
	return c
}

func (c *Customer) ID() int64 { return c.id }

func (c *Customer) IsNew() bool { return c.id == 0 }

func (c *Customer) Notes() string { return c.notes }

// SetNotes replaces the notes verbatim. An empty string clears them.
func (c *Customer) SetNotes(notes string) { c.notes = notes }

// MarkPersisted records the identifier storage assigned on insert.
func (c *Customer) MarkPersisted(id int64) error {
	if c.id != 0 {
		return fmt.Errorf("customer already persisted with id %d", c.id)
	}
	if id <= 0 {
		return fmt.Errorf("invalid customer id %d", id)
	}
	c.id = id
	return nil
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
