package dto

import (
	"encoding/json"
	"fmt"
	"lunchly/internal/domain/customer"
	"lunchly/internal/domain/reservation"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type CustomerForm struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

func CustomerFormFromValues(v url.Values) CustomerForm {
	return CustomerForm{
		FirstName: v.Get("firstName"),
		LastName:  v.Get("lastName"),
		Phone:     v.Get("phone"),
		Notes:     v.Get("notes"),
	}
}

// Details trims the name and phone fields. Notes are passed through as
// typed.
func (f CustomerForm) Details() customer.Details {
	return customer.Details{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Phone:     strings.TrimSpace(f.Phone),
		Notes:     f.Notes,
	}
}

// ReservationForm accepts numGuests either as a JSON number or as a string,
// which is how HTML forms submit it.
type ReservationForm struct {
	StartAt   string      `json:"startAt"`
	NumGuests json.Number `json:"numGuests"`
	Notes     string      `json:"notes"`
}

func ReservationFormFromValues(v url.Values) ReservationForm {
	return ReservationForm{
		StartAt:   v.Get("startAt"),
		NumGuests: json.Number(strings.TrimSpace(v.Get("numGuests"))),
		Notes:     v.Get("notes"),
	}
}

func (f ReservationForm) Validate() (time.Time, int, error) {
	startAt, err := reservation.ParseStartAt(f.StartAt)
	if err != nil {
		return time.Time{}, 0, err
	}

	numGuests, err := strconv.Atoi(f.NumGuests.String())
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("numGuests must be a whole number, got %q", f.NumGuests.String())
	}
	if numGuests <= 0 {
		return time.Time{}, 0, fmt.Errorf("numGuests must be positive, got %d", numGuests)
	}

	return startAt, numGuests, nil
}
