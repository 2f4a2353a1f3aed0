// Package profile validates profile updates before they are persisted.
//
// Checks run in order and stop at the first failure: presence, type,
// YYYY-MM-DD shape, month and day ranges, per-month day bounds (30 for
// months 4, 6, 9 and 11; 28 or 29 for February), then not-in-the-future.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"time"

	"github.com/hongminglow/volcano-api/internal/models"
)

var (
	ErrIncomplete = errors.New("incomplete")
	ErrWrongType  = errors.New("wrong type")
	ErrBadFormat  = errors.New("bad format")
	ErrFutureDate = errors.New("future date")
)

var dobPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Payload is a profile update as sent by the client. Fields keep their raw
// JSON type so presence and type are checked separately.
type Payload struct {
	FirstName any `json:"firstName"`
	LastName  any `json:"lastName"`
	DOB       any `json:"dob"`
	Address   any `json:"address"`
}

// DecodePayload reads a JSON object into a Payload, keeping numbers as json.Number.
func DecodePayload(r io.Reader) (Payload, error) {
	var p Payload
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("decode profile payload: %w", err)
	}
	return p, nil
}

// Validate checks p and returns the profile to persist.
func Validate(p Payload, now time.Time) (models.Profile, error) {
	if !present(p.FirstName) || !present(p.LastName) || !present(p.DOB) || !present(p.Address) {
		return models.Profile{}, ErrIncomplete
	}

	firstName, ok1 := p.FirstName.(string)
	lastName, ok2 := p.LastName.(string)
	address, ok3 := p.Address.(string)
	if !ok1 || !ok2 || !ok3 {
		return models.Profile{}, ErrWrongType
	}

	dob, ok := p.DOB.(string)
	if !ok {
		return models.Profile{}, ErrBadFormat
	}
	if err := CheckDate(dob, now); err != nil {
		return models.Profile{}, err
	}

	return models.Profile{FirstName: firstName, LastName: lastName, DOB: dob, Address: address}, nil
}

// CheckDate validates a YYYY-MM-DD date of birth against the calendar and now.
func CheckDate(dob string, now time.Time) error {
	if !dobPattern.MatchString(dob) {
		return ErrBadFormat
	}

	// The pattern guarantees three all-digit fields.
	year, _ := strconv.Atoi(dob[0:4])
	month, _ := strconv.Atoi(dob[5:7])
	day, _ := strconv.Atoi(dob[8:10])

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ErrBadFormat
	}

	switch month {
	case 4, 6, 9, 11:
		if day > 30 {
			return ErrBadFormat
		}
	case 2:
		limit := 28
		if IsLeapYear(year) {
			limit = 29
		}
		if day > limit {
			return ErrBadFormat
		}
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.After(now) {
		return ErrFutureDate
	}
	return nil
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// present mirrors JSON truthiness: missing, null, "", 0 and false are absent.
func present(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	case float64:
		return val != 0
	}
	return true
}
