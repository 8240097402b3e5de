package models

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	dErrors "pawtrail/pkg/domain-errors"
)

// DateLayout is the wire format of lastSeenDate.
const DateLayout = "2006-01-02"

var (
	emailPattern     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern     = regexp.MustCompile(`^\+?[0-9][0-9 \-]{0,19}$`)
	microchipPattern = regexp.MustCompile(`^[0-9]+$`)
)

// CreateAnnouncementRequest is the JSON body of POST /api/v1/announcements.
type CreateAnnouncementRequest struct {
	Species           string   `json:"species"`
	Breed             string   `json:"breed,omitempty"`
	Sex               string   `json:"sex"`
	Age               *int     `json:"age,omitempty"`
	Description       string   `json:"description,omitempty"`
	MicrochipNumber   string   `json:"microchipNumber,omitempty"`
	LastSeenDate      string   `json:"lastSeenDate"`
	LocationLatitude  *float64 `json:"locationLatitude,omitempty"`
	LocationLongitude *float64 `json:"locationLongitude,omitempty"`
	LocationCity      string   `json:"locationCity,omitempty"`
	LocationRadiusKm  *float64 `json:"locationRadiusKm,omitempty"`
	Email             string   `json:"email,omitempty"`
	Phone             string   `json:"phone,omitempty"`
	PhotoURL          string   `json:"photoUrl,omitempty"`
	Status            string   `json:"status"`
}

func (r *CreateAnnouncementRequest) Normalize() {
	if r == nil {
		return
	}
	r.Species = strings.ToUpper(strings.TrimSpace(r.Species))
	r.Breed = strings.TrimSpace(r.Breed)
	r.Sex = strings.ToUpper(strings.TrimSpace(r.Sex))
	r.Description = strings.TrimSpace(r.Description)
	r.MicrochipNumber = strings.TrimSpace(r.MicrochipNumber)
	r.LastSeenDate = strings.TrimSpace(r.LastSeenDate)
	r.LocationCity = strings.TrimSpace(r.LocationCity)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.PhotoURL = strings.TrimSpace(r.PhotoURL)
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
}

// Validate reports the single first violation, never an aggregate. The order
// is fixed so clients and tests see a reproducible failure for a given
// payload. The cross-field contact rule runs first: a payload with neither
// email nor phone always fails with MISSING_CONTACT regardless of what else
// is wrong.
func (r *CreateAnnouncementRequest) Validate(now time.Time) error {
	if r == nil {
		return dErrors.New(dErrors.CodeMissingValue, "request body is required")
	}

	if r.Email == "" && r.Phone == "" {
		return dErrors.New(dErrors.CodeMissingContact, "at least one of email or phone is required").
			WithField("contact")
	}
	if r.Email != "" && !emailPattern.MatchString(r.Email) {
		return dErrors.New(dErrors.CodeInvalidFormat, "email address is malformed").
			WithField("email")
	}
	if r.Phone != "" && !phonePattern.MatchString(r.Phone) {
		return dErrors.New(dErrors.CodeInvalidFormat, "phone number is malformed").
			WithField("phone")
	}

	if r.Species == "" {
		return dErrors.New(dErrors.CodeMissingValue, "species is required").
			WithField("species")
	}
	if len(r.Species) > 64 {
		return dErrors.New(dErrors.CodeInvalidParameter, "species must be 64 characters or less").
			WithField("species")
	}

	if r.Sex == "" {
		return dErrors.New(dErrors.CodeMissingValue, "sex is required").
			WithField("sex")
	}
	if !Sex(r.Sex).IsValid() {
		return dErrors.New(dErrors.CodeInvalidFormat, "sex must be MALE, FEMALE or UNKNOWN").
			WithField("sex")
	}

	if r.Status == "" {
		return dErrors.New(dErrors.CodeMissingValue, "status is required").
			WithField("status")
	}
	if !Status(r.Status).IsValid() {
		return dErrors.New(dErrors.CodeInvalidFormat, "status must be MISSING or FOUND").
			WithField("status")
	}

	if r.Age != nil && *r.Age <= 0 {
		return dErrors.New(dErrors.CodeInvalidParameter, "age must be a positive integer").
			WithField("age")
	}

	if r.MicrochipNumber != "" && !microchipPattern.MatchString(r.MicrochipNumber) {
		return dErrors.New(dErrors.CodeInvalidFormat, "microchip number must contain only digits").
			WithField("microchipNumber")
	}

	if r.LastSeenDate == "" {
		return dErrors.New(dErrors.CodeMissingValue, "last seen date is required").
			WithField("lastSeenDate")
	}
	lastSeen, err := time.Parse(DateLayout, r.LastSeenDate)
	if err != nil {
		return dErrors.Newf(dErrors.CodeInvalidFormat, "last seen date must use the %s format", DateLayout).
			WithField("lastSeenDate")
	}
	today := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
	if lastSeen.After(today) {
		return dErrors.New(dErrors.CodeInvalidParameter, "last seen date cannot be in the future").
			WithField("lastSeenDate")
	}

	if err := r.validateLocation(); err != nil {
		return err
	}

	if r.PhotoURL != "" {
		u, err := url.Parse(r.PhotoURL)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return dErrors.New(dErrors.CodeInvalidFormat, "photo URL must be an absolute http or https URL").
				WithField("photoUrl")
		}
	}

	return nil
}

// validateLocation accepts either a full coordinate pair or city+radius.
func (r *CreateAnnouncementRequest) validateLocation() error {
	hasLat := r.LocationLatitude != nil
	hasLng := r.LocationLongitude != nil
	hasCity := r.LocationCity != ""
	hasRadius := r.LocationRadiusKm != nil

	switch {
	case hasLat || hasLng:
		if !hasLat {
			return dErrors.New(dErrors.CodeMissingValue, "latitude is required with longitude").
				WithField("locationLatitude")
		}
		if !hasLng {
			return dErrors.New(dErrors.CodeMissingValue, "longitude is required with latitude").
				WithField("locationLongitude")
		}
		if *r.LocationLatitude < -90 || *r.LocationLatitude > 90 {
			return dErrors.New(dErrors.CodeInvalidParameter, "latitude must be between -90 and 90").
				WithField("locationLatitude")
		}
		if *r.LocationLongitude < -180 || *r.LocationLongitude > 180 {
			return dErrors.New(dErrors.CodeInvalidParameter, "longitude must be between -180 and 180").
				WithField("locationLongitude")
		}
		return nil

	case hasCity || hasRadius:
		if !hasCity {
			return dErrors.New(dErrors.CodeMissingValue, "city is required with a search radius").
				WithField("locationCity")
		}
		if !hasRadius {
			return dErrors.New(dErrors.CodeMissingValue, "search radius is required with a city").
				WithField("locationRadiusKm")
		}
		if *r.LocationRadiusKm <= 0 || *r.LocationRadiusKm > 500 {
			return dErrors.New(dErrors.CodeInvalidParameter, "search radius must be between 0 and 500 km").
				WithField("locationRadiusKm")
		}
		return nil

	default:
		return dErrors.New(dErrors.CodeMissingValue, "either coordinates or city with radius are required").
			WithField("location")
	}
}

// UpdateStatusRequest is the JSON body of PATCH /api/v1/announcements/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Normalize() {
	if r == nil {
		return
	}
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
}

func (r *UpdateStatusRequest) Validate() error {
	if r == nil || r.Status == "" {
		return dErrors.New(dErrors.CodeMissingValue, "status is required").
			WithField("status")
	}
	if !Status(r.Status).IsValid() {
		return dErrors.New(dErrors.CodeInvalidFormat, "status must be MISSING or FOUND").
			WithField("status")
	}
	return nil
}
