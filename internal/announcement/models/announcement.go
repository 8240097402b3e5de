package models

import (
	"time"

	"github.com/google/uuid"
)

// Status of a listing: the animal is still missing, or has been found.
type Status string

const (
	StatusMissing Status = "MISSING"
	StatusFound   Status = "FOUND"
)

func (s Status) IsValid() bool {
	return s == StatusMissing || s == StatusFound
}

// Sex of the reported animal.
type Sex string

const (
	SexMale    Sex = "MALE"
	SexFemale  Sex = "FEMALE"
	SexUnknown Sex = "UNKNOWN"
)

func (s Sex) IsValid() bool {
	return s == SexMale || s == SexFemale || s == SexUnknown
}

// Announcement is a lost/found-animal listing. It is owned exclusively by the
// store and mutated only through validated operations. CredentialHash is the
// derived management credential (salt:derivedKey, hex); the plaintext secret
// is never part of this struct.
type Announcement struct {
	ID              uuid.UUID
	Species         string
	Breed           string
	Sex             Sex
	Age             *int
	Description     string
	MicrochipNumber string
	LastSeenDate    time.Time

	// Location is either a coordinate pair or a city with a search radius.
	Latitude  *float64
	Longitude *float64
	City      string
	RadiusKm  *float64

	Email string
	Phone string

	PhotoURL string
	Status   Status

	CredentialHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy so store internals never alias caller data.
func (a *Announcement) Clone() *Announcement {
	if a == nil {
		return nil
	}
	clone := *a
	if a.Age != nil {
		age := *a.Age
		clone.Age = &age
	}
	if a.Latitude != nil {
		lat := *a.Latitude
		clone.Latitude = &lat
	}
	if a.Longitude != nil {
		lng := *a.Longitude
		clone.Longitude = &lng
	}
	if a.RadiusKm != nil {
		r := *a.RadiusKm
		clone.RadiusKm = &r
	}
	return &clone
}
