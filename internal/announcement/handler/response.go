package handler

import (
	"time"

	"pawtrail/internal/announcement/models"
)

// AnnouncementResponse is the public read shape of a listing. The credential
// hash never leaves the store layer.
type AnnouncementResponse struct {
	ID                string   `json:"id"`
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
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
}

// CreateAnnouncementResponse carries the one-time management password. It is
// returned exactly once, at creation, and is not recoverable afterwards.
type CreateAnnouncementResponse struct {
	ID                 string `json:"id"`
	ManagementPassword string `json:"managementPassword"`
}

func toResponse(a *models.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:                a.ID.String(),
		Species:           a.Species,
		Breed:             a.Breed,
		Sex:               string(a.Sex),
		Age:               a.Age,
		Description:       a.Description,
		MicrochipNumber:   a.MicrochipNumber,
		LastSeenDate:      a.LastSeenDate.Format(models.DateLayout),
		LocationLatitude:  a.Latitude,
		LocationLongitude: a.Longitude,
		LocationCity:      a.City,
		LocationRadiusKm:  a.RadiusKm,
		Email:             a.Email,
		Phone:             a.Phone,
		PhotoURL:          a.PhotoURL,
		Status:            string(a.Status),
		CreatedAt:         a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toResponseList(list []*models.Announcement) []AnnouncementResponse {
	out := make([]AnnouncementResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toResponse(a))
	}
	return out
}
