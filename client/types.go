package client

import (
	"time"

	"civictrack/models"
)

// Principal is the signed-in identity. ID is empty until the session has
// been refreshed from the server, since the login response and the stored
// session do not always carry it.
type Principal struct {
	ID    string      `json:"id,omitempty"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// Person is a user reference embedded in an issue.
type Person struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type Issue struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Category        models.IssueCategory `json:"category"`
	ImageURL        string               `json:"imageURL,omitempty"`
	Location        models.Location      `json:"location"`
	Status          models.IssueStatus   `json:"status"`
	ResolutionNotes string               `json:"resolutionNotes"`
	AssignedTo      *Person              `json:"assignedTo,omitempty"`
	CreatedBy       Person               `json:"createdBy"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// Pin is a map marker for a recent issue.
type Pin struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Latitude  float64              `json:"latitude"`
	Longitude float64              `json:"longitude"`
	Address   string               `json:"address,omitempty"`
	Category  models.IssueCategory `json:"category"`
	Status    models.IssueStatus   `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
}

// Transition is the admin edit sent on every save. All three fields are
// always written; an empty AssignedTo unassigns.
type Transition struct {
	Status          models.IssueStatus `json:"status"`
	ResolutionNotes string             `json:"resolutionNotes"`
	AssignedTo      string             `json:"assignedTo"`
}

// TransitionFrom seeds an edit from the current record.
func TransitionFrom(issue Issue) Transition {
	t := Transition{Status: issue.Status, ResolutionNotes: issue.ResolutionNotes}
	if issue.AssignedTo != nil {
		t.AssignedTo = issue.AssignedTo.ID
	}
	return t
}
