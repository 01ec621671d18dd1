package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	Garbage     IssueCategory = "Garbage"
	WaterLeak   IssueCategory = "Water Leak"
	RoadSafety  IssueCategory = "Road Safety"
	Pothole     IssueCategory = "Pothole"
	Streetlight IssueCategory = "Streetlight"
	Other       IssueCategory = "Other"
)

// Categories lists every category in display order.
var Categories = []IssueCategory{Garbage, WaterLeak, RoadSafety, Pothole, Streetlight, Other}

func (c IssueCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	Pending    IssueStatus = "Pending"
	InProgress IssueStatus = "In Progress"
	Resolved   IssueStatus = "Resolved"
)

// Statuses lists every status in lifecycle order.
var Statuses = []IssueStatus{Pending, InProgress, Resolved}

func (s IssueStatus) Valid() bool {
	switch s {
	case Pending, InProgress, Resolved:
		return true
	}
	return false
}

// Location is where an issue was reported. Address is a display string and
// only set when the reporter picked a place from a search.
type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	Address   string  `bson:"address,omitempty" json:"address,omitempty"`
}

func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// Issue represents a civic issue reported by a user
type Issue struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title           string              `bson:"title" json:"title"`
	Description     string              `bson:"description" json:"description"`
	Category        IssueCategory       `bson:"category" json:"category"`
	ImageURL        string              `bson:"imageURL,omitempty" json:"imageURL,omitempty"`
	Location        Location            `bson:"location" json:"location"`
	Status          IssueStatus         `bson:"status" json:"status"`
	ResolutionNotes string              `bson:"resolutionNotes" json:"resolutionNotes"`
	AssignedTo      *primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	CreatedBy       primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// NewIssue returns a freshly reported issue in its initial lifecycle state.
func NewIssue(createdBy primitive.ObjectID, title, description string, category IssueCategory, loc Location, imageURL string) Issue {
	now := time.Now().UTC()
	return Issue{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Category:    category,
		ImageURL:    imageURL,
		Location:    loc,
		Status:      Pending,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Transition is the admin-editable part of an issue. All three fields are
// written together; a nil AssignedTo unassigns the issue.
type Transition struct {
	Status          IssueStatus
	ResolutionNotes string
	AssignedTo      *primitive.ObjectID
}

// Apply returns a copy of the issue with the transition written over it.
// Content, location and provenance are left untouched.
func (i Issue) Apply(t Transition, at time.Time) Issue {
	i.Status = t.Status
	i.ResolutionNotes = t.ResolutionNotes
	if t.AssignedTo != nil {
		id := *t.AssignedTo
		i.AssignedTo = &id
	} else {
		i.AssignedTo = nil
	}
	i.UpdatedAt = at
	return i
}
