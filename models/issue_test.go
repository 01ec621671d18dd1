package models

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCategoryAndStatusValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, IssueCategory("Road").Valid())
	assert.False(t, IssueCategory("").Valid())

	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, IssueStatus("Closed").Valid())
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("admin")
	assert.True(t, ok)
	assert.True(t, r.IsAdmin())

	r, ok = ParseRole("user")
	assert.True(t, ok)
	assert.False(t, r.IsAdmin())

	_, ok = ParseRole("superuser")
	assert.False(t, ok)
}

func TestNewIssueDefaults(t *testing.T) {
	owner := primitive.NewObjectID()
	loc := Location{Latitude: 28.6448, Longitude: 77.216721}
	i := NewIssue(owner, "Hole", "Big hole", Pothole, loc, "uploads/a.jpg")

	assert.False(t, i.ID.IsZero())
	assert.Equal(t, Pending, i.Status)
	assert.Empty(t, i.ResolutionNotes)
	assert.Nil(t, i.AssignedTo)
	assert.Equal(t, owner, i.CreatedBy)
	assert.Equal(t, loc, i.Location)
}

func TestApplyKeepsContentAndProvenance(t *testing.T) {
	owner := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	i := NewIssue(owner, "Lamp out", "Dark street", Streetlight, Location{Latitude: 1, Longitude: 2, Address: "Main St"}, "")

	at := time.Now().Add(time.Minute)
	updated := i.Apply(Transition{Status: InProgress, ResolutionNotes: "crew sent", AssignedTo: &admin}, at)

	assert.Equal(t, InProgress, updated.Status)
	assert.Equal(t, "crew sent", updated.ResolutionNotes)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, admin, *updated.AssignedTo)
	assert.Equal(t, i.Location, updated.Location)
	assert.Equal(t, owner, updated.CreatedBy)
	assert.Equal(t, at, updated.UpdatedAt)

	again := updated.Apply(Transition{Status: InProgress, ResolutionNotes: "crew sent", AssignedTo: &admin}, at)
	assert.Equal(t, updated, again)

	unassigned := updated.Apply(Transition{Status: Resolved, ResolutionNotes: "fixed"}, at)
	assert.Nil(t, unassigned.AssignedTo)
}

func TestLocationValid(t *testing.T) {
	assert.True(t, Location{Latitude: 0, Longitude: 0}.Valid())
	assert.False(t, Location{Latitude: 91, Longitude: 0}.Valid())
	assert.False(t, Location{Latitude: 0, Longitude: -181}.Valid())
}

func TestRegisterValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidators(v))

	type form struct {
		Category string `form:"category" validate:"issuecategory"`
		Status   string `json:"status" validate:"issuestatus"`
	}

	assert.NoError(t, v.Struct(form{Category: "Water Leak", Status: "In Progress"}))

	err := v.Struct(form{Category: "Road", Status: "Done"})
	require.Error(t, err)
	var fields []string
	for _, fe := range err.(validator.ValidationErrors) {
		fields = append(fields, fe.Field())
	}
	assert.ElementsMatch(t, []string{"category", "status"}, fields)
}
