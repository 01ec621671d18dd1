package repository

import (
	"testing"

	"civictrack/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildIssueFilter(t *testing.T) {
	owner := primitive.NewObjectID()

	tests := []struct {
		name   string
		filter IssueFilter
		want   bson.M
	}{
		{"empty", IssueFilter{}, bson.M{}},
		{"status only", IssueFilter{Status: models.Resolved}, bson.M{"status": models.Resolved}},
		{
			"search is quoted",
			IssueFilter{Search: " light(s) "},
			bson.M{"title": primitive.Regex{Pattern: `light\(s\)`, Options: "i"}},
		},
		{
			"everything",
			IssueFilter{Status: models.Pending, Category: models.Pothole, Search: "hole", CreatedBy: &owner},
			bson.M{
				"status":    models.Pending,
				"category":  models.Pothole,
				"title":     primitive.Regex{Pattern: "hole", Options: "i"},
				"createdBy": owner,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildIssueFilter(tt.filter))
		})
	}
}

func TestSortByCreation(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "createdAt", Value: 1}}, SortByCreation("oldest"))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, SortByCreation("latest"))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, SortByCreation("newest"))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, SortByCreation(""))
}
