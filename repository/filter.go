package repository

import (
	"regexp"
	"strings"

	"civictrack/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SortLatest = "latest"
	SortOldest = "oldest"
)

// IssueFilter narrows an issue listing. Zero fields add no constraint.
type IssueFilter struct {
	Status    models.IssueStatus
	Category  models.IssueCategory
	Search    string // case-insensitive substring of the title
	Sort      string // latest (default) or oldest
	CreatedBy *primitive.ObjectID
}

// NormalizeSort maps the accepted sort spellings onto latest/oldest.
func NormalizeSort(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), SortOldest) {
		return SortOldest
	}
	return SortLatest
}

// BuildIssueFilter translates an IssueFilter into a Mongo query document.
func BuildIssueFilter(f IssueFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
	}
	if f.CreatedBy != nil {
		filter["createdBy"] = *f.CreatedBy
	}
	return filter
}

// SortByCreation returns the createdAt ordering for a sort value.
func SortByCreation(sort string) bson.D {
	if NormalizeSort(sort) == SortOldest {
		return bson.D{{Key: "createdAt", Value: 1}}
	}
	return bson.D{{Key: "createdAt", Value: -1}}
}
