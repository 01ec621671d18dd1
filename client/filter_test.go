package client

import (
	"net/url"
	"testing"

	"civictrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterQuery(t *testing.T) {
	tests := []struct {
		filter Filter
		want   string
	}{
		{Filter{Status: models.Resolved, Search: "light", Sort: SortOldest}, "status=Resolved&search=light&sort=oldest"},
		{Filter{}, ""},
		{Filter{Category: models.WaterLeak}, "category=Water+Leak"},
		{Filter{Status: models.InProgress, Category: models.Pothole, Search: "a&b", Sort: SortLatest},
			"status=In+Progress&category=Pothole&search=a%26b&sort=latest"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.filter.Query())
	}
}

func TestFilterQueryOmitsEmptyFields(t *testing.T) {
	statuses := []models.IssueStatus{"", models.Pending}
	categories := []models.IssueCategory{"", models.Other}
	searches := []string{"", "lamp"}
	sorts := []string{"", SortOldest}

	for _, st := range statuses {
		for _, cat := range categories {
			for _, s := range searches {
				for _, so := range sorts {
					f := Filter{Status: st, Category: cat, Search: s, Sort: so}
					values, err := url.ParseQuery(f.Query())
					require.NoError(t, err)

					want := url.Values{}
					for k, v := range map[string]string{"status": string(st), "category": string(cat), "search": s, "sort": so} {
						if v != "" {
							want.Set(k, v)
						}
					}
					assert.Equal(t, want, values, f)
				}
			}
		}
	}
}
