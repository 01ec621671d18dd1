package models

type CategoryCount struct {
	Name  string `bson:"name" json:"name"`
	Value int64  `bson:"value" json:"value"`
}

type DayCount struct {
	Date  string `bson:"_id" json:"date"`
	Count int64  `bson:"count" json:"count"`
}

// IssueStats summarises the issue collection for the admin dashboard.
type IssueStats struct {
	Total      int64                 `json:"total"`
	Open       int64                 `json:"open"`
	ByStatus   map[IssueStatus]int64 `json:"byStatus"`
	ByCategory []CategoryCount       `json:"byCategory"`
	Last7Days  []DayCount            `json:"last7Days"`
}
