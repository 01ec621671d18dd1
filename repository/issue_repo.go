package repository

import (
	"context"
	"time"

	"civictrack/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// IssueRepo stores issues in a Mongo collection.
type IssueRepo struct {
	issues *mongo.Collection
}

func NewIssueRepo(issues *mongo.Collection) *IssueRepo {
	return &IssueRepo{issues: issues}
}

// EnsureIndexes creates the indexes used by the listing queries.
func (r *IssueRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.issues.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "category", Value: 1}}},
	})
	return errors.Wrap(err, "create issue indexes")
}

func (r *IssueRepo) Create(ctx context.Context, issue *models.Issue) error {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	_, err := r.issues.InsertOne(ctx, issue)
	return errors.Wrap(err, "insert issue")
}

func (r *IssueRepo) Get(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	err := r.issues.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find issue")
	}
	return &issue, nil
}

func (r *IssueRepo) List(ctx context.Context, filter IssueFilter) ([]models.Issue, error) {
	findOptions := options.Find().SetSort(SortByCreation(filter.Sort))
	return r.find(ctx, BuildIssueFilter(filter), findOptions)
}

// Recent returns the newest issues for the map view.
func (r *IssueRepo) Recent(ctx context.Context, limit int64) ([]models.Issue, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	return r.find(ctx, bson.M{}, findOptions)
}

func (r *IssueRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Issue, error) {
	cursor, err := r.issues.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find issues")
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, errors.Wrap(err, "decode issues")
	}
	return issues, nil
}

// ApplyTransition writes status, notes and assignee in a single update and
// returns the stored document after the write.
func (r *IssueRepo) ApplyTransition(ctx context.Context, id primitive.ObjectID, t models.Transition) (*models.Issue, error) {
	update := bson.M{"$set": bson.M{
		"status":          t.Status,
		"resolutionNotes": t.ResolutionNotes,
		"assignedTo":      t.AssignedTo,
		"updatedAt":       time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var issue models.Issue
	err := r.issues.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&issue)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "update issue")
	}
	return &issue, nil
}

func (r *IssueRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.issues.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete issue")
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats runs the dashboard aggregations concurrently.
func (r *IssueRepo) Stats(ctx context.Context, now time.Time) (*models.IssueStats, error) {
	stats := &models.IssueStats{ByStatus: map[models.IssueStatus]int64{}}
	start := StatsWindowStart(now)

	var byStatus []struct {
		Status models.IssueStatus `bson:"_id"`
		Count  int64              `bson:"count"`
	}
	var days []models.DayCount

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.issues.CountDocuments(ctx, bson.M{})
		stats.Total = n
		return errors.Wrap(err, "count issues")
	})
	g.Go(func() error {
		return r.aggregate(ctx, []bson.M{
			{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
		}, &byStatus)
	})
	g.Go(func() error {
		return r.aggregate(ctx, []bson.M{
			{"$group": bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}},
			{"$project": bson.M{"name": "$_id", "value": "$count", "_id": 0}},
			{"$sort": bson.M{"value": -1}},
		}, &stats.ByCategory)
	})
	g.Go(func() error {
		return r.aggregate(ctx, []bson.M{
			{"$match": bson.M{"createdAt": bson.M{"$gte": start}}},
			{"$group": bson.M{
				"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}},
				"count": bson.M{"$sum": 1},
			}},
		}, &days)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, s := range byStatus {
		stats.ByStatus[s.Status] = s.Count
	}
	stats.Open = stats.ByStatus[models.Pending] + stats.ByStatus[models.InProgress]
	if stats.ByCategory == nil {
		stats.ByCategory = []models.CategoryCount{}
	}
	stats.Last7Days = FillDays(start, days)
	return stats, nil
}

func (r *IssueRepo) aggregate(ctx context.Context, pipeline []bson.M, out interface{}) error {
	cursor, err := r.issues.Aggregate(ctx, pipeline)
	if err != nil {
		return errors.Wrap(err, "aggregate issues")
	}
	defer cursor.Close(ctx)
	return errors.Wrap(cursor.All(ctx, out), "decode aggregation")
}

// StatsWindowStart is UTC midnight six days before now, so the window covers
// today plus the six previous days.
func StatsWindowStart(now time.Time) time.Time {
	d := now.UTC().AddDate(0, 0, -6)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// FillDays expands sparse per-day counts into seven consecutive days.
func FillDays(start time.Time, counts []models.DayCount) []models.DayCount {
	byDate := make(map[string]int64, len(counts))
	for _, c := range counts {
		byDate[c.Date] = c.Count
	}
	out := make([]models.DayCount, 0, 7)
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		out = append(out, models.DayCount{Date: date, Count: byDate[date]})
	}
	return out
}

var _ IssueRepository = (*IssueRepo)(nil)
