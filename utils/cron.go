package utils

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DowngradeExpiredPlans clears the plan and validity date of every dealer
// whose plan has expired. One UpdateMany, so re-running is harmless: an
// already-downgraded user no longer matches the filter.
func DowngradeExpiredPlans(ctx context.Context, users *mongo.Collection, now time.Time) (int64, error) {
	filter := bson.M{
		"plan":           bson.M{"$exists": true, "$nin": bson.A{nil, ""}},
		"planValidUntil": bson.M{"$lt": now},
	}
	update := bson.M{
		"$unset": bson.M{"plan": "", "planValidUntil": ""},
	}
	result, err := users.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// StartCronJobs schedules the daily midnight plan-downgrade sweep.
func StartCronJobs(db *mongo.Database, logger *zap.Logger) *cron.Cron {
	c := cron.New()
	c.AddFunc("0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		count, err := DowngradeExpiredPlans(ctx, db.Collection("users"), time.Now())
		if err != nil {
			logger.Error("plan downgrade job failed", zap.Error(err))
			return
		}
		logger.Info("plan downgrade job finished", zap.Int64("downgraded", count))
	})
	c.Start()
	return c
}
