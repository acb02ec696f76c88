package notify

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/robfig/cron/v3"

	catalog "io.winapps.myspot/internal/models/catalog"
)

// StartDigestScheduler runs the daily "new spots near you" digest at
// 17:00 UTC, summarizing the spots published in the last 24 hours for
// each active subscription. Returns the cron so the caller can stop it
// on shutdown.
func (n *Notifier) StartDigestScheduler() *cron.Cron {
	c := cron.New(cron.WithLocation(time.UTC))

	c.AddFunc("0 17 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		n.sendDailyDigest(ctx)
	})

	c.Start()
	return c
}

func (n *Notifier) sendDailyDigest(ctx context.Context) {
	recent, err := n.recentSpots(ctx, 24*time.Hour)
	if err != nil {
		n.logger.Errorw("failed to load recent spots for digest", "error", err)
		return
	}
	if len(recent) == 0 {
		return
	}

	subs, err := n.activeSubscriptions(ctx)
	if err != nil {
		n.logger.Errorw("failed to load subscriptions for digest", "error", err)
		return
	}

	for _, sub := range subs {
		count := 0
		for _, rec := range recent {
			if rec.OwnerUID != sub.UserUID && sub.Matches(rec) {
				count++
			}
		}
		if count == 0 {
			continue
		}
		msg := &messaging.Message{
			Token: sub.FCMToken,
			Notification: &messaging.Notification{
				Title: "My Spot daily digest",
				Body:  fmt.Sprintf("%d new spots appeared near your saved area today", count),
			},
		}
		if _, err := n.fcm.Send(ctx, msg); err != nil {
			n.logger.Warnw("failed to send digest push",
				"error", err, "subscription_id", sub.ID)
		}
	}
}

// recentSpots loads the spots published within the window, with just
// the fields the subscription predicate needs.
func (n *Notifier) recentSpots(ctx context.Context, window time.Duration) ([]*catalog.Record, error) {
	rows, err := n.db.Query(ctx, `
		SELECT id, owner_uid, name, COALESCE(description, ''), COALESCE(founded_by, ''),
		       COALESCE(spot_type, ''), COALESCE(place_name, ''), latitude, longitude
		FROM spots
		WHERE created_at >= $1
	`, time.Now().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("failed to query recent spots: %w", err)
	}
	defer rows.Close()

	var recent []*catalog.Record
	for rows.Next() {
		var rec catalog.Record
		if err := rows.Scan(
			&rec.ID,
			&rec.OwnerUID,
			&rec.Name,
			&rec.Description,
			&rec.FoundedBy,
			&rec.SpotType,
			&rec.PlaceName,
			&rec.Location.Latitude,
			&rec.Location.Longitude,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recent spot: %w", err)
		}
		recent = append(recent, &rec)
	}
	return recent, rows.Err()
}
