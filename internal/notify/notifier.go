package notify

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	catalog "io.winapps.myspot/internal/models/catalog"
)

// Notifier pushes FCM notifications to subscriptions whose area of
// interest a newly published spot falls into.
type Notifier struct {
	db     *pgxpool.Pool
	fcm    *messaging.Client
	logger *zap.SugaredLogger
}

func NewNotifier(db *pgxpool.Pool, fcm *messaging.Client, logger *zap.SugaredLogger) *Notifier {
	return &Notifier{db: db, fcm: fcm, logger: logger}
}

// SpotPublished fans a new spot out to every matching subscription
// except the publisher's own. Send failures are logged and skipped; a
// publish never fails because a push did.
func (n *Notifier) SpotPublished(ctx context.Context, rec *catalog.Record) {
	subs, err := n.activeSubscriptions(ctx)
	if err != nil {
		n.logger.Errorw("failed to load subscriptions for fan-out", "error", err, "spot_id", rec.ID)
		return
	}

	for _, sub := range subs {
		if sub.UserUID == rec.OwnerUID || !sub.Matches(rec) {
			continue
		}
		msg := &messaging.Message{
			Token: sub.FCMToken,
			Notification: &messaging.Notification{
				Title: "New spot near you",
				Body:  fmt.Sprintf("%s was just shared near %s", rec.Name, placeOrCoords(rec)),
			},
			Data: map[string]string{
				"spotId": rec.ID,
			},
		}
		if _, err := n.fcm.Send(ctx, msg); err != nil {
			n.logger.Warnw("failed to send new-spot push",
				"error", err, "spot_id", rec.ID, "subscription_id", sub.ID)
		}
	}
}

func placeOrCoords(rec *catalog.Record) string {
	if rec.PlaceName != "" {
		return rec.PlaceName
	}
	return fmt.Sprintf("(%.4f, %.4f)", rec.Location.Latitude, rec.Location.Longitude)
}

func (n *Notifier) activeSubscriptions(ctx context.Context) ([]*Subscription, error) {
	rows, err := n.db.Query(ctx, `
		SELECT id, user_uid, latitude, longitude, radius_meters,
		       COALESCE(filter_one, ''), COALESCE(filter_two, ''), COALESCE(filter_three, ''),
		       fcm_token
		FROM subscriptions
		WHERE active = TRUE
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*Subscription
	for rows.Next() {
		var sub Subscription
		var f1, f2, f3 string
		if err := rows.Scan(
			&sub.ID,
			&sub.UserUID,
			&sub.Center.Latitude,
			&sub.Center.Longitude,
			&sub.RadiusMeters,
			&f1, &f2, &f3,
			&sub.FCMToken,
		); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		sub.Filters = NormalizeFilters([]string{f1, f2, f3})
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}
