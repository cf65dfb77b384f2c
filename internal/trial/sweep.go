// Package trial implements the subscription-trial sweep: expiring overdue
// trials and assembling the threshold-crossing notification list.
package trial

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/radview/imaging-case-portal/internal/models"
)

// Length of a trial, fixed when the subscription is created.
const Length = 30 * 24 * time.Hour

// notifyWindow bounds the "ending soon" query.
const notifyWindow = 5 * 24 * time.Hour

// Notification thresholds, in whole days remaining.
var thresholds = map[int]bool{5: true, 3: true, 1: true}

// Store is the slice of the repository the sweep needs.
type Store interface {
	TrialsEndingBy(ctx context.Context, cutoff time.Time) ([]models.Subscription, error)
	TrialsExpiredBefore(ctx context.Context, now time.Time) ([]models.Subscription, error)
	MarkTrialExpired(ctx context.Context, userID string) error
	ProfileName(ctx context.Context, userID string) (string, error)
}

// Summary reports one sweep pass.
type Summary struct {
	Success              bool                       `json:"success"`
	ExpiringTrials       int                        `json:"expiring_trials"`
	ExpiredTrialsUpdated int                        `json:"expired_trials_updated"`
	NotificationsSent    int                        `json:"notifications_sent"`
	Notifications        []models.TrialNotification `json:"notifications"`
}

// Sweeper runs the trial-expiration sweep against a store.
type Sweeper struct {
	Store Store
}

// NewTrial builds a fresh trial subscription ending 30 days out.
func NewTrial(userID string, now time.Time) models.Subscription {
	return models.Subscription{
		UserID:         userID,
		Status:         models.TrialActive,
		TrialStartDate: now.UTC().Format(time.RFC3339),
		TrialEndDate:   now.UTC().Add(Length).Format(time.RFC3339),
	}
}

// DaysRemaining returns ceil((end - now) / 1 day), floored at 0.
func DaysRemaining(end, now time.Time) int {
	days := int(math.Ceil(end.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// Sweep transitions overdue trials to trial_expired and assembles the
// notification list for trials crossing a threshold day. A record expired on
// this pass is reported only as expired, never also as expiring. A failed
// status update aborts the sweep; profile lookups degrade to an empty
// display name.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (Summary, error) {
	ending, err := s.Store.TrialsEndingBy(ctx, now.Add(notifyWindow))
	if err != nil {
		return Summary{}, fmt.Errorf("query expiring trials: %w", err)
	}
	expired, err := s.Store.TrialsExpiredBefore(ctx, now)
	if err != nil {
		return Summary{}, fmt.Errorf("query expired trials: %w", err)
	}

	for _, sub := range expired {
		if err := s.Store.MarkTrialExpired(ctx, sub.UserID); err != nil {
			return Summary{}, fmt.Errorf("expire trial for %s: %w", sub.UserID, err)
		}
	}

	sum := Summary{
		Success:              true,
		ExpiringTrials:       len(ending),
		ExpiredTrialsUpdated: len(expired),
		Notifications:        []models.TrialNotification{},
	}

	for _, sub := range ending {
		end, err := time.Parse(time.RFC3339, sub.TrialEndDate)
		if err != nil {
			log.Printf("trial: bad end date %q for %s: %v", sub.TrialEndDate, sub.UserID, err)
			continue
		}
		if !end.After(now) {
			continue // expired wins over expiring
		}
		days := DaysRemaining(end, now)
		if !thresholds[days] {
			continue
		}
		name, err := s.Store.ProfileName(ctx, sub.UserID)
		if err != nil {
			log.Printf("trial: profile lookup for %s failed: %v", sub.UserID, err)
		}
		sum.Notifications = append(sum.Notifications, models.TrialNotification{
			UserID:        sub.UserID,
			FullName:      name,
			DaysRemaining: days,
			TrialEndDate:  sub.TrialEndDate,
		})
	}
	sum.NotificationsSent = len(sum.Notifications)

	for _, n := range sum.Notifications {
		log.Printf("trial: notify %s (%s) days_remaining=%d end=%s", n.UserID, n.FullName, n.DaysRemaining, n.TrialEndDate)
	}
	return sum, nil
}
