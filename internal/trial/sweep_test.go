package trial

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/radview/imaging-case-portal/internal/models"
)

var sweepNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// fakeTrialStore serves canned subscriptions and records status updates.
type fakeTrialStore struct {
	subs      []models.Subscription
	profiles  map[string]string
	updateErr error
	expired   []string
}

func (f *fakeTrialStore) endOf(s models.Subscription) time.Time {
	end, _ := time.Parse(time.RFC3339, s.TrialEndDate)
	return end
}

func (f *fakeTrialStore) TrialsEndingBy(_ context.Context, cutoff time.Time) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range f.subs {
		if s.Status == models.TrialActive && !f.endOf(s).After(cutoff) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeTrialStore) TrialsExpiredBefore(_ context.Context, now time.Time) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range f.subs {
		if s.Status == models.TrialActive && f.endOf(s).Before(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeTrialStore) MarkTrialExpired(_ context.Context, userID string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.expired = append(f.expired, userID)
	return nil
}

func (f *fakeTrialStore) ProfileName(_ context.Context, userID string) (string, error) {
	return f.profiles[userID], nil
}

func activeTrial(userID string, end time.Time) models.Subscription {
	return models.Subscription{
		UserID:         userID,
		Status:         models.TrialActive,
		TrialStartDate: end.Add(-Length).Format(time.RFC3339),
		TrialEndDate:   end.UTC().Format(time.RFC3339),
	}
}

func TestDaysRemaining(t *testing.T) {
	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"five days out", sweepNow.Add(5 * 24 * time.Hour), 5},
		{"exactly three days", sweepNow.Add(3 * 24 * time.Hour), 3},
		{"just over a day rounds up", sweepNow.Add(25 * time.Hour), 2},
		{"under a day rounds to one", sweepNow.Add(6 * time.Hour), 1},
		{"exactly now", sweepNow, 0},
		{"already past floors at zero", sweepNow.Add(-48 * time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysRemaining(tt.end, sweepNow); got != tt.want {
				t.Errorf("DaysRemaining = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSweepExpiresOverdueTrials(t *testing.T) {
	store := &fakeTrialStore{
		subs: []models.Subscription{
			activeTrial("overdue", sweepNow.Add(-time.Second)),
			activeTrial("healthy", sweepNow.Add(20*24*time.Hour)),
		},
	}
	s := &Sweeper{Store: store}

	sum, err := s.Sweep(context.Background(), sweepNow)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if sum.ExpiredTrialsUpdated != 1 || len(store.expired) != 1 || store.expired[0] != "overdue" {
		t.Errorf("expired = %v (updated=%d), want [overdue]", store.expired, sum.ExpiredTrialsUpdated)
	}
	// Already expired is not a threshold day: no notification.
	if sum.NotificationsSent != 0 {
		t.Errorf("notifications = %d, want 0", sum.NotificationsSent)
	}
}

func TestSweepNotifiesOnThresholdDays(t *testing.T) {
	store := &fakeTrialStore{
		subs: []models.Subscription{
			activeTrial("five", sweepNow.Add(5*24*time.Hour)),
			activeTrial("three", sweepNow.Add(3*24*time.Hour)),
			activeTrial("one", sweepNow.Add(20*time.Hour)),
			activeTrial("four", sweepNow.Add(4*24*time.Hour)), // not a threshold
		},
		profiles: map[string]string{"five": "Dana Osei", "three": "Lee Martin"},
	}
	s := &Sweeper{Store: store}

	sum, err := s.Sweep(context.Background(), sweepNow)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if sum.ExpiringTrials != 4 {
		t.Errorf("expiring_trials = %d, want 4", sum.ExpiringTrials)
	}
	if sum.NotificationsSent != 3 || len(sum.Notifications) != 3 {
		t.Fatalf("notifications = %+v, want five/three/one", sum.Notifications)
	}
	byUser := map[string]models.TrialNotification{}
	for _, n := range sum.Notifications {
		byUser[n.UserID] = n
	}
	if n := byUser["five"]; n.DaysRemaining != 5 || n.FullName != "Dana Osei" {
		t.Errorf("five = %+v", n)
	}
	if n := byUser["three"]; n.DaysRemaining != 3 {
		t.Errorf("three = %+v", n)
	}
	if n := byUser["one"]; n.DaysRemaining != 1 || n.FullName != "" {
		t.Errorf("one = %+v (missing profile should keep empty name)", n)
	}
	if _, ok := byUser["four"]; ok {
		t.Error("four days remaining should not notify")
	}
}

func TestSweepExpiredWinsOverExpiring(t *testing.T) {
	// A record past its end date sits in both query windows; it must be
	// reported only as expired.
	store := &fakeTrialStore{
		subs: []models.Subscription{activeTrial("boundary", sweepNow.Add(-time.Minute))},
	}
	s := &Sweeper{Store: store}

	sum, err := s.Sweep(context.Background(), sweepNow)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if sum.ExpiredTrialsUpdated != 1 {
		t.Errorf("expired updated = %d, want 1", sum.ExpiredTrialsUpdated)
	}
	if sum.NotificationsSent != 0 {
		t.Errorf("notifications = %d, want 0", sum.NotificationsSent)
	}
}

func TestSweepUpdateFailureAbortsSweep(t *testing.T) {
	store := &fakeTrialStore{
		subs:      []models.Subscription{activeTrial("overdue", sweepNow.Add(-time.Hour))},
		updateErr: errors.New("store down"),
	}
	s := &Sweeper{Store: store}

	if _, err := s.Sweep(context.Background(), sweepNow); err == nil {
		t.Fatal("expected sweep to fail when the status update fails")
	}
}

func TestNewTrialEndsThirtyDaysOut(t *testing.T) {
	sub := NewTrial("user-1", sweepNow)
	if sub.Status != models.TrialActive {
		t.Errorf("status = %q, want trial_active", sub.Status)
	}
	end, err := time.Parse(time.RFC3339, sub.TrialEndDate)
	if err != nil {
		t.Fatalf("bad end date: %v", err)
	}
	if want := sweepNow.Add(Length); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
}
