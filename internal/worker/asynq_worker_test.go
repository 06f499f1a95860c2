package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vitrina-next/internal/config"
	"github.com/vitrina-next/internal/models"
	"github.com/vitrina-next/internal/provider"
	"github.com/vitrina-next/internal/queue"

	"github.com/hibiken/asynq"
)

func newTestConsumer(counter *[]uint) *Consumer {
	consumer := NewConsumer(&provider.Container{})
	consumer.incrRedemptions = func(_ context.Context, couponID uint) (int64, error) {
		*counter = append(*counter, couponID)
		return int64(len(*counter)), nil
	}
	return consumer
}

func TestHandleCouponUsageRecordedIncrementsCounter(t *testing.T) {
	var calls []uint
	consumer := newTestConsumer(&calls)

	task, err := queue.NewCouponUsageTask(queue.CouponUsagePayload{UsageID: 7, CouponID: 3, Discount: "20.00"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleCouponUsageRecorded(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}
	if len(calls) != 1 || calls[0] != 3 {
		t.Fatalf("expected one increment for coupon 3, got %v", calls)
	}
}

func TestHandleCouponUsageRecordedSkipsInvalidPayload(t *testing.T) {
	var calls []uint
	consumer := newTestConsumer(&calls)

	task, err := queue.NewCouponUsageTask(queue.CouponUsagePayload{UsageID: 0, CouponID: 3})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleCouponUsageRecorded(context.Background(), task); err != nil {
		t.Fatalf("expected nil error for invalid payload, got %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("expected no increments, got %v", calls)
	}
}

func TestHandleCouponUsageRecordedRejectsMalformedPayload(t *testing.T) {
	var calls []uint
	consumer := newTestConsumer(&calls)

	task := asynq.NewTask(queue.TaskCouponUsageRecorded, []byte("{not-json"))
	if err := consumer.handleCouponUsageRecorded(context.Background(), task); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}

func TestHandleCouponUsageRecordedPropagatesCounterError(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	consumer.incrRedemptions = func(context.Context, uint) (int64, error) {
		return 0, errors.New("redis down")
	}
	task, _ := queue.NewCouponUsageTask(queue.CouponUsagePayload{UsageID: 1, CouponID: 1})
	if err := consumer.handleCouponUsageRecorded(context.Background(), task); err == nil {
		t.Fatalf("expected counter error to be returned for retry")
	}
}

func TestReachedUsageLimit(t *testing.T) {
	cases := []struct {
		name      string
		promotion *models.Promotion
		count     int64
		want      bool
	}{
		{name: "nil promotion", promotion: nil, count: 10, want: false},
		{name: "unlimited", promotion: &models.Promotion{UsageLimit: 0}, count: 10, want: false},
		{name: "below limit", promotion: &models.Promotion{UsageLimit: 5}, count: 4, want: false},
		{name: "at limit", promotion: &models.Promotion{UsageLimit: 5}, count: 5, want: true},
		{name: "counter disabled", promotion: &models.Promotion{UsageLimit: 5}, count: 0, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reachedUsageLimit(tc.promotion, tc.count); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

type stubExpirer struct {
	affected int64
	err      error
	calls    int
}

func (s *stubExpirer) ExpireEnded(_ context.Context, _ time.Time) (int64, error) {
	s.calls++
	return s.affected, s.err
}

func TestExpireOnce(t *testing.T) {
	ok := &stubExpirer{affected: 2}
	if got := expireOnce(context.Background(), ok, time.Now()); got != 2 {
		t.Fatalf("expected 2 expired promotions, got %d", got)
	}
	failing := &stubExpirer{err: errors.New("db locked")}
	if got := expireOnce(context.Background(), failing, time.Now()); got != 0 {
		t.Fatalf("expected 0 on failure, got %d", got)
	}
	if failing.calls != 1 {
		t.Fatalf("expected expirer to be called once, got %d", failing.calls)
	}
}

func TestRunPromotionExpiryLoopStopsOnCancel(t *testing.T) {
	expirer := &stubExpirer{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runPromotionExpiryLoop(ctx, expirer, time.Hour)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("expiry loop did not stop after cancel")
	}
	if expirer.calls < 1 {
		t.Fatalf("expected an immediate expiry run, got %d", expirer.calls)
	}
}

func TestResolveExpiryInterval(t *testing.T) {
	if got := resolveExpiryInterval(0); got != defaultPromotionExpiryInterval {
		t.Fatalf("expected default interval, got %s", got)
	}
	if got := resolveExpiryInterval(30); got != 30*time.Second {
		t.Fatalf("expected 30s, got %s", got)
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, NewConsumer(&provider.Container{}), nil); err == nil {
		t.Fatalf("expected error for disabled queue")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil, nil); err == nil {
		t.Fatalf("expected error for nil consumer")
	}
}

func TestExpiryServiceStartReturnsOnCancel(t *testing.T) {
	expirer := &stubExpirer{affected: 1}
	svc, err := NewExpiryService(&config.QueueConfig{PromotionExpiryIntervalSeconds: 3600}, expirer)
	if err != nil {
		t.Fatalf("new expiry service failed: %v", err)
	}
	if svc.Name() != "promotion_expiry" {
		t.Fatalf("unexpected service name: %s", svc.Name())
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("expected nil error on cancel, got %v", err)
	}
	if expirer.calls != 1 {
		t.Fatalf("expected one immediate run, got %d", expirer.calls)
	}
	if _, err := NewExpiryService(nil, nil); err == nil {
		t.Fatalf("expected error for nil expirer")
	}
}
