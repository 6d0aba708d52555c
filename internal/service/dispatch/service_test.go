package dispatch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"chorelink/internal/config"
	"chorelink/internal/domain"
	"chorelink/internal/mocks"
)

func newLedger() (*mocks.DeliveryRepository, *[]domain.NotificationDelivery) {
	rows := &[]domain.NotificationDelivery{}
	repo := new(mocks.DeliveryRepository)
	repo.On("Append", mock.Anything, mock.AnythingOfType("*domain.NotificationDelivery")).
		Run(func(args mock.Arguments) {
			*rows = append(*rows, *args.Get(1).(*domain.NotificationDelivery))
		}).
		Return(nil)
	return repo, rows
}

func testPayload() Payload {
	return Payload{
		UserID:  uuid.New(),
		Email:   "worker@example.com",
		Channel: domain.ChannelWhatsApp,
		Event:   domain.NotifCancellationRequested,
		Title:   "Cancellation requested",
		Message: "The worker asked to cancel",
	}
}

func newTestService(cfg *config.Config, repo *mocks.DeliveryRepository) *service {
	svc := NewService(cfg, repo).(*service)
	svc.sleep = func(time.Duration) {}
	return svc
}

func TestService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after transient failures and records every attempt", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) <= 2 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"queued"}`))
		}))
		defer server.Close()

		repo, rows := newLedger()
		svc := newTestService(&config.Config{NotifyWebhookURL: server.URL}, repo)

		result := svc.Send(ctx, testPayload())

		assert.True(t, result.Ok)
		assert.Equal(t, 3, result.Attempts)
		if assert.Len(t, *rows, 3) {
			assert.Equal(t, domain.DeliveryFailed, (*rows)[0].Status)
			assert.Equal(t, domain.DeliveryFailed, (*rows)[1].Status)
			assert.Equal(t, domain.DeliverySent, (*rows)[2].Status)
			for i, row := range *rows {
				assert.Equal(t, i, row.RetryCount)
				assert.Equal(t, "webhook", row.Provider)
			}
			assert.Contains(t, (*rows)[2].Response, "queued")
		}
	})

	t.Run("gives up after three attempts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		repo, rows := newLedger()
		svc := newTestService(&config.Config{NotifyWebhookURL: server.URL}, repo)

		result := svc.Send(ctx, testPayload())

		assert.False(t, result.Ok)
		assert.Equal(t, "max attempts reached", result.Reason)
		assert.Equal(t, 3, result.Attempts)
		assert.Len(t, *rows, 3)
		for _, row := range *rows {
			assert.Equal(t, domain.DeliveryFailed, row.Status)
		}
	})

	t.Run("missing provider config soft-skips with no ledger row", func(t *testing.T) {
		repo, rows := newLedger()
		svc := newTestService(&config.Config{}, repo)

		result := svc.Send(ctx, testPayload())

		assert.False(t, result.Ok)
		assert.Equal(t, "not configured", result.Reason)
		assert.Zero(t, result.Attempts)
		assert.Empty(t, *rows)
	})

	t.Run("first attempt success writes a single row", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		repo, rows := newLedger()
		svc := newTestService(&config.Config{NotifyWebhookURL: server.URL}, repo)

		result := svc.Send(ctx, testPayload())

		assert.True(t, result.Ok)
		assert.Equal(t, 1, result.Attempts)
		if assert.Len(t, *rows, 1) {
			assert.Equal(t, domain.DeliverySent, (*rows)[0].Status)
			assert.Equal(t, 0, (*rows)[0].RetryCount)
		}
	})
}

type panicProvider struct{}

func (panicProvider) name() string { return "panic" }

func (panicProvider) send(ctx context.Context, payload Payload) (string, error) {
	panic("provider exploded")
}

func TestService_SendRecoversProviderPanic(t *testing.T) {
	repo, rows := newLedger()
	svc := &service{
		deliveryRepo: repo,
		sleep:        func(time.Duration) {},
	}

	response, err := svc.attempt(context.Background(), panicProvider{}, testPayload())

	assert.Empty(t, response)
	assert.ErrorContains(t, err, "provider panic")
	assert.Empty(t, *rows)
}

func TestService_ProviderSelection(t *testing.T) {
	t.Run("email prefers resend when configured", func(t *testing.T) {
		svc := newTestService(&config.Config{
			NotifyWebhookURL: "http://localhost:9999/hook",
			ResendAPIKey:     "re_test",
			FromEmail:        "noreply@chorelink.dev",
		}, nil)

		assert.Equal(t, "resend", svc.providerFor(domain.ChannelEmail).name())
		assert.Equal(t, "webhook", svc.providerFor(domain.ChannelWhatsApp).name())
		assert.Equal(t, "webhook", svc.providerFor(domain.ChannelSMS).name())
	})

	t.Run("email falls back to the webhook without resend", func(t *testing.T) {
		svc := newTestService(&config.Config{NotifyWebhookURL: "http://localhost:9999/hook"}, nil)

		assert.Equal(t, "webhook", svc.providerFor(domain.ChannelEmail).name())
	})

	t.Run("nothing configured yields no provider", func(t *testing.T) {
		svc := newTestService(&config.Config{}, nil)

		assert.Nil(t, svc.providerFor(domain.ChannelEmail))
	})
}
