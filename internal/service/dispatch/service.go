package dispatch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"chorelink/internal/config"
	"chorelink/internal/domain"
	"chorelink/internal/repository"
)

// Payload is the request body sent to the external delivery provider.
type Payload struct {
	UserID         uuid.UUID               `json:"userId"`
	Email          string                  `json:"email"`
	Phone          string                  `json:"phone"`
	Channel        domain.Channel          `json:"channel"`
	Event          domain.NotificationType `json:"event"`
	Title          string                  `json:"title"`
	Message        string                  `json:"message"`
	Link           string                  `json:"link,omitempty"`
	Meta           map[string]string       `json:"meta,omitempty"`
	NotificationID *uuid.UUID              `json:"-"`
}

type Result struct {
	Ok       bool
	Reason   string
	Attempts int
}

// Service delivers one notification to one external channel, retrying
// with exponential backoff and recording every attempt in the delivery
// ledger. Send never panics and never blocks beyond its bounded
// retry/backoff window.
type Service interface {
	Send(ctx context.Context, payload Payload) Result
}

const (
	maxAttempts = 3
	baseBackoff = 250 * time.Millisecond
)

type service struct {
	deliveryRepo repository.DeliveryRepository
	webhook      *webhookProvider
	email        *resendProvider
	sleep        func(time.Duration)
}

func NewService(cfg *config.Config, deliveryRepo repository.DeliveryRepository) Service {
	s := &service{
		deliveryRepo: deliveryRepo,
		sleep:        time.Sleep,
	}
	if cfg.NotifyWebhookURL != "" {
		s.webhook = newWebhookProvider(cfg.NotifyWebhookURL)
	}
	if cfg.ResendAPIKey != "" {
		s.email = newResendProvider(cfg.ResendAPIKey, cfg.FromEmail)
	}
	return s
}

func (s *service) providerFor(channel domain.Channel) provider {
	if channel == domain.ChannelEmail && s.email != nil {
		return s.email
	}
	if s.webhook != nil {
		return s.webhook
	}
	return nil
}

func (s *service) Send(ctx context.Context, payload Payload) Result {
	prov := s.providerFor(payload.Channel)
	if prov == nil {
		// Soft skip: environments without a provider run the core with
		// external delivery disabled. No ledger row is written.
		return Result{Ok: false, Reason: "not configured"}
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		response, err := s.attempt(ctx, prov, payload)
		status := domain.DeliverySent
		if err != nil {
			status = domain.DeliveryFailed
			response = err.Error()
		}
		s.record(ctx, payload, prov.name(), status, response, attempt-1)

		if err == nil {
			return Result{Ok: true, Attempts: attempt}
		}
		log.Printf("delivery attempt %d via %s for user %s failed: %v", attempt, prov.name(), payload.UserID, err)

		if attempt < maxAttempts {
			s.sleep(baseBackoff << attempt)
		}
	}
	return Result{Ok: false, Reason: "max attempts reached", Attempts: maxAttempts}
}

// attempt runs one provider call, converting panics into errors so a
// misbehaving provider cannot crash the dispatch goroutine.
func (s *service) attempt(ctx context.Context, prov provider, payload Payload) (response string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
	}()
	return prov.send(ctx, payload)
}

func (s *service) record(ctx context.Context, payload Payload, providerName string, status domain.DeliveryStatus, response string, retryCount int) {
	delivery := &domain.NotificationDelivery{
		ID:             uuid.New(),
		NotificationID: payload.NotificationID,
		UserID:         payload.UserID,
		Provider:       providerName,
		Status:         status,
		Response:       response,
		RetryCount:     retryCount,
	}
	if err := s.deliveryRepo.Append(ctx, delivery); err != nil {
		log.Printf("failed to append delivery ledger row for user %s: %v", payload.UserID, err)
	}
}
