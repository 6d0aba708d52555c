package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"chorelink/internal/domain"
	"chorelink/internal/repository"
	"chorelink/internal/service/dispatch"
)

// Event is one dispatch request for a single user.
type Event struct {
	UserID         uuid.UUID
	NotificationID *uuid.UUID
	Type           domain.NotificationType
	Title          string
	Message        string
	Link           string
	Meta           map[string]string
}

// DispatchResult reports what the router decided and, when it delegated
// a send, how it went.
type DispatchResult struct {
	Skipped bool
	Reason  string
	Channel domain.Channel
	Ok      bool
}

// Router decides whether and over which channel an event leaves the
// system, then delegates the single send. It performs no retries of its
// own; the dispatcher owns those.
type Router interface {
	Dispatch(ctx context.Context, event Event) DispatchResult
}

type router struct {
	resolver   PreferenceResolver
	userRepo   repository.UserRepository
	dispatcher dispatch.Service
	now        func() time.Time
}

func NewRouter(resolver PreferenceResolver, userRepo repository.UserRepository, dispatcher dispatch.Service) Router {
	return &router{
		resolver:   resolver,
		userRepo:   userRepo,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

func (r *router) Dispatch(ctx context.Context, event Event) DispatchResult {
	pref, err := r.resolver.Resolve(ctx, event.UserID)
	if err != nil {
		return DispatchResult{Skipped: true, Reason: "preference lookup failed: " + err.Error()}
	}

	if pref.InMuteWindow(r.now().Hour()) {
		// Quiet hours: no delivery attempt, no ledger entry.
		return DispatchResult{Skipped: true, Reason: "muteWindow"}
	}

	channel := pref.ResolveChannel()
	if channel == "" {
		return DispatchResult{Skipped: true, Reason: "no channel allowed"}
	}

	user, err := r.userRepo.GetByID(ctx, event.UserID)
	if err != nil {
		return DispatchResult{Skipped: true, Reason: "user lookup failed: " + err.Error()}
	}

	result := r.dispatcher.Send(ctx, dispatch.Payload{
		UserID:         event.UserID,
		Email:          user.Email,
		Phone:          user.Phone,
		Channel:        channel,
		Event:          event.Type,
		Title:          event.Title,
		Message:        event.Message,
		Link:           event.Link,
		Meta:           event.Meta,
		NotificationID: event.NotificationID,
	})
	return DispatchResult{Channel: channel, Ok: result.Ok, Reason: result.Reason}
}
