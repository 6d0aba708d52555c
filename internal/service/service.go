package service

import (
	"github.com/redis/go-redis/v9"

	"chorelink/internal/config"
	"chorelink/internal/repository"
	"chorelink/internal/service/dispatch"
	"chorelink/internal/service/lifecycle"
	"chorelink/internal/service/notification"
)

type Services struct {
	Lifecycle    lifecycle.Service
	Notification notification.Service
	Dispatch     dispatch.Service
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, cfg *config.Config) *Services {
	dispatcher := dispatch.NewService(cfg, repos.Delivery)
	resolver := notification.NewPreferenceResolver(repos.Preference, redisClient)
	router := notification.NewRouter(resolver, repos.User, dispatcher)
	notifService := notification.NewService(repos.Notification, repos.Chore, repos.Cancellation, repos.Delivery, router, redisClient)
	lifecycleService := lifecycle.NewService(repos.Chore, repos.Cancellation, notifService)

	return &Services{
		Lifecycle:    lifecycleService,
		Notification: notifService,
		Dispatch:     dispatcher,
	}
}
