package handler

import (
	"github.com/gofiber/fiber/v2"

	"chorelink/internal/domain"
	"chorelink/internal/service"
)

type Handlers struct {
	Chore        *ChoreHandler
	Notification *NotificationHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Chore:        NewChoreHandler(services.Lifecycle),
		Notification: NewNotificationHandler(services.Notification),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}
