package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"chorelink/internal/domain"
	"chorelink/internal/middleware"
	"chorelink/internal/service/lifecycle"
)

type ChoreHandler struct {
	lifecycleService lifecycle.Service
}

func NewChoreHandler(lifecycleService lifecycle.Service) *ChoreHandler {
	return &ChoreHandler{lifecycleService: lifecycleService}
}

func (h *ChoreHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.CreateChoreInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Title == "" {
		return middleware.BadRequest("Title is required")
	}

	chore, err := h.lifecycleService.Create(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(chore)
}

func (h *ChoreHandler) Get(c *fiber.Ctx) error {
	choreID, err := uuid.Parse(c.Params("choreId"))
	if err != nil {
		return middleware.BadRequest("Invalid chore ID")
	}

	chore, err := h.lifecycleService.GetByID(c.Context(), choreID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(chore)
}

func (h *ChoreHandler) ListMine(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	params := getPaginationParams(c)

	result, err := h.lifecycleService.ListByUser(c.Context(), userID, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *ChoreHandler) Publish(c *fiber.Ctx) error {
	return h.transition(c, func(ctx *fiber.Ctx, choreID, userID uuid.UUID) (*domain.Chore, error) {
		return h.lifecycleService.Publish(ctx.Context(), choreID, userID)
	})
}

func (h *ChoreHandler) Assign(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	choreID, err := uuid.Parse(c.Params("choreId"))
	if err != nil {
		return middleware.BadRequest("Invalid chore ID")
	}

	var input struct {
		WorkerID uuid.UUID `json:"worker_id"`
	}
	if err := c.BodyParser(&input); err != nil || input.WorkerID == uuid.Nil {
		return middleware.BadRequest("worker_id is required")
	}

	chore, err := h.lifecycleService.Assign(c.Context(), choreID, userID, input.WorkerID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(chore)
}

func (h *ChoreHandler) Start(c *fiber.Ctx) error {
	return h.transition(c, func(ctx *fiber.Ctx, choreID, userID uuid.UUID) (*domain.Chore, error) {
		return h.lifecycleService.Start(ctx.Context(), choreID, userID)
	})
}

func (h *ChoreHandler) Complete(c *fiber.Ctx) error {
	return h.transition(c, func(ctx *fiber.Ctx, choreID, userID uuid.UUID) (*domain.Chore, error) {
		return h.lifecycleService.Complete(ctx.Context(), choreID, userID)
	})
}

func (h *ChoreHandler) Close(c *fiber.Ctx) error {
	return h.transition(c, func(ctx *fiber.Ctx, choreID, userID uuid.UUID) (*domain.Chore, error) {
		return h.lifecycleService.Close(ctx.Context(), choreID, userID)
	})
}

func (h *ChoreHandler) Cancel(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	choreID, err := uuid.Parse(c.Params("choreId"))
	if err != nil {
		return middleware.BadRequest("Invalid chore ID")
	}

	var input struct {
		Reason *string `json:"reason"`
	}
	_ = c.BodyParser(&input)

	chore, err := h.lifecycleService.DirectCancel(c.Context(), choreID, userID, input.Reason)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(chore)
}

func (h *ChoreHandler) RequestCancellation(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	choreID, err := uuid.Parse(c.Params("choreId"))
	if err != nil {
		return middleware.BadRequest("Invalid chore ID")
	}

	var input domain.RequestCancellationInput
	_ = c.BodyParser(&input)

	chore, req, err := h.lifecycleService.RequestCancellation(c.Context(), choreID, userID, input.Reason)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"chore":   chore,
		"request": req,
	})
}

func (h *ChoreHandler) DecideCancellation(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	choreID, err := uuid.Parse(c.Params("choreId"))
	if err != nil {
		return middleware.BadRequest("Invalid chore ID")
	}

	var input domain.DecideCancellationInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if !input.Decision.IsValid() {
		return middleware.BadRequest("decision must be APPROVE or REJECT")
	}

	chore, req, err := h.lifecycleService.DecideCancellation(c.Context(), choreID, userID, input.Decision)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"chore":   chore,
		"request": req,
	})
}

func (h *ChoreHandler) ListCancellations(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	choreID, err := uuid.Parse(c.Params("choreId"))
	if err != nil {
		return middleware.BadRequest("Invalid chore ID")
	}

	requests, err := h.lifecycleService.ListCancellations(c.Context(), choreID, userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": requests})
}

func (h *ChoreHandler) transition(c *fiber.Ctx, fn func(ctx *fiber.Ctx, choreID, userID uuid.UUID) (*domain.Chore, error)) error {
	userID := middleware.GetCurrentUserID(c)
	if userID == uuid.Nil {
		return middleware.Unauthorized("User not authenticated")
	}

	choreID, err := uuid.Parse(c.Params("choreId"))
	if err != nil {
		return middleware.BadRequest("Invalid chore ID")
	}

	chore, err := fn(c, choreID, userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(chore)
}
