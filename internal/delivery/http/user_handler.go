package http

import (
	"errors"

	"orbit-hr-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	usecase *usecase.UserUsecase
}

func NewUserHandler(u *usecase.UserUsecase) *UserHandler {
	return &UserHandler{usecase: u}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var input usecase.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if input.Username == "" || input.Password == "" || input.Fullname == "" || input.EmployeeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username, password, fullname and employee_id are required"})
	}

	// the actor is optional: the very first account registers without a token
	role, _ := c.Locals("role").(string)
	user, err := h.usecase.Register(c.UserContext(), role, input)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User registered successfully", "data": user})
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	tokens, user, err := h.usecase.Login(c.UserContext(), input.Username, input.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":       "Login successful",
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"token_type":    tokens.TokenType,
		"expires_in":    tokens.ExpiresIn,
		"user":          user,
	})
}

func (h *UserHandler) Refresh(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil || input.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "refresh_token is required"})
	}

	tokens, err := h.usecase.Refresh(c.UserContext(), input.RefreshToken)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(tokens)
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	id, _ := c.Locals("user_id").(string)
	user, err := h.usecase.Me(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(user)
}

func writeError(c *fiber.Ctx, err error) error {
	var ve *usecase.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Message, "field": ve.Field})
	case errors.Is(err, usecase.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	case errors.Is(err, usecase.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	case errors.Is(err, usecase.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
