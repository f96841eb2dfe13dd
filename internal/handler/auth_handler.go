package handler

import (
	"github.com/gofiber/fiber/v2"

	"locallink/internal/domain"
	"locallink/internal/middleware"
	"locallink/internal/service/auth"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input domain.RegisterInput
	if err := bind(c, &input); err != nil {
		return err
	}

	business, tokens, err := h.authService.Register(c.UserContext(), input)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse(business, tokens))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input domain.LoginInput
	if err := bind(c, &input); err != nil {
		return err
	}

	business, tokens, err := h.authService.Login(c.UserContext(), input)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(authResponse(business, tokens))
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input domain.RefreshTokenInput
	if err := bind(c, &input); err != nil {
		return err
	}

	tokens, err := h.authService.RefreshToken(c.UserContext(), input.RefreshToken)
	if err != nil {
		if err == auth.ErrInvalidToken || err == auth.ErrBusinessNotFound {
			return middleware.Unauthorized("Invalid refresh token")
		}
		return toHTTPError(err)
	}

	return c.JSON(tokens)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input domain.ForgotPasswordInput
	if err := bind(c, &input); err != nil {
		return err
	}

	if err := h.authService.RequestPasswordReset(c.UserContext(), input.Email); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"message": "If the email exists, a reset link has been sent",
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input domain.ResetPasswordInput
	if err := bind(c, &input); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.UserContext(), input.Token, input.NewPassword); err != nil {
		if err == auth.ErrInvalidToken {
			return middleware.BadRequest("Invalid or expired reset token")
		}
		return toHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Password has been reset successfully",
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	business := middleware.GetCurrentBusiness(c)
	if business == nil {
		return middleware.Unauthorized("Authentication required")
	}
	return c.JSON(business)
}

func authResponse(business *domain.Business, tokens *domain.TokenPair) fiber.Map {
	return fiber.Map{
		"token":         tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
		"user":          business,
	}
}
