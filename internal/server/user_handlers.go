package server

import (
	"net/url"

	"blogapi/internal/models"
	"blogapi/internal/pagination"
	"blogapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/users/:username/
// @Summary Get a user profile
// @Description The email is only shown to the profile owner
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number"
// @Success 200 {object} models.ProfileResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username}/ [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	// Params are raw; clients percent-encode the @ a username may contain.
	username, err := url.PathUnescape(c.Params("username"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("User"))
	}

	profile, err := s.userService.GetProfile(c.UserContext(), username,
		currentUserID(c), c.Query(pagination.PageParam))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// UpdateProfile handles PUT /api/profile/update/
// @Summary Update the caller's email
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{email=string} false "Profile changes"
// @Success 200 {object} models.AccountResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /profile/update/ [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Email *string `json:"email" form:"email"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	resp, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID: userID,
		Email:  req.Email,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(resp)
}
