package server

import (
	"strings"

	"blogapi/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

// SearchPosts handles GET /api/search/?q=...
// A blank query is not an error; it answers with an empty result set.
// @Summary Search posts
// @Description Case-insensitive substring match on title or content
// @Tags search
// @Produce json
// @Param q query string false "Search text"
// @Param page query int false "Page number"
// @Success 200 {object} models.SearchResponse
// @Router /search/ [get]
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return c.JSON(fiber.Map{
			"results": []any{},
			"count":   0,
		})
	}

	resp, err := s.postService.SearchPosts(c.UserContext(), q, c.Query(pagination.PageParam))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(resp)
}
