package server

import (
	"blogapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListComments handles GET /api/posts/:postId/comments/
// @Summary List a post's comments
// @Description Oldest first. An unknown post yields an empty page.
// @Tags comments
// @Produce json
// @Param postId path int true "Post ID"
// @Param page query int false "Page number"
// @Success 200 {object} pagination.Page[models.Comment]
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId}/comments/ [get]
func (s *Server) ListComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	page, err := s.commentService.ListComments(c.UserContext(), postID, pageInput(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// CreateComment handles POST /api/posts/:postId/comments/
// The post comes from the path and the author from the token.
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param request body object{content=string} true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId}/comments/ [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req struct {
		Content *string `json:"content" form:"content"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		AuthorID: userID,
		PostID:   postID,
		Content:  req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}
