package server

import (
	"time"

	"blogapi/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Access is the identity requirement of an endpoint.
type Access int

const (
	// Public endpoints never look at the Authorization header.
	Public Access = iota
	// Optional endpoints resolve a valid token but serve anonymous callers too.
	Optional
	// Authenticated endpoints require a token resolving to an existing user.
	Authenticated
	// OwnerOnly endpoints require authentication; the service then answers
	// 404 for a missing resource and 403 for one the caller does not own.
	OwnerOnly
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Optional:
		return "optional"
	case Authenticated:
		return "authenticated"
	case OwnerOnly:
		return "owner-only"
	default:
		return "unknown"
	}
}

// Route is one row of the policy table.
type Route struct {
	Method     string
	Path       string
	Access     Access
	Middleware []fiber.Handler
	Handler    fiber.Handler
}

const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// Routes is the policy table. Order matters: fixed segments such as
// /api/posts/user/ precede the parameterised /api/posts/:id/.
func (s *Server) Routes() []Route {
	authLimit := func(name string, policy middleware.FailPolicy) []fiber.Handler {
		return []fiber.Handler{middleware.RateLimitWithPolicy(s.redis, authRateLimit, authRateWindow, policy, name)}
	}

	return []Route{
		// Login refuses traffic when the limiter store is down; registration stays open.
		{Method: fiber.MethodPost, Path: "/api/auth/register/", Access: Public, Middleware: authLimit("auth:register", middleware.FailOpen), Handler: s.Register},
		{Method: fiber.MethodPost, Path: "/api/auth/login/", Access: Public, Middleware: authLimit("auth:login", middleware.FailClosed), Handler: s.Login},
		{Method: fiber.MethodPost, Path: "/api/auth/token/refresh/", Access: Public, Handler: s.RefreshToken},

		{Method: fiber.MethodGet, Path: "/api/posts/", Access: Public, Handler: s.ListPosts},
		{Method: fiber.MethodPost, Path: "/api/posts/", Access: Authenticated, Handler: s.CreatePost},
		{Method: fiber.MethodGet, Path: "/api/posts/user/", Access: Authenticated, Handler: s.ListMyPosts},
		{Method: fiber.MethodGet, Path: "/api/posts/:id/", Access: Public, Handler: s.GetPost},
		{Method: fiber.MethodPut, Path: "/api/posts/:id/", Access: OwnerOnly, Handler: s.UpdatePost},
		{Method: fiber.MethodPatch, Path: "/api/posts/:id/", Access: OwnerOnly, Handler: s.PatchPost},
		{Method: fiber.MethodDelete, Path: "/api/posts/:id/", Access: OwnerOnly, Handler: s.DeletePost},

		{Method: fiber.MethodGet, Path: "/api/posts/:postId/comments/", Access: Public, Handler: s.ListComments},
		{Method: fiber.MethodPost, Path: "/api/posts/:postId/comments/", Access: Authenticated, Handler: s.CreateComment},

		{Method: fiber.MethodGet, Path: "/api/search/", Access: Public, Handler: s.SearchPosts},

		{Method: fiber.MethodGet, Path: "/api/users/:username/", Access: Optional, Handler: s.GetProfile},
		{Method: fiber.MethodPut, Path: "/api/profile/update/", Access: Authenticated, Handler: s.UpdateProfile},
	}
}

// accessHandlers returns the identity middleware enforcing access.
func (s *Server) accessHandlers(access Access) []fiber.Handler {
	switch access {
	case Optional:
		return []fiber.Handler{s.OptionalAuth()}
	case Authenticated, OwnerOnly:
		return []fiber.Handler{s.AuthRequired()}
	default:
		return nil
	}
}
