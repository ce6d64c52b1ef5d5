package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-user-service/internal/interface/http"
)

// UserModule serves the user resource:
//
//	POST   /users
//	GET    /users?limit=&offset=
//	GET    /users/search?q=&size=   (when a search handler is set)
//	GET    /users/username/:username
//	GET    /users/:id
//	PUT    /users/:id, PATCH /users/:id
//	PUT    /users/:id/status
//	DELETE /users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	Search  *handlers.SearchHandler
	// Limiter guards every route; nil means no limit.
	Limiter gin.HandlerFunc
	// WriteLimiter is added to POST, PUT, PATCH and DELETE routes; nil means none.
	WriteLimiter gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, search *handlers.SearchHandler, limiter gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Search: search, Limiter: limiter}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	if m.Limiter != nil {
		users.Use(m.Limiter)
	}
	users.POST("", m.write(m.Handler.Create)...)
	users.GET("", m.Handler.List)
	if m.Search != nil {
		users.GET("/search", m.Search.Search)
	}
	users.GET("/username/:username", m.Handler.GetByUsername)
	users.GET("/:id", m.Handler.Get)
	users.PUT("/:id", m.write(m.Handler.Update)...)
	users.PATCH("/:id", m.write(m.Handler.Update)...)
	users.PUT("/:id/status", m.write(m.Handler.ChangeStatus)...)
	users.DELETE("/:id", m.write(m.Handler.Delete)...)
}

func (m *UserModule) write(h gin.HandlerFunc) []gin.HandlerFunc {
	if m.WriteLimiter == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{m.WriteLimiter, h}
}
