package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-ddd-user-service/internal/application"
	"github.com/oksasatya/go-ddd-user-service/pkg/response"
	"github.com/oksasatya/go-ddd-user-service/pkg/validation"
)

type SearchHandler struct {
	Svc    *userapp.SearchService
	Logger *logrus.Logger
}

func NewSearchHandler(svc *userapp.SearchService, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{Svc: svc, Logger: logger}
}

type searchQuery struct {
	Q    string `form:"q"`
	Size int    `form:"size"`
}

// Search answers GET /users/search?q=&size= from the search index.
func (h *SearchHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q.Q, q.Size)
	observe("search", err)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]userapp.UserResponse, 0, len(hits))
	for _, rec := range hits {
		out = append(out, userapp.ToUserResponseFromRecord(rec))
	}
	response.Success(c, http.StatusOK, out, "search results", map[string]any{"count": len(out)})
}
