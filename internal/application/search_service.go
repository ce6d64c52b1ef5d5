package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-service/internal/domain/errs"
	repo "github.com/oksasatya/go-ddd-user-service/internal/domain/repository"
)

const defaultSearchSize = 10

// SearchService answers free-text user queries from the search index.
type SearchService struct {
	Index  repo.UserSearchIndex
	Logger *logrus.Logger
}

func NewSearchService(index repo.UserSearchIndex, logger *logrus.Logger) *SearchService {
	return &SearchService{Index: index, Logger: logger}
}

// SearchUsers matches q against username, email and full name. Sizes outside
// 1..50 fall back to 10.
func (s *SearchService) SearchUsers(ctx context.Context, q string, size int) ([]entity.UserRecord, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, errs.Validation("q", errs.RuleEmpty, "search query cannot be empty")
	}
	if size <= 0 || size > 50 {
		size = defaultSearchSize
	}
	if s.Index == nil {
		return []entity.UserRecord{}, nil
	}
	hits, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"q": q, "size": size, "hits": len(hits)}).Debug("user search")
	}
	return hits, nil
}
