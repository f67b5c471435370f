package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type Service interface {
	GetAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, productID string) (*Product, error)
	Search(ctx context.Context, term string) ([]Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetAll(ctx context.Context) ([]Product, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetByID(ctx context.Context, productID string) (*Product, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, ErrInvalidProductID
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Search(ctx context.Context, term string) ([]Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptySearchTerm
	}
	return s.repo.Search(ctx, term)
}
