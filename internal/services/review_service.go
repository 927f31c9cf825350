package services

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"couponhub/internal/domain"
	"couponhub/internal/repos"
)

const reviewLimit = 10

type ReviewInput struct {
	Rating  int
	Title   string
	Comment string
	Name    string
	Email   string
}

func (in ReviewInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&in.Title, validation.Length(0, 100)),
		validation.Field(&in.Comment, validation.Required, validation.Length(1, 2000)),
		validation.Field(&in.Name, validation.Required, validation.Length(1, 60)),
		validation.Field(&in.Email, validation.Length(0, 50), is.EmailFormat),
	)
}

// Rating summarises the listed reviews. Stars[i] counts reviews with i+1 stars.
type Rating struct {
	Count   int
	Average float64
	Stars   [5]int
}

// Rounded is the average to one decimal, for display.
func (r Rating) Rounded() string { return fmt.Sprintf("%.1f", r.Average) }

func summarize(reviews []domain.Review) Rating {
	var r Rating
	sum := 0
	for _, rv := range reviews {
		if rv.Rating < 1 || rv.Rating > 5 {
			continue
		}
		r.Stars[rv.Rating-1]++
		r.Count++
		sum += rv.Rating
	}
	if r.Count > 0 {
		r.Average = float64(sum) / float64(r.Count)
	}
	return r
}

type ReviewService struct {
	Reviews *repos.ReviewRepo
	Stores  *repos.StoreRepo
}

func NewReviewService(reviews *repos.ReviewRepo, stores *repos.StoreRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Stores: stores}
}

// List returns the latest reviews of a store and their rating summary.
func (s *ReviewService) List(ctx context.Context, storeID string) ([]domain.Review, Rating, error) {
	reviews, err := s.Reviews.ByStore(ctx, storeID, reviewLimit)
	if err != nil {
		return nil, Rating{}, fmt.Errorf("reviews of %s: %w", storeID, err)
	}
	return reviews, summarize(reviews), nil
}

func (s *ReviewService) Submit(ctx context.Context, storeID string, in ReviewInput) (domain.Review, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Comment = strings.TrimSpace(in.Comment)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return domain.Review{}, invalid(err)
	}
	st, err := s.Stores.Get(ctx, storeID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("review store %s: %w", storeID, err)
	}
	rv := domain.Review{
		StoreID:   st.ID,
		StoreName: st.Name,
		Rating:    in.Rating,
		Title:     in.Title,
		Comment:   in.Comment,
		Name:      in.Name,
		Email:     in.Email,
	}
	if err := s.Reviews.Create(ctx, &rv); err != nil {
		return domain.Review{}, fmt.Errorf("create review: %w", err)
	}
	return rv, nil
}

// Vote records a helpful or not-helpful mark and returns the review's store id.
func (s *ReviewService) Vote(ctx context.Context, id string, helpful bool) (string, error) {
	if err := s.Reviews.Vote(ctx, id, helpful); err != nil {
		return "", fmt.Errorf("vote review %s: %w", id, err)
	}
	return s.Reviews.StoreOf(ctx, id)
}
