package services

import (
	"context"
	"fmt"

	"couponhub/internal/domain"
	"couponhub/internal/guides"
	"couponhub/internal/repos"
)

type GuideService struct {
	Articles *repos.ArticleRepo
	Fetcher  guides.Fetcher
	Sources  []guides.Source
}

func NewGuideService(articles *repos.ArticleRepo, f guides.Fetcher, sources []guides.Source) *GuideService {
	return &GuideService{Articles: articles, Fetcher: f, Sources: sources}
}

// List returns the newest articles; limit <= 0 returns all of them.
func (s *GuideService) List(ctx context.Context, limit int) ([]domain.Article, error) {
	return s.Articles.List(ctx, limit)
}

func (s *GuideService) Get(ctx context.Context, id string) (domain.Article, error) {
	return s.Articles.Get(ctx, id)
}

type ImportReport struct {
	Imported int
	Failed   []error
}

// Import fetches every configured feed and upserts what it finds. Feed failures are
// reported, not returned; only a storage error aborts the import.
func (s *GuideService) Import(ctx context.Context) (ImportReport, error) {
	res := guides.FetchAll(ctx, s.Fetcher, s.Sources)
	report := ImportReport{Failed: res.Errors}
	for _, a := range res.Articles {
		if err := s.Articles.Upsert(ctx, a); err != nil {
			return report, fmt.Errorf("store article %s: %w", a.ID, err)
		}
		report.Imported++
	}
	return report, nil
}
