package handlers

import (
	"github.com/jmoiron/sqlx"

	"couponhub/internal/cache"
	"couponhub/internal/config"
	"couponhub/internal/guides"
	"couponhub/internal/repos"
	"couponhub/internal/services"
)

type Deps struct {
	Catalog *services.CatalogService
	Guides  *services.GuideService

	AuthHandler   *AuthHandler
	HomeHandler   *HomeHandler
	StoreHandler  *StoreHandler
	CouponHandler *CouponHandler
	SearchHandler *SearchHandler
	GuideHandler  *GuideHandler
	SavedHandler  *SavedHandler
	AdminHandler  *AdminHandler
	APIHandler    *APIHandler
}

func orDefault(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}

// Sources converts the configured feeds for the guide importer.
func Sources(feeds []config.Feed) []guides.Source {
	out := make([]guides.Source, 0, len(feeds))
	for _, f := range feeds {
		out = append(out, guides.Source{Name: f.Name, URL: f.URL, Category: f.Category})
	}
	return out
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	storeRepo := repos.NewStoreRepo(db)
	couponRepo := repos.NewCouponRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	articleRepo := repos.NewArticleRepo(db)
	savedRepo := repos.NewSavedRepo(db)

	snaps := cache.New(cfg.CacheTTL)
	catalogSvc := services.NewCatalogService(storeRepo, couponRepo, catRepo, snaps)
	searchSvc := services.NewSearchService(storeRepo, couponRepo)
	adminSvc := services.NewAdminService(storeRepo, couponRepo, catRepo, snaps)
	analyticsSvc := services.NewAnalyticsService(storeRepo, couponRepo, catRepo)
	reviewSvc := services.NewReviewService(reviewRepo, storeRepo)
	savedSvc := services.NewSavedService(savedRepo, couponRepo)
	guideSvc := services.NewGuideService(articleRepo, guides.NewRSSFetcher(), Sources(cfg.GuideFeeds))

	storesPage := orDefault(cfg.StoresPageSize, 12)
	couponsPage := orDefault(cfg.CouponsPageSize, 10)
	searchPage := orDefault(cfg.SearchPageSize, 20)

	return &Deps{
		Catalog: catalogSvc,
		Guides:  guideSvc,

		AuthHandler:   &AuthHandler{Auth: auth, SecureCookies: cfg.CookieSecure},
		HomeHandler:   &HomeHandler{Catalog: catalogSvc, Guides: guideSvc},
		StoreHandler:  &StoreHandler{Catalog: catalogSvc, Reviews: reviewSvc, Saved: savedSvc, PageSize: storesPage},
		CouponHandler: &CouponHandler{Catalog: catalogSvc, Saved: savedSvc, PageSize: couponsPage},
		SearchHandler: &SearchHandler{Search: searchSvc, PageSize: searchPage},
		GuideHandler:  &GuideHandler{Guides: guideSvc},
		SavedHandler:  &SavedHandler{Saved: savedSvc},
		AdminHandler:  &AdminHandler{Admin: adminSvc, Catalog: catalogSvc, Analytics: analyticsSvc},
		APIHandler: &APIHandler{
			Catalog: catalogSvc, Search: searchSvc,
			StoresPageSize: storesPage, CouponsPageSize: couponsPage, SearchPageSize: searchPage,
		},
	}
}
