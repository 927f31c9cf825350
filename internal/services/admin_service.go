package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"couponhub/internal/cache"
	"couponhub/internal/domain"
	"couponhub/internal/repos"
)

var (
	reSlug     = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	reNonSlug  = regexp.MustCompile(`[^a-z0-9]+`)
	reCategory = regexp.MustCompile(`^[A-Za-z0-9 &'\-]+$`)
)

// Slugify lower-cases name and collapses every run of other characters into "-".
func Slugify(name string) string {
	return strings.Trim(reNonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

type StoreInput struct {
	Name        string
	Description string
	LogoURL     string
	Website     string
	Category    string
}

func (in StoreInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 80)),
		validation.Field(&in.Description, validation.Length(0, 1000)),
		validation.Field(&in.LogoURL, is.URL),
		validation.Field(&in.Website, is.URL),
		validation.Field(&in.Category, validation.Length(0, 40), validation.Match(reCategory)),
	)
}

func (in StoreInput) trimmed() StoreInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.LogoURL = strings.TrimSpace(in.LogoURL)
	in.Website = strings.TrimSpace(in.Website)
	in.Category = strings.TrimSpace(in.Category)
	return in
}

type CouponInput struct {
	StoreID     string
	Title       string
	Description string
	Code        string
	Discount    string
	Link        string
	Exclusive   bool
	ExpiryDate  string
}

func (in CouponInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.StoreID, validation.Required),
		validation.Field(&in.Title, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.Description, validation.Length(0, 1000)),
		validation.Field(&in.Code, validation.Length(0, 40), is.PrintableASCII),
		validation.Field(&in.Discount, validation.Length(0, 40)),
		validation.Field(&in.Link, is.URL),
		validation.Field(&in.ExpiryDate, validation.Date("2006-01-02")),
	)
}

func (in CouponInput) trimmed() CouponInput {
	in.StoreID = strings.TrimSpace(in.StoreID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Discount = strings.TrimSpace(in.Discount)
	in.Link = strings.TrimSpace(in.Link)
	in.ExpiryDate = strings.TrimSpace(in.ExpiryDate)
	return in
}

type CategoryInput struct {
	Name         string
	Slug         string
	Description  string
	IconURL      string
	DisplayOrder int
}

func (in CategoryInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 40), validation.Match(reCategory)),
		validation.Field(&in.Slug, validation.Required, validation.Match(reSlug)),
		validation.Field(&in.Description, validation.Length(0, 500)),
		validation.Field(&in.IconURL, is.URL),
		validation.Field(&in.DisplayOrder, validation.Min(0), validation.Max(9999)),
	)
}

// trimmed fills a missing slug from the name.
func (in CategoryInput) trimmed() CategoryInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = Slugify(in.Name)
	}
	in.Description = strings.TrimSpace(in.Description)
	in.IconURL = strings.TrimSpace(in.IconURL)
	return in
}

// AdminService performs the back-office writes. Every successful write bumps the
// snapshot version of the kinds it touched.
type AdminService struct {
	Stores  *repos.StoreRepo
	Coupons *repos.CouponRepo
	Cats    *repos.CategoryRepo
	Cache   *cache.Snapshots
}

func NewAdminService(stores *repos.StoreRepo, coupons *repos.CouponRepo, cats *repos.CategoryRepo, snaps *cache.Snapshots) *AdminService {
	return &AdminService{Stores: stores, Coupons: coupons, Cats: cats, Cache: snaps}
}

func (s *AdminService) CreateStore(ctx context.Context, in StoreInput) (domain.Store, error) {
	in = in.trimmed()
	if err := in.Validate(); err != nil {
		return domain.Store{}, invalid(err)
	}
	st := domain.Store{
		Name:        in.Name,
		Description: in.Description,
		LogoURL:     in.LogoURL,
		Website:     in.Website,
		Category:    in.Category,
	}
	if err := s.Stores.Create(ctx, &st); err != nil {
		return domain.Store{}, fmt.Errorf("create store: %w", err)
	}
	s.Cache.Bump(domain.KindStore)
	return st, nil
}

// UpdateStore leaves the store copies held by existing coupons as they are.
func (s *AdminService) UpdateStore(ctx context.Context, id string, in StoreInput) (domain.Store, error) {
	in = in.trimmed()
	if err := in.Validate(); err != nil {
		return domain.Store{}, invalid(err)
	}
	st, err := s.Stores.Get(ctx, id)
	if err != nil {
		return domain.Store{}, fmt.Errorf("update store %s: %w", id, err)
	}
	st.Name, st.Description, st.LogoURL, st.Website, st.Category =
		in.Name, in.Description, in.LogoURL, in.Website, in.Category
	if err := s.Stores.Update(ctx, &st); err != nil {
		return domain.Store{}, fmt.Errorf("update store %s: %w", id, err)
	}
	s.Cache.Bump(domain.KindStore)
	return st, nil
}

func (s *AdminService) DeleteStore(ctx context.Context, id string) error {
	if err := s.Stores.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete store %s: %w", id, err)
	}
	s.Cache.Bump(domain.KindStore)
	s.Cache.Bump(domain.KindCoupon)
	return nil
}

// couponFrom copies the chosen store's name and logo onto the coupon.
func (s *AdminService) couponFrom(ctx context.Context, in CouponInput, c *domain.Coupon) error {
	st, err := s.Stores.Get(ctx, in.StoreID)
	if errors.Is(err, domain.ErrNotFound) {
		return invalid(validation.Errors{"StoreID": errors.New("unknown store")})
	}
	if err != nil {
		return err
	}
	c.StoreID, c.StoreName, c.StoreLogoURL = st.ID, st.Name, st.LogoURL
	c.Title, c.Description, c.Code, c.Discount = in.Title, in.Description, in.Code, in.Discount
	c.Link, c.Exclusive, c.ExpiryDate = in.Link, in.Exclusive, in.ExpiryDate
	return nil
}

func (s *AdminService) CreateCoupon(ctx context.Context, in CouponInput) (domain.Coupon, error) {
	in = in.trimmed()
	if err := in.Validate(); err != nil {
		return domain.Coupon{}, invalid(err)
	}
	var c domain.Coupon
	if err := s.couponFrom(ctx, in, &c); err != nil {
		return domain.Coupon{}, fmt.Errorf("create coupon: %w", err)
	}
	if err := s.Coupons.Create(ctx, &c); err != nil {
		return domain.Coupon{}, fmt.Errorf("create coupon: %w", err)
	}
	s.Cache.Bump(domain.KindCoupon)
	return c, nil
}

// UpdateCoupon re-copies the store fields, so moving a coupon or re-saving it picks
// up the store's current name and logo.
func (s *AdminService) UpdateCoupon(ctx context.Context, id string, in CouponInput) (domain.Coupon, error) {
	in = in.trimmed()
	if err := in.Validate(); err != nil {
		return domain.Coupon{}, invalid(err)
	}
	c, err := s.Coupons.Get(ctx, id)
	if err != nil {
		return domain.Coupon{}, fmt.Errorf("update coupon %s: %w", id, err)
	}
	if err := s.couponFrom(ctx, in, &c); err != nil {
		return domain.Coupon{}, fmt.Errorf("update coupon %s: %w", id, err)
	}
	if err := s.Coupons.Update(ctx, &c); err != nil {
		return domain.Coupon{}, fmt.Errorf("update coupon %s: %w", id, err)
	}
	s.Cache.Bump(domain.KindCoupon)
	return c, nil
}

func (s *AdminService) DeleteCoupon(ctx context.Context, id string) error {
	if err := s.Coupons.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete coupon %s: %w", id, err)
	}
	s.Cache.Bump(domain.KindCoupon)
	return nil
}

func (s *AdminService) CreateCategory(ctx context.Context, in CategoryInput) (domain.Category, error) {
	in = in.trimmed()
	if err := in.Validate(); err != nil {
		return domain.Category{}, invalid(err)
	}
	c := domain.Category{
		Name:         in.Name,
		Slug:         in.Slug,
		Description:  in.Description,
		IconURL:      in.IconURL,
		DisplayOrder: in.DisplayOrder,
	}
	if err := s.Cats.Create(ctx, &c); err != nil {
		return domain.Category{}, fmt.Errorf("create category %q: %w", in.Name, err)
	}
	s.Cache.Bump(kindCategory)
	return c, nil
}

func (s *AdminService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (domain.Category, error) {
	in = in.trimmed()
	if err := in.Validate(); err != nil {
		return domain.Category{}, invalid(err)
	}
	c, err := s.Cats.Get(ctx, id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("update category %s: %w", id, err)
	}
	c.Name, c.Slug, c.Description, c.IconURL, c.DisplayOrder =
		in.Name, in.Slug, in.Description, in.IconURL, in.DisplayOrder
	if err := s.Cats.Update(ctx, &c); err != nil {
		return domain.Category{}, fmt.Errorf("update category %s: %w", id, err)
	}
	s.Cache.Bump(kindCategory)
	return c, nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.Cats.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	s.Cache.Bump(kindCategory)
	return nil
}
