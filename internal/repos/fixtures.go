package repos

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"couponhub/internal/domain"
)

//go:embed seed.yaml
var seedYAML []byte

type fixtureCoupon struct {
	Key         string `yaml:"key"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Code        string `yaml:"code"`
	Discount    string `yaml:"discount"`
	Link        string `yaml:"link"`
	Exclusive   bool   `yaml:"exclusive"`
	ExpiryDate  string `yaml:"expiry_date"`
}

type fixtureStore struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	LogoURL     string          `yaml:"logo_url"`
	Website     string          `yaml:"website"`
	Category    string          `yaml:"category"`
	Coupons     []fixtureCoupon `yaml:"coupons"`
}

type fixtureUser struct {
	ID       string `yaml:"id"`
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Password string `yaml:"password"`
}

type fixtureCategory struct {
	ID           string `yaml:"id" db:"id"`
	Name         string `yaml:"name" db:"name"`
	Slug         string `yaml:"slug" db:"slug"`
	Description  string `yaml:"description" db:"description"`
	IconURL      string `yaml:"icon_url" db:"icon_url"`
	DisplayOrder int    `yaml:"display_order" db:"display_order"`
}

// fixtures is the bundled demo catalog. Every store also gets the default coupons,
// with {store} replaced by the store name.
type fixtures struct {
	Categories     []fixtureCategory `yaml:"categories"`
	Stores         []fixtureStore    `yaml:"stores"`
	DefaultCoupons []fixtureCoupon   `yaml:"default_coupons"`
	Users          []fixtureUser     `yaml:"users"`
}

func loadFixtures() (*fixtures, error) {
	var fx fixtures
	if err := yaml.Unmarshal(seedYAML, &fx); err != nil {
		return nil, fmt.Errorf("parse seed fixtures: %w", err)
	}
	return &fx, nil
}

// stores assigns creation times one minute apart in file order, oldest first, so
// "newest" has something to sort on.
func (fx *fixtures) stores() []domain.Store {
	base := time.Now().UTC().Add(-time.Duration(len(fx.Stores)) * time.Minute)
	out := make([]domain.Store, 0, len(fx.Stores))
	for i, s := range fx.Stores {
		st := domain.Store{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			LogoURL:     s.LogoURL,
			Website:     s.Website,
			Category:    s.Category,
		}
		st.CreatedAt.Time, st.CreatedAt.Valid = base.Add(time.Duration(i)*time.Minute), true
		out = append(out, st)
	}
	return out
}

func (fx *fixtures) coupons() []domain.Coupon {
	base := time.Now().UTC().Add(-time.Hour)
	var out []domain.Coupon
	n := 0
	for _, s := range fx.Stores {
		for _, c := range append(append([]fixtureCoupon{}, fx.DefaultCoupons...), s.Coupons...) {
			cp := domain.Coupon{
				ID:           s.ID + "-" + c.Key,
				StoreID:      s.ID,
				StoreName:    s.Name,
				StoreLogoURL: s.LogoURL,
				Title:        strings.ReplaceAll(c.Title, "{store}", s.Name),
				Description:  strings.ReplaceAll(c.Description, "{store}", s.Name),
				Code:         c.Code,
				Discount:     c.Discount,
				Link:         c.Link,
				Exclusive:    c.Exclusive,
				ExpiryDate:   c.ExpiryDate,
			}
			cp.CreatedAt.Time, cp.CreatedAt.Valid = base.Add(time.Duration(n)*time.Second), true
			n++
			out = append(out, cp)
		}
	}
	return out
}
