package ai

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/shopspring/decimal"

	"github.com/01moynul/glowbeauty-golang/internal/catalog"
	"github.com/01moynul/glowbeauty-golang/internal/models"
	"github.com/01moynul/glowbeauty-golang/internal/store"
)

type memCatalog []*models.Product

func (m memCatalog) ListProducts(_ context.Context, f store.ProductFilter) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range m {
		if f.Search == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m memCatalog) ProductsByCategory(_ context.Context, category string) ([]*models.Product, error) {
	return catalog.Filter([]*models.Product(m), category, func(p *models.Product) string { return p.Category }), nil
}

func TestSearchCatalog(t *testing.T) {
	c := qt.New(t)
	s := &Service{Catalog: memCatalog{
		{ID: 1, Name: "Vitamin C Serum", Category: "skincare", Price: decimal.RequireFromString("32")},
		{ID: 2, Name: "Matte Lipstick", Category: "makeup", Price: decimal.RequireFromString("18.5")},
		{ID: 3, Name: "Lip Serum", Category: "makeup", Price: decimal.RequireFromString("12")},
	}}
	ctx := context.Background()

	decode := func(raw string) []productHit {
		var hits []productHit
		c.Assert(json.Unmarshal([]byte(raw), &hits), qt.IsNil)
		return hits
	}

	raw, err := s.SearchCatalog(ctx, "serum", "")
	c.Assert(err, qt.IsNil)
	c.Assert(decode(raw), qt.HasLen, 2)

	raw, err = s.SearchCatalog(ctx, "serum", "makeup")
	c.Assert(err, qt.IsNil)
	hits := decode(raw)
	c.Assert(hits, qt.HasLen, 1)
	c.Assert(hits[0].Name, qt.Equals, "Lip Serum")
	c.Assert(hits[0].Price, qt.Equals, "12.00")

	raw, err = s.SearchCatalog(ctx, "", "beauty")
	c.Assert(err, qt.IsNil)
	c.Assert(decode(raw), qt.HasLen, 3)
}

func TestParseProductCopy(t *testing.T) {
	c := qt.New(t)

	got, err := ParseProductCopy("```json\n{\"shortDescription\":\"Glow\",\"description\":\"Long\",\"benefits\":\"a, b\",\"howToUse\":\"Apply\"}\n```")
	c.Assert(err, qt.IsNil)
	c.Assert(got.ShortDescription, qt.Equals, "Glow")
	c.Assert(got.HowToUse, qt.Equals, "Apply")

	_, err = ParseProductCopy("{}")
	c.Assert(err, qt.ErrorMatches, "model returned no copy")

	_, err = ParseProductCopy("not json")
	c.Assert(err, qt.ErrorMatches, "decode product copy: .*")
}

func TestNewServiceWithoutKey(t *testing.T) {
	c := qt.New(t)
	_, err := NewService(context.Background(), "", "", nil)
	c.Assert(err, qt.Equals, ErrDisabled)
}
