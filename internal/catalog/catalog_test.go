package catalog

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSlug(t *testing.T) {
	c := qt.New(t)
	c.Assert(Slug("Velvet Matte Lipstick"), qt.Equals, "velvet-matte-lipstick")
	c.Assert(Slug("  Vitamin C Serum (30ml)  "), qt.Equals, "vitamin-c-serum-30ml")
	c.Assert(Slug("Hydra Glow!!"), qt.Equals, "hydra-glow")
	c.Assert(Slug("Rose & Oud Serum"), qt.Equals, "rose-oud-serum")
	c.Assert(Slug("Kajal @ Home"), qt.Equals, "kajal-home")
	c.Assert(Slug("Crème Brûlée Balm"), qt.Equals, "creme-brulee-balm")
}

func TestMatches(t *testing.T) {
	tests := []struct {
		product   string
		requested string
		want      bool
	}{
		{"Makeup", "makeup", true},
		{"Lip Makeup", "makeup", true},
		{"makeup", "lip makeup", true},
		{"Skin Care", "skincare", true},
		{"makeup", "beauty", true},
		{"skincare", "beauty", true},
		{"Face Serums", "skincare", true},
		{"perfume", "fragrance", true},
		{"hair", "haircare", true},
		{"haircare", "skincare", false},
		{"fragrance", "makeup", false},
		{"", "makeup", false},
		{"makeup", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.product+"/"+tt.requested, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(Matches(tt.product, tt.requested), qt.Equals, tt.want)
		})
	}
}

func TestFilter(t *testing.T) {
	c := qt.New(t)

	type item struct{ Name, Category string }
	items := []item{
		{"Lipstick", "makeup"},
		{"Serum", "skincare"},
		{"Shampoo", "haircare"},
	}
	got := Filter(items, "beauty", func(i item) string { return i.Category })
	c.Assert(got, qt.HasLen, 3)

	got = Filter(items, "skin", func(i item) string { return i.Category })
	c.Assert(got, qt.DeepEquals, []item{{"Serum", "skincare"}})

	got = Filter(items, "jewellery", func(i item) string { return i.Category })
	c.Assert(got, qt.HasLen, 0)
}
