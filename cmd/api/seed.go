package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-extras/cobraflags"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/01moynul/glowbeauty-golang/internal/catalog"
	"github.com/01moynul/glowbeauty-golang/internal/config"
	"github.com/01moynul/glowbeauty-golang/internal/logger"
	"github.com/01moynul/glowbeauty-golang/internal/models"
	"github.com/01moynul/glowbeauty-golang/internal/store"
)

const (
	adminEmailFlag    = "admin-email"
	adminPasswordFlag = "admin-password"
)

var seedFlags = map[string]cobraflags.Flag{
	adminEmailFlag: &cobraflags.StringFlag{
		Name:  adminEmailFlag,
		Value: "admin@glowbeauty.com",
		Usage: "Email of the admin account to create",
	},
	adminPasswordFlag: &cobraflags.StringFlag{
		Name:  adminPasswordFlag,
		Value: "admin123",
		Usage: "Password of the admin account to create",
	},
}

func newSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and a sample catalog (safe to re-run)",
		RunE:  runSeed,
	}
	cobraflags.RegisterMap(cmd, seedFlags)
	return cmd
}

type seedCategory struct {
	Name          string
	Description   string
	Subcategories []string
}

var sampleCategories = []seedCategory{
	{Name: "Makeup", Description: "Lips, eyes and face", Subcategories: []string{"Lipstick", "Foundation", "Eyeliner"}},
	{Name: "Skincare", Description: "Cleansers, serums and moisturisers", Subcategories: []string{"Serums", "Moisturizers", "Cleansers"}},
	{Name: "Haircare", Description: "Shampoos, oils and treatments", Subcategories: []string{"Shampoo", "Hair Oil"}},
	{Name: "Fragrance", Description: "Perfumes and body mists", Subcategories: []string{"Perfume"}},
}

type seedProduct struct {
	Name, Category, Subcategory, Price, Short string
	Featured, Bestseller, NewLaunch          bool
}

var sampleProducts = []seedProduct{
	{Name: "Velvet Matte Lipstick", Category: "Makeup", Subcategory: "Lipstick", Price: "18.50", Short: "Long-wear matte colour", Bestseller: true},
	{Name: "Silk Skin Foundation", Category: "Makeup", Subcategory: "Foundation", Price: "32.00", Short: "Buildable satin coverage", Featured: true},
	{Name: "Rose Glow Serum", Category: "Skincare", Subcategory: "Serums", Price: "24.99", Short: "Vitamin C brightening serum", Featured: true, Bestseller: true},
	{Name: "Hydra Cloud Moisturizer", Category: "Skincare", Subcategory: "Moisturizers", Price: "21.00", Short: "48h gel-cream hydration", NewLaunch: true},
	{Name: "Argan Repair Hair Oil", Category: "Haircare", Subcategory: "Hair Oil", Price: "15.75", Short: "Frizz control with argan oil"},
	{Name: "Midnight Bloom Eau de Parfum", Category: "Fragrance", Subcategory: "Perfume", Price: "58.00", Short: "Jasmine and amber", NewLaunch: true},
}

var sampleShades = []models.Shade{
	{Name: "Ruby Red", ColorCode: "#9B111E", Value: "ruby-red", IsActive: true, SortOrder: 1},
	{Name: "Nude Rose", ColorCode: "#C9A0A0", Value: "nude-rose", IsActive: true, SortOrder: 2},
	{Name: "Warm Beige", ColorCode: "#D8B48C", Value: "warm-beige", IsActive: true, SortOrder: 3},
}

var sampleSliders = []models.Slider{
	{Title: "Glow Up This Season", Subtitle: "New skincare launches", ImageURL: "/images/hero-skincare.jpg", Badge: "New", IsActive: true, SortOrder: 1},
	{Title: "Bold Lips, Zero Smudge", Subtitle: "Velvet Matte collection", ImageURL: "/images/hero-lipstick.jpg", Badge: "Bestseller", IsActive: true, SortOrder: 2},
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	st, err := openStore(ctx, cfg, log, true)
	if err != nil {
		return err
	}
	defer st.DB.Close()

	if err := seedAdmin(ctx, st, log, seedFlags[adminEmailFlag].GetString(), seedFlags[adminPasswordFlag].GetString()); err != nil {
		return err
	}
	if err := seedCatalog(ctx, st, log); err != nil {
		return err
	}
	log.Info("seed complete")
	return nil
}

func seedAdmin(ctx context.Context, st *store.Store, log *slog.Logger, emailAddr, password string) error {
	if _, err := st.GetUserByEmail(ctx, emailAddr); err == nil {
		log.Info("admin exists, skipping", "email", emailAddr)
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	var p models.Password
	if err := p.Set(password); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &models.User{
		FirstName:     "Store",
		LastName:      "Admin",
		Email:         emailAddr,
		PasswordHash:  p.Hash,
		Role:          models.RoleAdmin,
		EmailVerified: true,
	}
	if err := st.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info("admin created", "email", emailAddr)
	return nil
}

func seedCatalog(ctx context.Context, st *store.Store, log *slog.Logger) error {
	// 1. Categories and their subcategories
	for _, sc := range sampleCategories {
		cat, err := st.GetCategoryBySlug(ctx, catalog.Slug(sc.Name))
		if errors.Is(err, store.ErrNotFound) {
			cat = &models.Category{Name: sc.Name, Description: sc.Description, Status: models.StatusActive}
			if err := st.CreateCategory(ctx, cat); err != nil {
				return fmt.Errorf("seed category %s: %w", sc.Name, err)
			}
		} else if err != nil {
			return err
		}

		existing, err := st.ListSubcategories(ctx, cat.ID, false)
		if err != nil {
			return err
		}
		have := map[string]bool{}
		for _, sub := range existing {
			have[sub.Name] = true
		}
		for _, name := range sc.Subcategories {
			if have[name] {
				continue
			}
			sub := &models.Subcategory{Name: name, CategoryID: cat.ID, Status: models.StatusActive}
			if err := st.CreateSubcategory(ctx, sub); err != nil {
				return fmt.Errorf("seed subcategory %s: %w", name, err)
			}
		}
	}

	// 2. Products
	created := 0
	for _, sp := range sampleProducts {
		if _, err := st.GetProductBySlug(ctx, catalog.Slug(sp.Name)); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		p := &models.Product{
			Name:             sp.Name,
			Description:      sp.Short + ". Dermatologically tested and cruelty free.",
			ShortDescription: sp.Short,
			Price:            decimal.RequireFromString(sp.Price),
			Category:         sp.Category,
			Subcategory:      sp.Subcategory,
			Images:           []string{},
			InStock:          true,
			Featured:         sp.Featured,
			Bestseller:       sp.Bestseller,
			NewLaunch:        sp.NewLaunch,
		}
		if err := st.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", sp.Name, err)
		}
		created++
	}

	// 3. Shades and hero sliders, only into empty tables
	shades, err := st.ListShades(ctx, store.ShadeFilter{})
	if err != nil {
		return err
	}
	if len(shades) == 0 {
		for _, sh := range sampleShades {
			if err := st.CreateShade(ctx, &sh); err != nil {
				return fmt.Errorf("seed shade %s: %w", sh.Name, err)
			}
		}
	}
	sliders, err := st.ListSliders(ctx, false)
	if err != nil {
		return err
	}
	if len(sliders) == 0 {
		for _, sl := range sampleSliders {
			if err := st.CreateSlider(ctx, &sl); err != nil {
				return fmt.Errorf("seed slider %s: %w", sl.Title, err)
			}
		}
	}

	log.Info("catalog seeded", "categories", len(sampleCategories), "new_products", created)
	return nil
}
