package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/blog"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/cache"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/config"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/db"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/patch"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/products"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/programs"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/settings"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/storage"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	loc := cfg.Timezone
	urls := storage.NewRewriter(cfg.StorageInternalOrigin, cfg.StoragePublicOrigin)

	if cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin account")
	} else {
		admin, err := users.NewService(users.NewRepository(cols.Users), loc).EnsureAdmin(ctx, "Administrator", cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("admin ready: %s", admin.Email)
	}

	settingsService := settings.NewService(settings.NewRepository(cols.StoreSettings), cache.NewNoop(), 0, urls, loc)
	current, err := settingsService.Get(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if current == nil {
		_, err := settingsService.Update(ctx, settings.UpdateRequest{
			Tagline:            patch.Some("Clinical skincare, guided by practitioners"),
			Description:        patch.Some("Evidence-led serums and treatment programs."),
			AnnouncementBanner: patch.Some("Free delivery on orders over R750"),
			PartnerBrands:      patch.Some([]string{"Dermalogica", "Heliocare", "NeoStrata"}),
		})
		if err != nil {
			log.Fatal(err)
		}
		log.Println("store settings seeded")
	}

	if empty(ctx, cols.Products) {
		svc := products.NewService(products.NewRepository(cols.Products), cache.NewNoop(), 0, urls, loc)
		for _, req := range []products.CreateRequest{
			{Name: "Vitamin C Brightening Serum", Store: "Serum Sculpt", Category: "Serums", Price: 650, Description: "15% L-ascorbic acid with ferulic acid.", Ingredients: []string{"L-ascorbic acid", "Ferulic acid", "Vitamin E"}},
			{Name: "Retinal Night Concentrate", Store: "Serum Sculpt", Category: "Serums", Price: 780, Usage: "Evenings, three times a week to start."},
			{Name: "Barrier Repair Cream", Store: "Serum Sculpt", Category: "Moisturisers", Price: 420, Status: products.StatusOutOfStock},
		} {
			if _, err := svc.Create(ctx, req); err != nil {
				log.Fatal(err)
			}
		}
		log.Println("products seeded")
	}

	if empty(ctx, cols.BlogPosts) {
		svc := blog.NewService(blog.NewRepository(cols.BlogPosts), urls, loc)
		for _, req := range []blog.CreateRequest{
			{Title: "Building a retinoid routine", Category: "Education", Excerpt: "How to start retinoids without irritation.", Content: "Start low and go slow. Apply a pea sized amount to dry skin.", Tags: []string{"retinoids", "routine"}, Status: blog.StatusPublished},
			{Title: "Sunscreen myths", Category: "Education", Content: "Draft.", Tags: []string{"spf"}},
		} {
			if _, err := svc.Create(ctx, req); err != nil {
				log.Fatal(err)
			}
		}
		log.Println("blog posts seeded")
	}

	if empty(ctx, cols.Programs) {
		svc := programs.NewService(programs.NewRepository(cols.Programs), loc)
		_, err := svc.Create(ctx, programs.CreateRequest{
			Name:        "12 Week Pigmentation Program",
			Description: "Guided treatment plan for uneven tone.",
			Status:      programs.StatusActive,
			Phases: []programs.Phase{
				{Name: "Prepare", DurationWeeks: 2, Description: "Barrier support."},
				{Name: "Correct", DurationWeeks: 8, Description: "Active treatment."},
				{Name: "Maintain", DurationWeeks: 2, Description: "Daily protection."},
			},
			Outcomes: []string{"More even tone", "Fewer dark spots"},
		})
		if err != nil {
			log.Fatal(err)
		}
		log.Println("programs seeded")
	}

	log.Println("seed completed")
}

func empty(ctx context.Context, col *mongo.Collection) bool {
	n, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Fatal(err)
	}
	return n == 0
}
