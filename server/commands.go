package server

import (
	"context"
	_ "embed"
	"fmt"

	"hoyspace-api/auth"
	"hoyspace-api/config"
	"hoyspace-api/database"
	"hoyspace-api/models"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed seed_spaces.yaml
var seedSpacesYAML []byte

type seedSpace struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Price       float64  `yaml:"price"`
	Location    string   `yaml:"location"`
	Images      []string `yaml:"images"`
	Category    string   `yaml:"category"`
	Amenities   []string `yaml:"amenities"`
}

func (s seedSpace) request() models.SpaceRequest {
	return models.SpaceRequest{
		Title:       &s.Title,
		Description: &s.Description,
		Price:       &s.Price,
		Location:    &s.Location,
		Images:      &s.Images,
		Amenities:   &s.Amenities,
		Category:    &s.Category,
	}
}

// openApp loads config and the database for a one-shot CLI command.
func openApp(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	dbConn, err := database.InitializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}
	return NewApp(cfg, dbConn, nil, nil), nil
}

// CreateAdmin bootstraps an admin account. Running it twice is harmless.
func CreateAdmin(configPath, name, email, password string) error {
	app, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer app.DB.Close()
	return createAdmin(context.Background(), app, name, email, password)
}

func createAdmin(ctx context.Context, app *App, name, email, password string) error {
	u, created, err := app.Users.EnsureAdmin(ctx, name, email, password)
	if err != nil {
		return err
	}
	if created {
		logger.Info("Admin user created", zap.String("email", u.Email), zap.Int64("user_id", u.ID))
	} else {
		logger.Info("Admin user already exists", zap.String("email", u.Email), zap.Int64("user_id", u.ID))
	}
	return nil
}

// SeedSpaces inserts the sample listings, hosted by the first admin found.
func SeedSpaces(configPath string) error {
	app, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer app.DB.Close()
	_, err = seedSpaces(context.Background(), app)
	return err
}

// seedSpaces does nothing when listings already exist.
func seedSpaces(ctx context.Context, app *App) (int, error) {
	existing, err := app.Spaces.List(ctx, models.SpaceFilter{})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		logger.Info("Spaces already present, skipping seed", zap.Int("count", len(existing)))
		return 0, nil
	}

	host, err := app.Users.FirstAdmin(ctx)
	if err != nil {
		return 0, fmt.Errorf("find host (run -command create-admin first): %w", err)
	}

	var seeds []seedSpace
	if err := yaml.Unmarshal(seedSpacesYAML, &seeds); err != nil {
		return 0, fmt.Errorf("parse seed data: %w", err)
	}

	actor := auth.Identity{ID: host.ID, Role: host.Role}
	for _, s := range seeds {
		if _, err := app.Spaces.Create(ctx, actor, s.request()); err != nil {
			return 0, fmt.Errorf("seed %q: %w", s.Title, err)
		}
	}
	logger.Info("Seeded spaces", zap.Int("count", len(seeds)), zap.Int64("host_id", host.ID))
	return len(seeds), nil
}
