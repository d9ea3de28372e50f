package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/unatienda/store-api/internal/domain/entity"
	"github.com/unatienda/store-api/internal/infrastructure/postgres"
	"github.com/unatienda/store-api/pkg/config"
	"github.com/unatienda/store-api/pkg/logger"
)

// unactl agrupa las tareas operativas fuera del proceso de la API:
// migraciones de esquema y datos semilla para entornos nuevos.
func main() {
	app := &cli.App{
		Name:  "unactl",
		Usage: "tareas operativas de la tienda (migraciones, datos semilla)",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "aplica las migraciones de esquema pendientes",
				Action: runMigrate,
			},
			{
				Name:  "seed",
				Usage: "crea la cuenta admin inicial y los planes de membresía base",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "admin-email", Value: "admin@unatienda.local", Usage: "email de la cuenta admin"},
					&cli.StringFlag{Name: "admin-password", Required: true, Usage: "password de la cuenta admin"},
				},
				Action: runSeed,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMigrate(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("aplicar migraciones: %w", err)
	}
	log.Info().Msg("migraciones aplicadas")
	return nil
}

func runSeed(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	email := c.String("admin-email")
	password := c.String("admin-password")
	if len(password) < 8 {
		return fmt.Errorf("el password del admin debe tener al menos 8 caracteres")
	}

	userRepo := postgres.NewUserRepository(pool)
	existing, err := userRepo.FindByEmail(email)
	if err != nil {
		return fmt.Errorf("buscar admin: %w", err)
	}
	if existing == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashear password: %w", err)
		}
		now := time.Now()
		admin := &entity.User{
			ID:           uuid.New().String(),
			Email:        email,
			PasswordHash: string(hash),
			Name:         "Administrador",
			Role:         entity.RoleAdmin,
			Status:       "active",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(admin); err != nil {
			return fmt.Errorf("crear admin: %w", err)
		}
		log.Info().Str("email", email).Msg("cuenta admin creada")
	} else {
		log.Info().Str("email", email).Msg("la cuenta admin ya existe, se omite")
	}

	membershipRepo := postgres.NewMembershipRepository(pool)
	plans, err := membershipRepo.ListPlans(false)
	if err != nil {
		return fmt.Errorf("listar planes: %w", err)
	}
	if len(plans) == 0 {
		seed := []*entity.MembershipPlan{
			{
				ID:           uuid.New().String(),
				Name:         "Mensual",
				Description:  "Acceso a beneficios de socio por 30 días",
				Price:        decimal.NewFromInt(250),
				DurationDays: 30,
				Active:       true,
				CreatedAt:    time.Now(),
			},
			{
				ID:           uuid.New().String(),
				Name:         "Anual",
				Description:  "Acceso a beneficios de socio por un año",
				Price:        decimal.NewFromInt(2500),
				DurationDays: 365,
				Active:       true,
				CreatedAt:    time.Now(),
			},
		}
		for _, p := range seed {
			if err := membershipRepo.CreatePlan(p); err != nil {
				return fmt.Errorf("crear plan %s: %w", p.Name, err)
			}
		}
		log.Info().Int("plans", len(seed)).Msg("planes de membresía base creados")
	} else {
		log.Info().Msg("ya existen planes de membresía, se omite")
	}
	return nil
}
