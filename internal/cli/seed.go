package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/quiz-admin-service/internal/config"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-admin-service/internal/services"
	"github.com/SAP-F-2025/quiz-admin-service/internal/validator"
)

// NewSeedCmd creates the configured default accounts.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default admin and user accounts when missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	defer repo.Close()

	users := services.NewUserService(repo, logger, validator.New())
	if err := users.SeedDefaults(ctx, seedUsers(cfg)); err != nil {
		return err
	}

	logger.Info("Seed complete", "accounts", len(cfg.Seed))
	return nil
}
