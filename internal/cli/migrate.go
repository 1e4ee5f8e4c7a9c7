package cli

import (
	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/quiz-admin-service/internal/config"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(*configPath)
		},
	}
}

func runMigrations(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	logger.Info("Migrations applied", "driver", cfg.Database.Driver)
	return nil
}
