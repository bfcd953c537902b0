package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/storage/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "run database schema migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := configs.InitConfig(configPath); err != nil {
			return fmt.Errorf("init config: %w", err)
		}

		cfg := configs.GetConfig()

		client, err := db.New(cmd.Context(), &cfg.DB)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}

		defer func() { _ = client.Close() }()

		if err := client.Migrate(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "migration completed")

		return nil
	},
}

// registerMigrateCommand 注册 migrate 子命令.
func registerMigrateCommand() {
	rootCmd.AddCommand(migrateCmd)
}
