package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/filevault/pkg/configs"
	ctxPkg "github.com/yeisme/filevault/pkg/context"
	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/internal/storage"
)

var repair bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "compare metadata rows against object-store keys and report orphans",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := configs.InitConfig(configPath); err != nil {
			return fmt.Errorf("init config: %w", err)
		}

		mgr, err := storage.Init(cmd.Context())
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}

		defer func() { _ = mgr.Close() }()

		ctx := ctxPkg.WithStorageManager(cmd.Context(), mgr)

		report, err := service.NewVaultService(ctx).Reconcile(ctx, repair)
		if err != nil {
			return err
		}

		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(b))

		return nil
	},
}

// registerReconcileCommand 注册 reconcile 子命令.
func registerReconcileCommand() {
	reconcileCmd.Flags().BoolVar(&repair, "repair", false, "delete dangling rows and orphan objects")
	rootCmd.AddCommand(reconcileCmd)
}
