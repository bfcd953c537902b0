// Package cmd 提供 filevault 的命令行入口.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "filevault",
		Short: "Per-user hierarchical file storage over an object-store backend",
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose debug output")

	registerServeCommand()
	registerMigrateCommand()
	registerReconcileCommand()
	registerConfigsCommands()
	registerDBCommands()
	registerKVCommands()
	registerMQCommands()
}

// Execute 运行根命令.
func Execute() error {
	return rootCmd.Execute()
}
