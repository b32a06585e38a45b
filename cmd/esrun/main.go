package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "esrun",
	Short: "Run Elasticsearch operations defined in properties or YAML files",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		r := NewAutomationRunner(ctx)
		return r.Run()
	},
	SilenceUsage: true,
}

func init() {
	// Defaults
	v := viper.GetViper()
	v.SetDefault("environment", "")
	v.SetDefault("config_dir", "./config")
	v.SetDefault("versions_dir", "./versions")
	v.SetDefault("version", "latest")
	v.SetDefault("dry_run", false)
	v.SetDefault("report", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// Environment variables support: ESRUN_ENVIRONMENT, ESRUN_DRY_RUN, ...
	v.SetEnvPrefix("ESRUN")
	v.AutomaticEnv()

	// Bind flags via Cobra and then bind to Viper
	rootCmd.PersistentFlags().StringP("environment", "e", v.GetString("environment"), "target environment name (matches a file under <config-dir>/environments)")
	rootCmd.PersistentFlags().String("config-dir", v.GetString("config_dir"), "path to the configuration directory")
	rootCmd.PersistentFlags().String("versions-dir", v.GetString("versions_dir"), "path to the versioned .properties operation folders")
	rootCmd.PersistentFlags().String("version", v.GetString("version"), "version folder to execute, or \"latest\"")
	rootCmd.PersistentFlags().String("log-level", v.GetString("log_level"), "log level (error, warn, info, debug)")
	rootCmd.PersistentFlags().String("log-format", v.GetString("log_format"), "log format (text, json)")
	rootCmd.Flags().Bool("dry-run", v.GetBool("dry_run"), "simulate operations without contacting the cluster")
	rootCmd.Flags().String("report", v.GetString("report"), "path to write the JSON execution report")

	_ = v.BindPFlag("environment", rootCmd.PersistentFlags().Lookup("environment"))
	_ = v.BindPFlag("config_dir", rootCmd.PersistentFlags().Lookup("config-dir"))
	_ = v.BindPFlag("versions_dir", rootCmd.PersistentFlags().Lookup("versions-dir"))
	_ = v.BindPFlag("version", rootCmd.PersistentFlags().Lookup("version"))
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = v.BindPFlag("dry_run", rootCmd.Flags().Lookup("dry-run"))
	_ = v.BindPFlag("report", rootCmd.Flags().Lookup("report"))

	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		exitHandler.LogFatalError(err, "command execution failed")
	}
}
