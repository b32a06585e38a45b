package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loykin/esrun/internal/constants"
	"github.com/loykin/esrun/internal/operation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate operation files without contacting the cluster",
	Long: `Validate operation definition files for syntax and structure. This checks:
- file syntax (YAML or key=value properties)
- the operation tag against the supported kinds
- required fields per operation kind
- index name, settings, mappings and template body rules`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()

		// No environment or cluster needed; only the operation files.
		var sources []operation.Source
		var err error
		opsDir := filepath.Join(v.GetString("config_dir"), constants.OperationsSubdir)
		if info, serr := os.Stat(opsDir); serr == nil && info.IsDir() {
			sources, err = operation.LoadYAMLDir(opsDir)
		} else {
			sources, err = operation.LoadPropertiesDir(v.GetString("versions_dir"), v.GetString("version"))
		}
		if err != nil {
			return err
		}

		invalid := 0
		for _, src := range sources {
			switch {
			case src.Err != nil:
				invalid++
				fmt.Printf("✗ %s: %v\n", src.Name, src.Err)
			default:
				if verr := src.Op.Validate(); verr != nil {
					invalid++
					fmt.Printf("✗ %s: %v\n", src.Name, verr)
				} else {
					fmt.Printf("✓ %s (%s)\n", src.Name, src.Op.Kind)
				}
			}
		}

		fmt.Printf("\n%d file(s) checked, %d invalid\n", len(sources), invalid)
		if invalid > 0 {
			return fmt.Errorf("%d invalid operation file(s)", invalid)
		}
		return nil
	},
}
