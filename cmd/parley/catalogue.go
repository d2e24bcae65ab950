package main

import (
	"fmt"

	parleyjson "github.com/fwojciec/parley/json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCatalogueCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogue",
		Short: "Inspect the seed catalogue",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export [file]",
		Short: "Write the resolved catalogue as JSON",
		Long: `Resolve the catalogue the same way a session would (built-in defaults,
--catalogue files and --reply-target) and write it in the v1 JSON format to
file, or to stdout when no file is given. The output can be loaded back with
--catalogue.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalogue(loadConfig(v))
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if err := parleyjson.Save(args[0], cat); err != nil {
					return fmt.Errorf("export catalogue: %w", err)
				}
				return nil
			}
			data, err := parleyjson.MarshalCatalogue(cat)
			if err != nil {
				return fmt.Errorf("export catalogue: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
			return err
		},
	})
	return cmd
}
