// Package profile manages stored mapping profiles
package profile

import (
	"errors"
	"fmt"

	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the profile command group
var Cmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage mapping profiles",
	Long: `Mapping profiles map external column names onto ledger fields (date,
amount, description, memo, account, category, subcategory, payoree,
check_number) and carry parsing options such as date_format, decimal_comma
and invert_sign.`,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import profiles from a JSON or YAML document",
	Long: `Import one profile or a list of profiles from a JSON or YAML document.
Profiles are validated first; an existing profile with the same name is
replaced. Without a file argument profiles.file from the configuration is
used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		path := c.GetConfig().Profiles.File
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return errors.New("no profile file given and profiles.file is not set")
		}

		profiles, err := c.GetFileStore().LoadProfiles(path)
		if err != nil {
			return err
		}
		if err := c.GetImporter().ImportProfiles(cmd.Context(), profiles); err != nil {
			return err
		}
		root.GetLogger().Info("Imported mapping profiles",
			logging.Field{Key: logging.FieldFile, Value: path},
			logging.Field{Key: logging.FieldCount, Value: len(profiles)})
		return c.GetReporter().Profiles(cmd.OutOrStdout(), profiles)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		profiles, err := c.GetImporter().ListProfiles(cmd.Context())
		if err != nil {
			return err
		}
		return c.GetReporter().Profiles(cmd.OutOrStdout(), profiles)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored profile",
	Long:  `Delete a stored profile. Batches that referenced it keep their rows and lose the reference.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		if err := c.GetImporter().DeleteProfile(cmd.Context(), args[0]); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %s\n", args[0])
		return err
	},
}

func init() {
	Cmd.AddCommand(importCmd, listCmd, deleteCmd)
}
