package commands

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/bloghub/cmd/blogctl/output"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "テーブルを作成・更新する",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	// Open 時にも実行される
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	output.New(cmd.OutOrStdout()).OK("Migrated %s database", store.Dialect())
	return nil
}
