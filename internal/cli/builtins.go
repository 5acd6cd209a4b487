package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vendorpy/pkg/config"
)

// listBuiltInCommand creates the list-built-in command.
func (c *CLI) listBuiltInCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "list-built-in",
		Short: "List all built-in packages available in Cloudflare Workers",
		Long: `List all built-in packages available in Cloudflare Workers.

Packages added or removed with extra-built-in and exclude-built-in in
[tool.vendorpy] are taken into account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.projectDir())
			if err != nil {
				return err
			}
			names := cfg.Builtins().Names()

			if plain {
				fmt.Println(strings.Join(names, "\n"))
				return nil
			}

			lines := make([]string, len(names))
			for i, n := range names {
				lines[i] = "- " + n
			}
			printPanel("Cloudflare Workers Built-in Packages", strings.Join(lines, "\n"))
			printDetail("%d packages", len(names))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print one name per line without styling")

	return cmd
}
