package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/ward-lab/themis/pkg/cli/config"
)

func cmdValidate() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a constraint catalog TOML file",
		ArgsUsage: "<catalog.toml>",
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return goerr.New("catalog file path is required")
			}

			catalog, err := config.LoadCatalog(path)
			if err != nil {
				color.Red("✗ %s", err.Error())
				return err
			}

			color.Green("✓ %s is valid", path)
			fmt.Printf("  %d constraint(s)\n", len(catalog.Constraints))
			for _, constraint := range catalog.Constraints {
				fmt.Printf("  - %s: %s\n", constraint.ID, constraint.Name)
			}
			return nil
		},
	}
}
