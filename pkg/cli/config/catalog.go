package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
	domainConfig "github.com/ward-lab/themis/pkg/domain/model/config"
)

// Catalog holds the CLI flag for the constraint catalog file
type Catalog struct {
	path string
}

// Flags returns CLI flags for catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Path to the constraint catalog TOML file",
			Sources:     cli.EnvVars("THEMIS_CATALOG"),
			Destination: &c.path,
		},
	}
}

// Path returns the configured catalog path
func (c *Catalog) Path() string {
	return c.path
}

// Configure loads and validates the catalog. An unset path yields an
// empty catalog: constraints are then free-form strings.
func (c *Catalog) Configure() (*domainConfig.Catalog, error) {
	if c.path == "" {
		return &domainConfig.Catalog{}, nil
	}
	return LoadCatalog(c.path)
}

// LoadCatalog reads and validates a constraint catalog TOML file
func LoadCatalog(path string) (*domainConfig.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", path))
	}

	var catalog domainConfig.Catalog
	if err := toml.Unmarshal(raw, &catalog); err != nil {
		return nil, goerr.Wrap(err, "failed to parse catalog file", goerr.V("path", path))
	}

	if err := catalog.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid catalog", goerr.V("path", path))
	}

	return &catalog, nil
}
