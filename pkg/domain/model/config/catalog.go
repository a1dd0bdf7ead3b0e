package config

import (
	"github.com/m-mizutani/goerr/v2"
)

// Constraint is one selectable constraint option a reviewer can attach
// to an approval, e.g. price, volume, risk.
type Constraint struct {
	ID          string `toml:"id" json:"id"`
	Name        string `toml:"name" json:"name"`
	Description string `toml:"description" json:"description,omitempty"`
}

// Validate checks if the Constraint is valid
func (c *Constraint) Validate() error {
	if c.ID == "" {
		return goerr.New("constraint ID is required")
	}
	if c.Name == "" {
		return goerr.New("constraint name is required", goerr.V("id", c.ID))
	}
	return nil
}

// Catalog is the set of constraint options offered in the review panel
type Catalog struct {
	Constraints []Constraint `toml:"constraint" json:"constraints"`
}

// Validate checks the whole catalog, including duplicate IDs
func (c *Catalog) Validate() error {
	seen := make(map[string]bool)
	for i, constraint := range c.Constraints {
		if err := constraint.Validate(); err != nil {
			return goerr.Wrap(err, "invalid constraint", goerr.V("index", i))
		}
		if seen[constraint.ID] {
			return goerr.New("duplicate constraint ID", goerr.V("id", constraint.ID))
		}
		seen[constraint.ID] = true
	}
	return nil
}

// Has reports whether the catalog contains the constraint ID
func (c *Catalog) Has(id string) bool {
	for _, constraint := range c.Constraints {
		if constraint.ID == id {
			return true
		}
	}
	return false
}
