package httpsynctest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Item is a purchasable market item
type Item struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Price int64  `yaml:"price"`
	Stock int    `yaml:"stock"`
}

// Catalog seeds the backend's market and accounts
type Catalog struct {
	Items           []Item `yaml:"items"`
	StartingBalance int64  `yaml:"starting_balance"`
}

// DefaultCatalog is used when New is given no catalog
const DefaultCatalog = `
starting_balance: 100
items:
  - id: 1
    name: Iron Sword
    price: 50
    stock: 10
  - id: 2
    name: Healing Potion
    price: 10
    stock: 100
  - id: 3
    name: Dragon Scale
    price: 500
    stock: 1
`

// ParseCatalog decodes a YAML catalog
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for _, item := range c.Items {
		if item.ID <= 0 {
			return Catalog{}, fmt.Errorf("catalog item %q has invalid id %d", item.Name, item.ID)
		}
	}
	return c, nil
}
