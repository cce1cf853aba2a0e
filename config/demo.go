package config

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"homefront/server/internal/models"
)

//go:embed demo_data.json
var demoData []byte

// DemoDataset is the fixed data served when the live provider is missing or failing.
type DemoDataset struct {
	Areas          []models.LocationCandidate `json:"areas"`
	Listings       []models.PropertyDetail    `json:"listings"`
	SearchListings []models.PropertyRecord    `json:"search_listings"`
	MortgageRates  []models.MortgageRate      `json:"mortgage_rates"`
}

// LoadDemoData parses the embedded demo dataset.
func LoadDemoData() (*DemoDataset, error) {
	return ParseDemoData(demoData)
}

// ParseDemoData parses a dataset in the demo_data.json format.
func ParseDemoData(data []byte) (*DemoDataset, error) {
	var dataset DemoDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("failed to parse demo data: %v", err)
	}

	if len(dataset.Areas) == 0 {
		return nil, fmt.Errorf("demo data has no areas")
	}
	if len(dataset.SearchListings) == 0 {
		return nil, fmt.Errorf("demo data has no search listings")
	}
	if len(dataset.MortgageRates) == 0 {
		return nil, fmt.Errorf("demo data has no mortgage rates")
	}

	ids := make(map[string]bool, len(dataset.Listings))
	for _, listing := range dataset.Listings {
		if listing.ID == "" {
			return nil, fmt.Errorf("demo listing without id: %s", listing.Address)
		}
		if ids[listing.ID] {
			return nil, fmt.Errorf("duplicate demo listing id: %s", listing.ID)
		}
		ids[listing.ID] = true
	}

	return &dataset, nil
}
