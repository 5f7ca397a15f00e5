package repositories

import (
	"delivery-tracker/internal/domain"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Load delivery records from a JSON array file for seeding.
// Timestamps in the file are ignored; seeding stamps records on insert.
func LoadSeedFile(jsonPath string) ([]domain.Delivery, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load seeds: read %q: %w", jsonPath, err)
	}

	var data []domain.Delivery
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load seeds: parse json: %w", err)
	}

	rows := make([]domain.Delivery, 0, len(data))
	for i, item := range data {
		if strings.TrimSpace(item.PackageID) == "" {
			return nil, fmt.Errorf("load seeds: item at index %d: packageId cannot be empty", i+1)
		}
		item.Timestamp = ""
		item.LastUpdated = ""
		rows = append(rows, item)
	}

	return rows, nil
}
