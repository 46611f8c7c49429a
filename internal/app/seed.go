package app

import (
	"github.com/xenking/atelier-pos/internal/domain/inventory"
	"github.com/xenking/atelier-pos/internal/domain/pricing"
	"github.com/xenking/atelier-pos/internal/storage"
)

// defaultState seeds a fresh install with a small demo catalog so the
// register is usable before the operator enters their own stock.
func defaultState(title string) storage.State {
	return storage.State{
		Items: []inventory.Item{
			{
				ID:       "seed-postcard",
				Category: "Paper goods",
				Name:     "Hand-drawn postcard",
				Cost:     15,
				Price:    50,
				Quantity: 120,
				Discounts: []pricing.Tier{
					{Qty: 5, Price: 200},
					{Qty: 3, Price: 130},
				},
			},
			{
				ID:       "seed-tote",
				Category: "Merch",
				Name:     "Canvas tote bag",
				Cost:     100,
				Price:    350,
				Quantity: 3,
			},
			{
				ID:       "seed-watercolor",
				Category: "Paint",
				Name:     "Pan watercolor set",
				Cost:     450,
				Price:    800,
				Quantity: 12,
			},
		},
		Categories: []string{"Paper goods", "Merch", "Paint", "Brushes", "Uncategorized"},
		Records:    nil,
		Title:      title,
	}
}
