package inventory

import "github.com/xenking/atelier-pos/internal/domain/pricing"

// Item is a stocked product. Cost is the acquisition cost kept for margin
// reference only; it never enters pricing math.
type Item struct {
	ID        string         `json:"id"`
	Category  string         `json:"category"`
	Name      string         `json:"name"`
	Cost      int64          `json:"cost"`
	Price     int64          `json:"price"`
	Quantity  int            `json:"quantity"`
	Discounts []pricing.Tier `json:"discounts"`
}

// ItemPatch carries the editable fields of an item. Quantity is deliberately
// absent: stock moves only through the quantity primitives and the
// transaction flows.
type ItemPatch struct {
	Category  string
	Name      string
	Cost      int64
	Price     int64
	Discounts []pricing.Tier
}

func (p ItemPatch) validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if p.Category == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if p.Cost < 0 {
		return &ValidationError{Field: "cost", Reason: "must not be negative"}
	}
	if p.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	for _, tier := range p.Discounts {
		if tier.Qty < 2 {
			return &ValidationError{Field: "discounts", Reason: "tier quantity must be at least 2"}
		}
		if tier.Price <= 0 {
			return &ValidationError{Field: "discounts", Reason: "tier price must be positive"}
		}
	}
	return nil
}

func cloneTiers(tiers []pricing.Tier) []pricing.Tier {
	if tiers == nil {
		return nil
	}
	out := make([]pricing.Tier, len(tiers))
	copy(out, tiers)
	return out
}

func cloneItem(it Item) Item {
	it.Discounts = cloneTiers(it.Discounts)
	return it
}
