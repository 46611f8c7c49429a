// Package pricing computes line subtotals with tiered bundle discounts.
package pricing

import "sort"

// Tier is a bundle-pricing rule: Qty units of an item sell together for
// Price, instead of Qty times the unit price.
type Tier struct {
	Qty   int   `json:"qty"`
	Price int64 `json:"price"`
}

// Subtotal returns the cost of buying qty units at the given unit price
// under the given discount tiers.
//
// Tiers are applied greedily from the largest quantity threshold down:
// each tier consumes as many whole bundles as fit into the remaining
// quantity, and leftover units fall through to the next smaller tier and
// finally to the unit price. The greedy walk never backtracks, so a
// smaller tier that is cheaper per unit is only ever applied to leftovers,
// not to units already bundled into a larger tier. That matches how the
// store has always quoted bundles and is kept as-is.
//
// When two tiers share a threshold the one listed first wins; the sort
// below is stable for exactly that reason.
func Subtotal(unitPrice int64, tiers []Tier, qty int) int64 {
	if qty <= 0 {
		return 0
	}

	remaining := qty
	var total int64

	if len(tiers) > 0 {
		rules := make([]Tier, len(tiers))
		copy(rules, tiers)
		sort.SliceStable(rules, func(i, j int) bool {
			return rules[i].Qty > rules[j].Qty
		})

		for _, rule := range rules {
			if rule.Qty <= 0 || remaining < rule.Qty {
				continue
			}
			bundles := remaining / rule.Qty
			total += int64(bundles) * rule.Price
			remaining %= rule.Qty
		}
	}

	total += int64(remaining) * unitPrice
	return total
}
