package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtotal_NoTiers(t *testing.T) {
	for _, qty := range []int{1, 2, 7, 120} {
		assert.Equal(t, int64(qty)*50, Subtotal(50, nil, qty))
	}
}

func TestSubtotal_ZeroQuantity(t *testing.T) {
	tiers := []Tier{{Qty: 3, Price: 130}}
	assert.Zero(t, Subtotal(50, tiers, 0))
	assert.Zero(t, Subtotal(50, tiers, -1))
	assert.Zero(t, Subtotal(50, nil, 0))
}

func TestSubtotal_GreedyLargestTierFirst(t *testing.T) {
	// $50 unit price, 5 for $200, 3 for $130. Buying 8 takes one bundle of
	// five ($200) and the remaining 3 match the smaller tier ($130).
	tiers := []Tier{{Qty: 5, Price: 200}, {Qty: 3, Price: 130}}

	tests := []struct {
		qty  int
		want int64
	}{
		{1, 50},
		{2, 100},
		{3, 130},
		{4, 180},  // 130 + 50
		{5, 200},
		{6, 250},  // 200 + 50
		{8, 330},  // 200 + 130
		{10, 400}, // two bundles of five
		{13, 530}, // 2x200 + 130
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Subtotal(50, tiers, tt.qty), "qty=%d", tt.qty)
	}
}

func TestSubtotal_TierOrderInputIrrelevant(t *testing.T) {
	a := []Tier{{Qty: 5, Price: 200}, {Qty: 3, Price: 130}}
	b := []Tier{{Qty: 3, Price: 130}, {Qty: 5, Price: 200}}
	for qty := 0; qty <= 20; qty++ {
		assert.Equal(t, Subtotal(50, a, qty), Subtotal(50, b, qty), "qty=%d", qty)
	}
}

func TestSubtotal_DuplicateThresholdFirstListedWins(t *testing.T) {
	// Duplicate thresholds are legal; the first listed tier at a given
	// threshold absorbs the bundles.
	tiers := []Tier{{Qty: 3, Price: 120}, {Qty: 3, Price: 100}}
	assert.Equal(t, int64(120), Subtotal(50, tiers, 3))
	assert.Equal(t, int64(240), Subtotal(50, tiers, 6))

	flipped := []Tier{{Qty: 3, Price: 100}, {Qty: 3, Price: 120}}
	assert.Equal(t, int64(100), Subtotal(50, flipped, 3))
}

func TestSubtotal_MonotonicInQuantity(t *testing.T) {
	tiers := []Tier{{Qty: 5, Price: 200}, {Qty: 3, Price: 130}, {Qty: 2, Price: 95}}
	prev := int64(0)
	for qty := 1; qty <= 100; qty++ {
		got := Subtotal(50, tiers, qty)
		assert.GreaterOrEqual(t, got, prev, "qty=%d", qty)
		prev = got
	}
}

func TestSubtotal_IgnoresNonPositiveThresholds(t *testing.T) {
	tiers := []Tier{{Qty: 0, Price: 9999}, {Qty: -2, Price: 9999}}
	assert.Equal(t, int64(150), Subtotal(50, tiers, 3))
}

func TestSubtotal_GreedyIsNotOptimal(t *testing.T) {
	// Documented behaviour: the big tier wins even when stacking the small
	// one would be cheaper. 6 units = one 5-bundle (400) + 1 unit (100),
	// not two 3-bundles (150 each).
	tiers := []Tier{{Qty: 5, Price: 400}, {Qty: 3, Price: 150}}
	assert.Equal(t, int64(500), Subtotal(100, tiers, 6))
}
