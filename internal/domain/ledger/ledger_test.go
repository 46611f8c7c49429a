package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func seedRecords() []SaleRecord {
	return []SaleRecord{
		{
			ID: "s1", Date: testDay,
			Lines: []Line{
				{ItemID: "postcard", Name: "Postcard", UnitPrice: 50, Qty: 8, Subtotal: 330},
				{ItemID: "tote", Name: "Tote bag", UnitPrice: 350, Qty: 1, Subtotal: 350},
			},
			Total: 680,
		},
		{
			ID: "s2", Date: testDay.Add(2 * time.Hour),
			Lines: []Line{
				{ItemID: "postcard", Name: "Postcard", UnitPrice: 50, Qty: 2, Subtotal: 100},
			},
			Total: 100,
		},
		{
			ID: "s0", Date: testDay.Add(-26 * time.Hour), // previous day
			Lines: []Line{
				{ItemID: "tote", Name: "Tote bag", UnitPrice: 350, Qty: 2, Subtotal: 700},
			},
			Total: 700,
		},
	}
}

func TestHistory_NewestFirst(t *testing.T) {
	s := NewStore(seedRecords())
	ids := []string{}
	for _, r := range s.History() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"s2", "s1", "s0"}, ids)
}

func TestReplaceAndRemove(t *testing.T) {
	s := NewStore(seedRecords())

	rec, err := s.Get("s2")
	require.NoError(t, err)
	rec.Total = 130
	require.NoError(t, s.Replace(rec))
	got, err := s.Get("s2")
	require.NoError(t, err)
	assert.Equal(t, int64(130), got.Total)

	require.NoError(t, s.Remove("s2"))
	_, err = s.Get("s2")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.Remove("s2"), ErrNotFound)
	require.ErrorIs(t, s.Replace(SaleRecord{ID: "nope"}), ErrNotFound)
}

func TestSubscribe(t *testing.T) {
	s := NewStore(nil)
	fired := 0
	s.Subscribe(func() { fired++ })

	s.Append(SaleRecord{ID: "a", Date: testDay})
	rec, err := s.Get("a")
	require.NoError(t, err)
	require.NoError(t, s.Replace(rec))
	require.NoError(t, s.Remove("a"))

	assert.Equal(t, 3, fired)
}

func TestStatsFor(t *testing.T) {
	s := NewStore(seedRecords())
	stats := s.StatsFor(testDay.Add(5 * time.Hour))

	assert.Equal(t, "780", stats.Revenue.String())
	assert.Equal(t, 2, stats.Orders)
	assert.Equal(t, "390", stats.AverageOrder.String())
	require.Len(t, stats.TopItems, 2)
	assert.Equal(t, ItemStat{Name: "Postcard", Qty: 10, Revenue: 430}, stats.TopItems[0])
	assert.Equal(t, ItemStat{Name: "Tote bag", Qty: 1, Revenue: 350}, stats.TopItems[1])
}

func TestStatsFor_EmptyDay(t *testing.T) {
	s := NewStore(seedRecords())
	stats := s.StatsFor(testDay.Add(72 * time.Hour))

	assert.True(t, stats.Revenue.IsZero())
	assert.Zero(t, stats.Orders)
	assert.True(t, stats.AverageOrder.IsZero())
	assert.Empty(t, stats.TopItems)
}

func TestExportCSV(t *testing.T) {
	s := NewStore(seedRecords())

	var sb strings.Builder
	require.NoError(t, s.ExportCSV(&sb))
	out := sb.String()

	require.True(t, strings.HasPrefix(out, "\ufeff"), "must start with a BOM")
	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(out, "\ufeff"), "\n"), "\n")
	require.Len(t, lines, 5, "header plus one row per ledger line")
	assert.Equal(t, "date,record id,item name,quantity,unit price,subtotal", lines[0])
	assert.Equal(t, "2025-03-14 10:00:00,s1,Postcard,8,50,330", lines[1])
	assert.Equal(t, "2025-03-14 10:00:00,s1,Tote bag,1,350,350", lines[2])
}

func TestExportCSV_QuotesCommas(t *testing.T) {
	s := NewStore([]SaleRecord{{
		ID: "s1", Date: testDay,
		Lines: []Line{{ItemID: "x", Name: `Brush, fine tip`, UnitPrice: 80, Qty: 1, Subtotal: 80}},
		Total: 80,
	}})

	var sb strings.Builder
	require.NoError(t, s.ExportCSV(&sb))
	assert.Contains(t, sb.String(), `"Brush, fine tip"`)
}
