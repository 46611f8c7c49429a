package ledger

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ItemStat aggregates sales of one item name across records.
type ItemStat struct {
	Name    string `json:"name"`
	Qty     int    `json:"qty"`
	Revenue int64  `json:"revenue"`
}

// DayStats summarizes one calendar day of trading.
type DayStats struct {
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
	// AverageOrder is Revenue/Orders rounded to 2 places; zero when no orders.
	AverageOrder decimal.Decimal `json:"averageOrder"`
	// TopItems lists items sold that day, most units first.
	TopItems []ItemStat `json:"topItems"`
}

// StatsFor aggregates the records whose date falls on the same calendar day
// as now, in now's location.
func (s *Store) StatsFor(now time.Time) DayStats {
	year, month, day := now.Date()

	var revenue int64
	orders := 0
	byName := make(map[string]*ItemStat)

	for _, r := range s.Records() {
		ry, rm, rd := r.Date.In(now.Location()).Date()
		if ry != year || rm != month || rd != day {
			continue
		}
		revenue += r.Total
		orders++
		for _, line := range r.Lines {
			stat, ok := byName[line.Name]
			if !ok {
				stat = &ItemStat{Name: line.Name}
				byName[line.Name] = stat
			}
			stat.Qty += line.Qty
			subtotal := line.Subtotal
			if subtotal == 0 && line.Qty > 0 {
				// Records imported from very old backups may predate frozen
				// subtotals; fall back to qty times unit price.
				subtotal = int64(line.Qty) * line.UnitPrice
			}
			stat.Revenue += subtotal
		}
	}

	top := make([]ItemStat, 0, len(byName))
	for _, stat := range byName {
		top = append(top, *stat)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Qty != top[j].Qty {
			return top[i].Qty > top[j].Qty
		}
		return top[i].Name < top[j].Name
	})

	stats := DayStats{
		Revenue:      decimal.NewFromInt(revenue),
		Orders:       orders,
		AverageOrder: decimal.Zero,
		TopItems:     top,
	}
	if orders > 0 {
		stats.AverageOrder = decimal.NewFromInt(revenue).
			Div(decimal.NewFromInt(int64(orders))).Round(2)
	}
	return stats
}

// utf8BOM keeps spreadsheet tools from misdetecting the CSV's encoding.
const utf8BOM = "\ufeff"

var csvHeader = []string{"date", "record id", "item name", "quantity", "unit price", "subtotal"}

// ExportCSV writes the whole ledger as a BOM-prefixed UTF-8 CSV, one row per
// sale line across all records in ledger order.
func (s *Store) ExportCSV(w io.Writer) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return errors.Wrap(err, "write BOM")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, r := range s.Records() {
		for _, line := range r.Lines {
			row := []string{
				r.Date.Format("2006-01-02 15:04:05"),
				r.ID,
				line.Name,
				strconv.Itoa(line.Qty),
				strconv.FormatInt(line.UnitPrice, 10),
				strconv.FormatInt(line.Subtotal, 10),
			}
			if err := cw.Write(row); err != nil {
				return errors.Wrap(err, "write row")
			}
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}
