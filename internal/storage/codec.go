package storage

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/atelier-pos/internal/domain/inventory"
	"github.com/xenking/atelier-pos/internal/domain/ledger"
	"github.com/xenking/atelier-pos/internal/domain/pricing"
)

// The codec pins the on-disk JSON shape of the four records. It is written
// by hand on jx so a malformed blob fails with a precise error instead of
// silently zeroing fields.

// EncodeInventory serializes items in stored order.
func EncodeInventory(items []inventory.Item) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, it := range items {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(it.ID)
		e.FieldStart("category")
		e.Str(it.Category)
		e.FieldStart("name")
		e.Str(it.Name)
		e.FieldStart("cost")
		e.Int64(it.Cost)
		e.FieldStart("price")
		e.Int64(it.Price)
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.FieldStart("discounts")
		e.ArrStart()
		for _, tier := range it.Discounts {
			e.ObjStart()
			e.FieldStart("qty")
			e.Int(tier.Qty)
			e.FieldStart("price")
			e.Int64(tier.Price)
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

// DecodeInventory parses a blob written by EncodeInventory.
func DecodeInventory(blob []byte) ([]inventory.Item, error) {
	d := jx.DecodeBytes(blob)
	var items []inventory.Item
	err := d.Arr(func(d *jx.Decoder) error {
		var it inventory.Item
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				it.ID, err = d.Str()
			case "category":
				it.Category, err = d.Str()
			case "name":
				it.Name, err = d.Str()
			case "cost":
				it.Cost, err = d.Int64()
			case "price":
				it.Price, err = d.Int64()
			case "quantity":
				it.Quantity, err = d.Int()
			case "discounts":
				err = d.Arr(func(d *jx.Decoder) error {
					var tier pricing.Tier
					if err := d.Obj(func(d *jx.Decoder, key string) error {
						var err error
						switch key {
						case "qty":
							tier.Qty, err = d.Int()
						case "price":
							tier.Price, err = d.Int64()
						default:
							return d.Skip()
						}
						return err
					}); err != nil {
						return err
					}
					it.Discounts = append(it.Discounts, tier)
					return nil
				})
			default:
				return d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		items = append(items, it)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode inventory")
	}
	return items, nil
}

// EncodeCategories serializes the category name list.
func EncodeCategories(categories []string) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, c := range categories {
		e.Str(c)
	}
	e.ArrEnd()
	return e.Bytes()
}

// DecodeCategories parses a blob written by EncodeCategories.
func DecodeCategories(blob []byte) ([]string, error) {
	d := jx.DecodeBytes(blob)
	var categories []string
	err := d.Arr(func(d *jx.Decoder) error {
		c, err := d.Str()
		if err != nil {
			return err
		}
		categories = append(categories, c)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}
	return categories, nil
}

// EncodeSales serializes sale records in ledger order.
func EncodeSales(records []ledger.SaleRecord) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, r := range records {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(r.ID)
		e.FieldStart("date")
		e.Str(r.Date.UTC().Format(time.RFC3339Nano))
		e.FieldStart("total")
		e.Int64(r.Total)
		e.FieldStart("lines")
		e.ArrStart()
		for _, line := range r.Lines {
			e.ObjStart()
			e.FieldStart("itemId")
			e.Str(line.ItemID)
			e.FieldStart("name")
			e.Str(line.Name)
			e.FieldStart("unitPrice")
			e.Int64(line.UnitPrice)
			e.FieldStart("qty")
			e.Int(line.Qty)
			e.FieldStart("subtotal")
			e.Int64(line.Subtotal)
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

// DecodeSales parses a blob written by EncodeSales.
func DecodeSales(blob []byte) ([]ledger.SaleRecord, error) {
	d := jx.DecodeBytes(blob)
	var records []ledger.SaleRecord
	err := d.Arr(func(d *jx.Decoder) error {
		var r ledger.SaleRecord
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				r.ID, err = d.Str()
			case "date":
				var raw string
				if raw, err = d.Str(); err == nil {
					r.Date, err = time.Parse(time.RFC3339Nano, raw)
				}
			case "total":
				r.Total, err = d.Int64()
			case "lines":
				err = d.Arr(func(d *jx.Decoder) error {
					var line ledger.Line
					if err := d.Obj(func(d *jx.Decoder, key string) error {
						var err error
						switch key {
						case "itemId":
							line.ItemID, err = d.Str()
						case "name":
							line.Name, err = d.Str()
						case "unitPrice":
							line.UnitPrice, err = d.Int64()
						case "qty":
							line.Qty, err = d.Int()
						case "subtotal":
							line.Subtotal, err = d.Int64()
						default:
							return d.Skip()
						}
						return err
					}); err != nil {
						return err
					}
					r.Lines = append(r.Lines, line)
					return nil
				})
			default:
				return d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode sales")
	}
	return records, nil
}

// EncodeTitle serializes the app title.
func EncodeTitle(title string) []byte {
	var e jx.Encoder
	e.Str(title)
	return e.Bytes()
}

// DecodeTitle parses a blob written by EncodeTitle.
func DecodeTitle(blob []byte) (string, error) {
	d := jx.DecodeBytes(blob)
	title, err := d.Str()
	if err != nil {
		return "", errors.Wrap(err, "decode title")
	}
	return title, nil
}
