package storage

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/atelier-pos/internal/domain/inventory"
	"github.com/xenking/atelier-pos/internal/domain/ledger"
	"github.com/xenking/atelier-pos/internal/domain/settings"
)

// State is everything the engine persists.
type State struct {
	Items      []inventory.Item
	Categories []string
	Records    []ledger.SaleRecord
	Title      string
}

// LoadState reads all four records through the driver, falling back to the
// given defaults for any key that has never been written.
func LoadState(ctx context.Context, drv Driver, defaults State) (State, error) {
	state := defaults

	if blob, ok, err := drv.Load(ctx, KeyInventory); err != nil {
		return State{}, errors.Wrap(err, "load inventory")
	} else if ok {
		if state.Items, err = DecodeInventory(blob); err != nil {
			return State{}, err
		}
	}

	if blob, ok, err := drv.Load(ctx, KeyCategories); err != nil {
		return State{}, errors.Wrap(err, "load categories")
	} else if ok {
		if state.Categories, err = DecodeCategories(blob); err != nil {
			return State{}, err
		}
	}

	if blob, ok, err := drv.Load(ctx, KeySales); err != nil {
		return State{}, errors.Wrap(err, "load sales")
	} else if ok {
		if state.Records, err = DecodeSales(blob); err != nil {
			return State{}, err
		}
	}

	if blob, ok, err := drv.Load(ctx, KeyTitle); err != nil {
		return State{}, errors.Wrap(err, "load title")
	} else if ok {
		if state.Title, err = DecodeTitle(blob); err != nil {
			return State{}, err
		}
	}

	return state, nil
}

// Persister subscribes to the stores and writes the touched record back
// through the driver after every mutation. Save failures are logged, never
// propagated: persistence problems must not undo an in-memory mutation the
// operator already saw succeed.
type Persister struct {
	drv Driver
	lg  *zap.Logger
}

// NewPersister creates a Persister writing through drv.
func NewPersister(drv Driver, lg *zap.Logger) *Persister {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Persister{drv: drv, lg: lg}
}

// Bind subscribes the persister to all three stores.
func (p *Persister) Bind(inv *inventory.Store, led *ledger.Store, set *settings.Store) {
	inv.Subscribe(func(c inventory.Change) {
		switch c {
		case inventory.ChangedItems:
			p.save(KeyInventory, EncodeInventory(inv.Items()))
		case inventory.ChangedCategories:
			p.save(KeyCategories, EncodeCategories(inv.Categories()))
		}
	})
	led.Subscribe(func() {
		p.save(KeySales, EncodeSales(led.Records()))
	})
	set.Subscribe(func() {
		p.save(KeyTitle, EncodeTitle(set.Title()))
	})
}

// Flush writes every record unconditionally. Used once at startup so a
// freshly seeded state reaches the medium before the first mutation.
func (p *Persister) Flush(inv *inventory.Store, led *ledger.Store, set *settings.Store) {
	p.save(KeyInventory, EncodeInventory(inv.Items()))
	p.save(KeyCategories, EncodeCategories(inv.Categories()))
	p.save(KeySales, EncodeSales(led.Records()))
	p.save(KeyTitle, EncodeTitle(set.Title()))
}

func (p *Persister) save(key string, blob []byte) {
	if err := p.drv.Save(context.Background(), key, blob); err != nil {
		p.lg.Error("persist failed", zap.String("key", key), zap.Error(err))
	}
}
