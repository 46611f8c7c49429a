// Package sales is the transaction reconciler: it moves value between the
// cart, the inventory store, and the sales ledger, and keeps the three
// consistent across checkout, edits, and reversals. Every operation is
// all-or-nothing: a failed validation leaves no partial mutation behind.
package sales

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/atelier-pos/internal/domain/cart"
	"github.com/xenking/atelier-pos/internal/domain/inventory"
	"github.com/xenking/atelier-pos/internal/domain/ledger"
	"github.com/xenking/atelier-pos/internal/domain/operator"
	"github.com/xenking/atelier-pos/internal/domain/pricing"
)

// ErrInsufficientStock is returned when a transaction edit would need more
// stock than restoring the original sale makes available.
var ErrInsufficientStock = errors.New("insufficient stock for edit")

// Service reconciles cart, inventory, and ledger. Its mutex serializes every
// reconciling operation: the two-phase restore-then-deduct check is not safe
// under interleaved execution, so a multi-client frontend must funnel all
// calls through one Service.
type Service struct {
	mu      sync.Mutex
	inv     *inventory.Store
	ledger  *ledger.Store
	confirm operator.Confirmer
	notify  operator.Notifier

	now   func() time.Time
	newID func() string
}

// NewService creates a reconciler over the given stores. Nil operator ports
// default to auto-confirm and silent notification.
func NewService(inv *inventory.Store, led *ledger.Store, confirm operator.Confirmer, notify operator.Notifier) *Service {
	if confirm == nil {
		confirm = operator.AutoConfirm
	}
	if notify == nil {
		notify = operator.NotifierFunc(func(context.Context, string) {})
	}
	return &Service{
		inv:     inv,
		ledger:  led,
		confirm: confirm,
		notify:  notify,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Commit turns the cart into a sale: it confirms the total with the
// operator, deducts every line from inventory, appends a ledger record with
// frozen line snapshots, and clears the cart. If any line's on-hand
// quantity is insufficient at commit time, nothing is mutated.
func (s *Service) Commit(ctx context.Context, c *cart.Cart) (ledger.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := c.Lines()
	if len(lines) == 0 {
		return ledger.SaleRecord{}, cart.ErrEmpty
	}

	total := c.Total()
	if !s.confirm.Confirm(ctx, fmt.Sprintf("Total is $%d. Commit sale?", total)) {
		return ledger.SaleRecord{}, operator.ErrDeclined
	}

	// Validate and freeze before touching anything.
	frozen := make([]ledger.Line, 0, len(lines))
	deltas := make(map[string]int, len(lines))
	for _, line := range lines {
		item, err := s.inv.Get(line.ItemID)
		if err != nil {
			return ledger.SaleRecord{}, errors.Wrapf(err, "cart line %s", line.ItemID)
		}
		if item.Quantity < line.Qty {
			return ledger.SaleRecord{}, errors.Wrapf(cart.ErrQuantityExceeded, "item %q", item.Name)
		}
		deltas[item.ID] -= line.Qty
		frozen = append(frozen, ledger.Line{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Qty:       line.Qty,
			Subtotal:  pricing.Subtotal(item.Price, item.Discounts, line.Qty),
		})
	}

	rec := ledger.SaleRecord{
		ID:    s.newID(),
		Date:  s.now(),
		Lines: frozen,
		Total: ledger.SumLines(frozen),
	}

	// Deducting as deltas under the store lock keeps stock mutations that
	// landed after the reads above intact.
	s.inv.ApplyDeltas(deltas)
	s.ledger.Append(rec)
	c.Clear()

	s.notify.Notify(ctx, fmt.Sprintf("Sale committed: $%d", rec.Total))
	return rec, nil
}

// Draft is an in-memory working copy of a ledger record under edit. Nothing
// touches inventory or the ledger until SaveDraft.
type Draft struct {
	recordID string
	lines    []ledger.Line
	svc      *Service
}

// OpenDraft starts editing the given sale record on a deep copy of its lines.
func (s *Service) OpenDraft(recordID string) (*Draft, error) {
	rec, err := s.ledger.Get(recordID)
	if err != nil {
		return nil, err
	}
	return &Draft{recordID: rec.ID, lines: rec.Lines, svc: s}, nil
}

// RecordID returns the id of the record under edit.
func (d *Draft) RecordID() string { return d.recordID }

// Lines returns the working copy's current lines.
func (d *Draft) Lines() []ledger.Line {
	out := make([]ledger.Line, len(d.lines))
	copy(out, d.lines)
	return out
}

// Adjust shifts a line's quantity by delta, flooring at zero. A line that
// reaches zero is dropped from the working copy.
func (d *Draft) Adjust(itemID string, delta int) {
	kept := d.lines[:0]
	for _, line := range d.lines {
		if line.ItemID == itemID {
			line.Qty = max(0, line.Qty+delta)
		}
		if line.Qty > 0 {
			kept = append(kept, line)
		}
	}
	d.lines = kept
}

// Total prices the working copy against the live catalog, so current
// discount tiers apply. Lines whose item no longer exists fall back to
// their frozen unit price.
func (d *Draft) Total() int64 {
	var total int64
	for _, line := range d.lines {
		total += d.svc.liveSubtotal(line)
	}
	return total
}

func (s *Service) liveSubtotal(line ledger.Line) int64 {
	item, err := s.inv.Get(line.ItemID)
	if err != nil {
		return int64(line.Qty) * line.UnitPrice
	}
	return pricing.Subtotal(item.Price, item.Discounts, line.Qty)
}

// SaveDraft commits an edited sale with a two-phase stock check: phase one
// computes a hypothetical inventory with every original line restored, phase
// two verifies every edited line can be deducted from it. Only when all
// lines pass is the restore-then-deduct applied for real, alongside the
// rewritten ledger record with recomputed frozen subtotals. On failure the
// original record and inventory are left untouched.
func (s *Service) SaveDraft(ctx context.Context, d *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, err := s.ledger.Get(d.recordID)
	if err != nil {
		return err
	}

	hypothetical := make(map[string]int)
	deltas := make(map[string]int)
	stock := func(id string) (int, bool) {
		if qty, ok := hypothetical[id]; ok {
			return qty, true
		}
		item, err := s.inv.Get(id)
		if err != nil {
			return 0, false
		}
		hypothetical[id] = item.Quantity
		return item.Quantity, true
	}

	// Phase 1: restore every original line. Items deleted since the sale
	// are skipped; their stock is gone with them.
	for _, line := range original.Lines {
		if qty, ok := stock(line.ItemID); ok {
			hypothetical[line.ItemID] = qty + line.Qty
			deltas[line.ItemID] += line.Qty
		}
	}

	// Phase 2: deduct every edited line from the hypothetical state.
	for _, line := range d.lines {
		qty, ok := stock(line.ItemID)
		if !ok {
			continue
		}
		if qty < line.Qty {
			return errors.Wrapf(ErrInsufficientStock, "item %q", line.Name)
		}
		hypothetical[line.ItemID] = qty - line.Qty
		deltas[line.ItemID] -= line.Qty
	}

	// Apply the validated restore-then-deduct as net deltas so concurrent
	// stock mutations are shifted, not overwritten.
	s.inv.ApplyDeltas(deltas)

	frozen := make([]ledger.Line, len(d.lines))
	for i, line := range d.lines {
		line.Subtotal = s.liveSubtotal(line)
		frozen[i] = line
	}
	original.Lines = frozen
	original.Total = ledger.SumLines(frozen)
	if err := s.ledger.Replace(original); err != nil {
		return err
	}

	s.notify.Notify(ctx, "Sale updated; stock and revenue adjusted.")
	return nil
}

// Delete reverses a sale: after operator confirmation it restores every
// line's quantity onto inventory and removes the record from the ledger.
// Restoring only adds stock, so no capacity check is needed.
func (s *Service) Delete(ctx context.Context, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.ledger.Get(recordID)
	if err != nil {
		return err
	}
	if !s.confirm.Confirm(ctx, "Delete this sale? Stock will be restored.") {
		return operator.ErrDeclined
	}

	// Items deleted since the sale are skipped by ApplyDeltas; their
	// stock is gone with them.
	restored := make(map[string]int, len(rec.Lines))
	for _, line := range rec.Lines {
		restored[line.ItemID] += line.Qty
	}
	s.inv.ApplyDeltas(restored)

	if err := s.ledger.Remove(recordID); err != nil {
		return err
	}

	s.notify.Notify(ctx, "Sale deleted; stock restored.")
	return nil
}
