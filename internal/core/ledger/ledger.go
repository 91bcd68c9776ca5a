// internal/core/ledger/ledger.go
package ledger

import (
	"cmp"
	"fmt"
	"slices"
	"sort"

	"github.com/ammerola/voucher-ledger/internal/core/domain"
)

// Ledger holds providers and vouchers in memory. Providers are kept sorted by
// id; vouchers keep insertion order. Every read returns copies.
//
// Ledger is not safe for concurrent use; the owning session serializes access.
type Ledger struct {
	providers []domain.Provider
	vouchers  []domain.Voucher
	index     map[domain.VoucherKey]int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{index: make(map[domain.VoucherKey]int)}
}

// FromSnapshot builds a ledger from persisted collections. Duplicate voucher
// keys collapse onto the last occurrence and providers are re-sorted.
func FromSnapshot(s domain.Snapshot) *Ledger {
	l := New()
	l.Restore(s)
	return l
}

// Restore replaces the whole state.
func (l *Ledger) Restore(s domain.Snapshot) {
	l.providers = make([]domain.Provider, 0, len(s.Providers))
	seen := make(map[int]bool, len(s.Providers))
	for _, p := range s.Providers {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		l.providers = append(l.providers, p)
	}
	sort.SliceStable(l.providers, func(i, j int) bool { return l.providers[i].ID < l.providers[j].ID })

	l.vouchers = nil
	l.index = make(map[domain.VoucherKey]int, len(s.Vouchers))
	for _, v := range s.Vouchers {
		l.UpsertVoucher(v)
	}
}

// Snapshot copies the current state.
func (l *Ledger) Snapshot() domain.Snapshot {
	return domain.Snapshot{Providers: l.Providers(), Vouchers: l.Vouchers()}
}

// Providers returns all providers ordered by id.
func (l *Ledger) Providers() []domain.Provider {
	return slices.Clone(l.providers)
}

// Vouchers returns all vouchers in insertion order.
func (l *Ledger) Vouchers() []domain.Voucher {
	return slices.Clone(l.vouchers)
}

// FindProvider looks a provider up by id.
func (l *Ledger) FindProvider(id int) (domain.Provider, bool) {
	i, ok := l.providerIndex(id)
	if !ok {
		return domain.Provider{}, false
	}
	return l.providers[i], true
}

// NextProviderID is one above the largest id in use, or 1 when empty.
func (l *Ledger) NextProviderID() int {
	if len(l.providers) == 0 {
		return 1
	}
	return l.providers[len(l.providers)-1].ID + 1
}

// AddProvider inserts p keeping id order. An existing id is left untouched.
func (l *Ledger) AddProvider(p domain.Provider) domain.Outcome {
	if err := p.Validate(); err != nil {
		return domain.Rejected(err.Error())
	}

	i, exists := l.providerIndex(p.ID)
	if exists {
		return domain.Skipped(fmt.Sprintf("provider %d already exists", p.ID))
	}
	l.providers = slices.Insert(l.providers, i, p)
	return domain.Applied("created")
}

// DeleteProvider removes the provider and every voucher referencing it.
// It returns the removed provider and the number of vouchers removed with it.
func (l *Ledger) DeleteProvider(id int) (domain.Provider, int, domain.Outcome) {
	i, ok := l.providerIndex(id)
	if !ok {
		return domain.Provider{}, 0, domain.Skipped(fmt.Sprintf("provider %d not found", id))
	}
	removed := l.providers[i]

	kept := make([]domain.Voucher, 0, len(l.vouchers))
	for _, v := range l.vouchers {
		if v.ProviderID != id {
			kept = append(kept, v)
		}
	}
	cascaded := len(l.vouchers) - len(kept)

	l.providers = slices.Delete(l.providers, i, i+1)
	l.vouchers = kept
	l.reindex()

	return removed, cascaded, domain.Applied(fmt.Sprintf("removed with %d vouchers", cascaded))
}

// UpsertVoucher overwrites the voucher with the same key or appends a new
// one. The stored (normalized) voucher is returned.
func (l *Ledger) UpsertVoucher(v domain.Voucher) (domain.Voucher, domain.Outcome) {
	v = v.Normalized()
	key := v.Key()
	if i, ok := l.index[key]; ok {
		l.vouchers[i] = v
		return v, domain.Applied("updated")
	}
	l.index[key] = len(l.vouchers)
	l.vouchers = append(l.vouchers, v)
	return v, domain.Applied("created")
}

// UpdateVoucher replaces an existing voucher in place. Unknown keys are skipped.
func (l *Ledger) UpdateVoucher(v domain.Voucher) domain.Outcome {
	v = v.Normalized()
	i, ok := l.index[v.Key()]
	if !ok {
		return domain.Skipped(fmt.Sprintf("voucher %s not found", v.Key()))
	}
	l.vouchers[i] = v
	return domain.Applied("updated")
}

// DeleteVoucher removes the voucher with key and returns it.
func (l *Ledger) DeleteVoucher(key domain.VoucherKey) (domain.Voucher, domain.Outcome) {
	i, ok := l.index[key]
	if !ok {
		return domain.Voucher{}, domain.Skipped(fmt.Sprintf("voucher %s not found", key))
	}
	removed := l.vouchers[i]
	l.vouchers = slices.Delete(l.vouchers, i, i+1)
	l.reindex()
	return removed, domain.Applied("deleted")
}

// FindVoucher looks a voucher up by key.
func (l *Ledger) FindVoucher(key domain.VoucherKey) (domain.Voucher, bool) {
	i, ok := l.index[key]
	if !ok {
		return domain.Voucher{}, false
	}
	return l.vouchers[i], true
}

// ListByProvider returns the provider's vouchers in insertion order.
func (l *Ledger) ListByProvider(providerID int) []domain.Voucher {
	var out []domain.Voucher
	for _, v := range l.vouchers {
		if v.ProviderID == providerID {
			out = append(out, v)
		}
	}
	return out
}

func (l *Ledger) providerIndex(id int) (int, bool) {
	return slices.BinarySearchFunc(l.providers, id, func(p domain.Provider, target int) int {
		return cmp.Compare(p.ID, target)
	})
}

func (l *Ledger) reindex() {
	clear(l.index)
	for i, v := range l.vouchers {
		l.index[v.Key()] = i
	}
}
