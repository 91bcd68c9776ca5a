// internal/core/services/inventory.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ammerola/voucher-ledger/internal/core/activity"
	"github.com/ammerola/voucher-ledger/internal/core/domain"
	"github.com/ammerola/voucher-ledger/internal/core/ledger"
	"github.com/ammerola/voucher-ledger/internal/core/ports"
)

// InventoryService is the ledger session. It owns the in-memory ledger and
// activity log, serializes every operation, and writes the touched
// collections to the store after each mutation.
type InventoryService struct {
	mu     sync.Mutex
	store  ports.Store
	ledger *ledger.Ledger
	log    *activity.Log
	logger *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// Option configures the service.
type Option func(*InventoryService)

// WithClock sets the time source used for activity entries.
func WithClock(now func() time.Time) Option {
	return func(s *InventoryService) {
		s.log = activity.New(activity.WithClock(now))
	}
}

// NewInventoryService creates a new inventory service. The ledger starts with
// the default providers until Load is called.
func NewInventoryService(store ports.Store, logger *slog.Logger, opts ...Option) *InventoryService {
	s := &InventoryService{
		store:  store,
		ledger: ledger.FromSnapshot(domain.Snapshot{Providers: domain.DefaultProviders()}),
		log:    activity.New(),
		logger: logger.With(slog.String("service", "inventory")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the session state with what the store holds. Missing or
// undecodable collections fall back to their defaults; backend failures are
// returned.
func (s *InventoryService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	providers, err := loadCollection(ctx, s, ports.KeyProviders, domain.DefaultProviders())
	if err != nil {
		return err
	}
	vouchers, err := loadCollection(ctx, s, ports.KeyVouchers, []domain.Voucher{})
	if err != nil {
		return err
	}
	entries, err := loadCollection(ctx, s, ports.KeyActivity, []domain.ActivityEntry{})
	if err != nil {
		return err
	}

	s.ledger.Restore(domain.Snapshot{Providers: providers, Vouchers: vouchers})
	s.log.Restore(entries)

	s.logger.InfoContext(ctx, "ledger loaded",
		slog.Int("providers", len(providers)),
		slog.Int("vouchers", len(vouchers)),
		slog.Int("activity_entries", len(entries)))

	return nil
}

// loadCollection decodes one persisted collection, returning fallback when
// nothing usable is stored.
func loadCollection[T any](ctx context.Context, s *InventoryService, key string, fallback T) (T, error) {
	var decoded T
	found, err := s.store.Load(ctx, key, &decoded)
	switch {
	case errors.Is(err, ports.ErrCorrupt):
		s.logger.WarnContext(ctx, "persisted collection is corrupt, using defaults",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fallback, nil
	case err != nil:
		return fallback, fmt.Errorf("failed to load %s: %w", key, err)
	case !found:
		s.logger.DebugContext(ctx, "nothing persisted, using defaults", slog.String("key", key))
		return fallback, nil
	}
	return decoded, nil
}

// Persist writes every collection to the store.
func (s *InventoryService) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, key := range ports.StoreKeys() {
		if err := s.store.Save(ctx, key, s.collection(key)); err != nil {
			errs = append(errs, fmt.Errorf("failed to save %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// persist saves the given collections after a mutation. Failures are logged
// and the in-memory state is kept. The caller holds s.mu.
func (s *InventoryService) persist(ctx context.Context, keys ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := s.store.Save(ctx, key, s.collection(key)); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist ledger state",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
	}
}

func (s *InventoryService) collection(key string) any {
	switch key {
	case ports.KeyProviders:
		return s.ledger.Providers()
	case ports.KeyVouchers:
		return s.ledger.Vouchers()
	case ports.KeyActivity:
		return s.log.Entries()
	}
	return nil
}

// Providers returns every provider ordered by id.
func (s *InventoryService) Providers(ctx context.Context) []domain.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Providers()
}

// Vouchers returns every voucher in insertion order.
func (s *InventoryService) Vouchers(ctx context.Context) []domain.Voucher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Vouchers()
}

// VouchersByProvider lists the vouchers of one provider.
func (s *InventoryService) VouchersByProvider(ctx context.Context, providerID int) ([]domain.Voucher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ledger.FindProvider(providerID); !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrProviderNotFound, providerID)
	}
	return s.ledger.ListByProvider(providerID), nil
}

// Voucher looks a single voucher up.
func (s *InventoryService) Voucher(ctx context.Context, key domain.VoucherKey) (domain.Voucher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.ledger.FindVoucher(key)
	if !ok {
		return domain.Voucher{}, fmt.Errorf("%w: %s", domain.ErrVoucherNotFound, key)
	}
	return v, nil
}

// Activity returns the audit log, newest first.
func (s *InventoryService) Activity(ctx context.Context) []domain.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Entries()
}

// Snapshot copies providers and vouchers for reporting.
func (s *InventoryService) Snapshot(ctx context.Context) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot()
}

// AddProvider creates a provider with the next free id. Providers have no
// activity kind, so nothing is logged to the audit trail.
func (s *InventoryService) AddProvider(ctx context.Context, name, logoURL string) (domain.Provider, domain.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := domain.Provider{
		ID:      s.ledger.NextProviderID(),
		Name:    strings.TrimSpace(name),
		LogoURL: strings.TrimSpace(logoURL),
	}

	out := s.ledger.AddProvider(p)
	switch out.Status {
	case domain.StatusSkipped:
		return domain.Provider{}, out, fmt.Errorf("%w: %s", domain.ErrProviderExists, out.Reason)
	case domain.StatusRejected:
		return domain.Provider{}, out, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, out.Reason)
	}

	s.persist(ctx, ports.KeyProviders)

	s.logger.InfoContext(ctx, "provider added",
		slog.Int("provider_id", p.ID),
		slog.String("name", p.Name))

	return p, out, nil
}

// DeleteProvider removes a provider together with all of its vouchers and
// records a single audit entry for the cascade.
func (s *InventoryService) DeleteProvider(ctx context.Context, id int) (domain.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, cascaded, out := s.ledger.DeleteProvider(id)
	if !out.IsApplied() {
		return out, fmt.Errorf("%w: %d", domain.ErrProviderNotFound, id)
	}

	s.log.Append(domain.ActivityDeleteProvider, deleteProviderMessage(removed.Name))
	s.persist(ctx, ports.KeyProviders, ports.KeyVouchers, ports.KeyActivity)

	s.logger.InfoContext(ctx, "provider deleted",
		slog.Int("provider_id", id),
		slog.Int("vouchers_removed", cascaded))

	return out, nil
}

// SaveVoucher creates or overwrites a voucher from a form submission. The
// sell price is derived from the cost when the cost changed, or when a new
// voucher arrives without a sell price. Otherwise the submitted sell price
// is kept as a manual override.
func (s *InventoryService) SaveVoucher(ctx context.Context, form domain.Voucher) (domain.Voucher, domain.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	form = form.Normalized()
	if err := form.Validate(); err != nil {
		return domain.Voucher{}, domain.Rejected(err.Error()), err
	}
	if _, ok := s.ledger.FindProvider(form.ProviderID); !ok {
		return domain.Voucher{}, domain.Skipped("provider not found"),
			fmt.Errorf("%w: %d", domain.ErrProviderNotFound, form.ProviderID)
	}

	existing, exists := s.ledger.FindVoucher(form.Key())
	switch {
	case exists && existing.CostPrice != form.CostPrice:
		form.SellPrice = domain.DeriveSellPrice(form.CostPrice)
	case !exists && form.SellPrice == 0:
		form.SellPrice = domain.DeriveSellPrice(form.CostPrice)
	}

	stored, out := s.ledger.UpsertVoucher(form)
	s.log.Append(domain.ActivityEdit, editMessage(stored.Name, exists))
	s.persist(ctx, ports.KeyVouchers, ports.KeyActivity)

	s.logger.InfoContext(ctx, "voucher saved",
		slog.String("voucher", stored.Key().String()),
		slog.String("result", out.Reason))

	return stored, out, nil
}

// DeleteVoucher removes one voucher.
func (s *InventoryService) DeleteVoucher(ctx context.Context, key domain.VoucherKey) (domain.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, out := s.ledger.DeleteVoucher(key)
	if !out.IsApplied() {
		return out, fmt.Errorf("%w: %s", domain.ErrVoucherNotFound, key)
	}

	s.log.Append(domain.ActivityDeleteVoucher, deleteVoucherMessage(removed.Name))
	s.persist(ctx, ports.KeyVouchers, ports.KeyActivity)

	s.logger.InfoContext(ctx, "voucher deleted", slog.String("voucher", key.String()))

	return out, nil
}
