package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swarnpos/jewelpos-api/internal/domain"
	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
	"github.com/swarnpos/jewelpos-api/internal/domain/pricing"
	"github.com/swarnpos/jewelpos-api/internal/domain/repository"
	"github.com/swarnpos/jewelpos-api/internal/domain/tag"
	"github.com/swarnpos/jewelpos-api/pkg/logger"
)

// memStore is the in-memory backing state shared by the fake repositories.
// memTxRunner snapshots it before each transaction and restores the snapshot
// on error, mimicking rollback.
type memStore struct {
	products   map[string]*entity.Product
	parties    map[string]*entity.Party
	rates      []*entity.MetalRate
	units      []*entity.StockUnit // insertion order doubles as FIFO order
	aggs       map[string]*entity.StockAggregate
	ledger     []*entity.LedgerEntry
	orders     map[string]*entity.Order
	orderLines []*entity.OrderLine
	pos        map[string]*entity.PurchaseOrder
	finance    []*entity.FinanceRecord
	invoiceSeq map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[string]*entity.Product{},
		parties:    map[string]*entity.Party{},
		aggs:       map[string]*entity.StockAggregate{},
		orders:     map[string]*entity.Order{},
		pos:        map[string]*entity.PurchaseOrder{},
		invoiceSeq: map[string]int{},
	}
}

func aggKey(productID, sourceID string) string { return productID + "|" + sourceID }

func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range s.products {
		p := *v
		c.products[k] = &p
	}
	for k, v := range s.parties {
		p := *v
		c.parties[k] = &p
	}
	for _, r := range s.rates {
		cp := *r
		c.rates = append(c.rates, &cp)
	}
	for _, u := range s.units {
		cp := *u
		if u.ConsumedAt != nil {
			t := *u.ConsumedAt
			cp.ConsumedAt = &t
		}
		c.units = append(c.units, &cp)
	}
	for k, v := range s.aggs {
		cp := *v
		c.aggs[k] = &cp
	}
	for _, e := range s.ledger {
		cp := *e
		c.ledger = append(c.ledger, &cp)
	}
	for k, v := range s.orders {
		cp := *v
		c.orders[k] = &cp
	}
	for _, l := range s.orderLines {
		cp := *l
		cp.UnitIDs = append([]string(nil), l.UnitIDs...)
		c.orderLines = append(c.orderLines, &cp)
	}
	for k, v := range s.pos {
		cp := *v
		cp.Items = append([]entity.PurchaseOrderItem(nil), v.Items...)
		c.pos[k] = &cp
	}
	for _, f := range s.finance {
		cp := *f
		c.finance = append(c.finance, &cp)
	}
	for k, v := range s.invoiceSeq {
		c.invoiceSeq[k] = v
	}
	return c
}

func (s *memStore) restore(from *memStore) { *s = *from }

// --- fake repositories -----------------------------------------------------

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) { return r.s.products[id], nil }
func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

type memPartyRepo struct{ s *memStore }

func (r *memPartyRepo) GetByID(id string) (*entity.Party, error) { return r.s.parties[id], nil }

type memRateRepo struct{ s *memStore }

func (r *memRateRepo) GetLatest(metalType, purity string) (*entity.MetalRate, error) {
	var best *entity.MetalRate
	for _, rate := range r.s.rates {
		if rate.MetalType != metalType || rate.Purity != purity {
			continue
		}
		if best == nil || rate.EffectiveAt.After(best.EffectiveAt) {
			best = rate
		}
	}
	return best, nil
}
func (r *memRateRepo) Create(rate *entity.MetalRate) error {
	r.s.rates = append(r.s.rates, rate)
	return nil
}
func (r *memRateRepo) ListCurrent() ([]*entity.MetalRate, error) {
	latest := map[string]*entity.MetalRate{}
	for _, rate := range r.s.rates {
		key := rate.MetalType + "|" + rate.Purity
		if cur, ok := latest[key]; !ok || rate.EffectiveAt.After(cur.EffectiveAt) {
			latest[key] = rate
		}
	}
	out := make([]*entity.MetalRate, 0, len(latest))
	for _, rate := range latest {
		out = append(out, rate)
	}
	return out, nil
}

type memUnitRepo struct{ s *memStore }

func (r *memUnitRepo) Create(unit *entity.StockUnit) error {
	for _, u := range r.s.units {
		if u.TagNumber == unit.TagNumber || u.Barcode == unit.Barcode {
			return domain.ErrDuplicate
		}
	}
	cp := *unit
	r.s.units = append(r.s.units, &cp)
	return nil
}
func (r *memUnitRepo) GetByID(id string) (*entity.StockUnit, error) {
	for _, u := range r.s.units {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (r *memUnitRepo) GetByTag(tagNumber string) (*entity.StockUnit, error) {
	for _, u := range r.s.units {
		if u.TagNumber == tagNumber {
			return u, nil
		}
	}
	return nil, nil
}
func (r *memUnitRepo) AllocateOldest(productID string, qty int) ([]*entity.StockUnit, error) {
	var out []*entity.StockUnit
	for _, u := range r.s.units {
		if u.ProductID == productID && u.Status == entity.UnitAvailable {
			out = append(out, u)
			if len(out) == qty {
				break
			}
		}
	}
	return out, nil
}
func (r *memUnitRepo) GetByOrderID(orderID string) ([]*entity.StockUnit, error) {
	var out []*entity.StockUnit
	for _, u := range r.s.units {
		if u.OrderID == orderID {
			out = append(out, u)
		}
	}
	return out, nil
}
func (r *memUnitRepo) UpdateStatus(unit *entity.StockUnit) error {
	for i, u := range r.s.units {
		if u.ID == unit.ID {
			cp := *unit
			r.s.units[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}
func (r *memUnitRepo) CountByStatus(productID, sourceID string) (map[string]int, error) {
	counts := map[string]int{}
	for _, u := range r.s.units {
		if u.ProductID == productID && u.SourceID == sourceID {
			counts[u.Status]++
		}
	}
	return counts, nil
}
func (r *memUnitRepo) Sources() ([]repository.SourceKey, error) {
	seen := map[repository.SourceKey]bool{}
	var out []repository.SourceKey
	for _, u := range r.s.units {
		key := repository.SourceKey{ProductID: u.ProductID, SourceID: u.SourceID}
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out, nil
}
func (r *memUnitRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockUnit, error) {
	var out []*entity.StockUnit
	for _, u := range r.s.units {
		if u.ProductID == productID {
			out = append(out, u)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memAggRepo struct{ s *memStore }

func (r *memAggRepo) Get(productID, sourceID string) (*entity.StockAggregate, error) {
	return r.s.aggs[aggKey(productID, sourceID)], nil
}
func (r *memAggRepo) GetForUpdate(productID, sourceID string) (*entity.StockAggregate, error) {
	return r.s.aggs[aggKey(productID, sourceID)], nil
}
func (r *memAggRepo) Upsert(agg *entity.StockAggregate) error {
	cp := *agg
	r.s.aggs[aggKey(agg.ProductID, agg.SourceID)] = &cp
	return nil
}
func (r *memAggRepo) ListByProduct(productID string) ([]*entity.StockAggregate, error) {
	var out []*entity.StockAggregate
	for _, a := range r.s.aggs {
		if a.ProductID == productID {
			out = append(out, a)
		}
	}
	return out, nil
}
func (r *memAggRepo) ListAll() ([]*entity.StockAggregate, error) {
	var out []*entity.StockAggregate
	for _, a := range r.s.aggs {
		out = append(out, a)
	}
	return out, nil
}

type memLedgerRepo struct{ s *memStore }

func (r *memLedgerRepo) Append(entry *entity.LedgerEntry) error {
	cp := *entry
	r.s.ledger = append(r.s.ledger, &cp)
	return nil
}
func (r *memLedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.s.ledger {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}
func (r *memLedgerRepo) ListByReference(referenceID string) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range r.s.ledger {
		if e.ReferenceID == referenceID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) Create(order *entity.Order) error {
	cp := *order
	r.s.orders[order.ID] = &cp
	return nil
}
func (r *memOrderRepo) CreateLine(line *entity.OrderLine) error {
	cp := *line
	r.s.orderLines = append(r.s.orderLines, &cp)
	return nil
}
func (r *memOrderRepo) GetByID(id string) (*entity.Order, error) { return r.s.orders[id], nil }
func (r *memOrderRepo) GetLines(orderID string) ([]*entity.OrderLine, error) {
	var out []*entity.OrderLine
	for _, l := range r.s.orderLines {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out, nil
}
func (r *memOrderRepo) UpdateStatus(orderID, status string) error {
	o, ok := r.s.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}
func (r *memOrderRepo) NextInvoiceSequence(day time.Time) (int, error) {
	key := day.Format("20060102")
	r.s.invoiceSeq[key]++
	return r.s.invoiceSeq[key], nil
}

type memPORepo struct{ s *memStore }

func (r *memPORepo) Create(po *entity.PurchaseOrder) error {
	cp := *po
	cp.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
	r.s.pos[po.ID] = &cp
	return nil
}
func (r *memPORepo) GetByID(id string) (*entity.PurchaseOrder, error) { return r.s.pos[id], nil }
func (r *memPORepo) GetItemForUpdate(poID, productID string) (*entity.PurchaseOrderItem, error) {
	po, ok := r.s.pos[poID]
	if !ok {
		return nil, nil
	}
	for i := range po.Items {
		if po.Items[i].ProductID == productID {
			cp := po.Items[i]
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *memPORepo) UpdateItem(item *entity.PurchaseOrderItem) error {
	po, ok := r.s.pos[item.POID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range po.Items {
		if po.Items[i].ID == item.ID {
			po.Items[i] = *item
			return nil
		}
	}
	return domain.ErrNotFound
}
func (r *memPORepo) UpdateStatus(poID, status string) error {
	po, ok := r.s.pos[poID]
	if !ok {
		return domain.ErrNotFound
	}
	po.Status = status
	return nil
}

type memFinanceRepo struct{ s *memStore }

func (r *memFinanceRepo) Create(record *entity.FinanceRecord) error {
	cp := *record
	r.s.finance = append(r.s.finance, &cp)
	return nil
}
func (r *memFinanceRepo) ListByReference(referenceID string) ([]*entity.FinanceRecord, error) {
	var out []*entity.FinanceRecord
	for _, f := range r.s.finance {
		if f.ReferenceID == referenceID {
			out = append(out, f)
		}
	}
	return out, nil
}

// --- transaction runner ----------------------------------------------------

type memTxRunner struct{ s *memStore }

func (tr *memTxRunner) Run(ctx context.Context, fn func(r TxRepos) error) error {
	before := tr.s.snapshot()
	err := fn(TxRepos{
		Units:      &memUnitRepo{s: tr.s},
		Aggregates: &memAggRepo{s: tr.s},
		Ledger:     &memLedgerRepo{s: tr.s},
		Orders:     &memOrderRepo{s: tr.s},
		Purchases:  &memPORepo{s: tr.s},
		Finance:    &memFinanceRepo{s: tr.s},
		Rates:      &memRateRepo{s: tr.s},
	})
	if err != nil {
		tr.s.restore(before)
	}
	return err
}

// --- notification sink -----------------------------------------------------

type memSink struct {
	notifications []Notification
	err           error
}

func (s *memSink) Notify(ctx context.Context, n Notification) error {
	if s.err != nil {
		return s.err
	}
	s.notifications = append(s.notifications, n)
	return nil
}

// --- fixture ---------------------------------------------------------------

// fixture bundles the store, the fakes and every use case wired against them.
type fixture struct {
	store  *memStore
	tx     *memTxRunner
	sink   *memSink
	tagGen *tag.Generator

	sale       *SaleUseCase
	purchase   *PurchaseUseCase
	exchange   *ExchangeUseCase
	adjustment *AdjustmentUseCase
}

func newFixture() *fixture {
	store := newMemStore()
	tx := &memTxRunner{s: store}
	sink := &memSink{}
	gen := tag.NewGeneratorWithSeed(42)
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	taxRates := pricing.DefaultTaxRates()

	products := &memProductRepo{s: store}
	parties := &memPartyRepo{s: store}
	orders := &memOrderRepo{s: store}
	pos := &memPORepo{s: store}
	units := &memUnitRepo{s: store}

	return &fixture{
		store:      store,
		tx:         tx,
		sink:       sink,
		tagGen:     gen,
		sale:       NewSaleUseCase(tx, products, parties, orders, taxRates, sink, log),
		purchase:   NewPurchaseUseCase(tx, products, parties, pos, gen),
		exchange:   NewExchangeUseCase(tx, products, parties, units, taxRates, sink, log),
		adjustment: NewAdjustmentUseCase(tx, products, gen),
	}
}

func (f *fixture) addParty(id, kind, name string) {
	f.store.parties[id] = &entity.Party{ID: id, Kind: kind, DisplayName: name}
}

func (f *fixture) addProduct(id string, code int, metal, purity string, weight, stone, wastage, making string) {
	f.store.products[id] = &entity.Product{
		ID:          id,
		Code:        code,
		SKU:         fmt.Sprintf("SKU-%04d", code),
		Name:        "Product " + id,
		MetalType:   metal,
		Purity:      purity,
		WeightGrams: dec(weight),
		StoneValue:  dec(stone),
		WastagePct:  dec(wastage),
		MakingPct:   dec(making),
		CreatedAt:   time.Now(),
	}
}

func (f *fixture) addRate(metal, purity, perGram string) {
	f.store.rates = append(f.store.rates, &entity.MetalRate{
		ID:          uuid.New().String(),
		MetalType:   metal,
		Purity:      purity,
		RatePerGram: dec(perGram),
		EffectiveAt: time.Now(),
		CreatedAt:   time.Now(),
	})
}

// seedStock registers qty AVAILABLE units and the matching counter row under
// the given source, bypassing the purchase flow.
func (f *fixture) seedStock(productID, sourceID string, qty int, unitCost string) {
	product := f.store.products[productID]
	now := time.Now()
	for i := 0; i < qty; i++ {
		f.store.units = append(f.store.units, &entity.StockUnit{
			ID:        uuid.New().String(),
			ProductID: productID,
			SourceID:  sourceID,
			TagNumber: f.tagGen.NextUnitTag(product.MetalType, now),
			Barcode:   f.tagGen.NextBarcode(product.Code, now),
			Cost:      dec(unitCost),
			Status:    entity.UnitAvailable,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	f.store.aggs[aggKey(productID, sourceID)] = &entity.StockAggregate{
		ProductID: productID,
		SourceID:  sourceID,
		Available: qty,
		UnitCost:  dec(unitCost),
		UpdatedAt: now,
	}
}

func (f *fixture) agg(productID, sourceID string) *entity.StockAggregate {
	return f.store.aggs[aggKey(productID, sourceID)]
}

func (f *fixture) unitsByStatus(productID, status string) []*entity.StockUnit {
	var out []*entity.StockUnit
	for _, u := range f.store.units {
		if u.ProductID == productID && u.Status == status {
			out = append(out, u)
		}
	}
	return out
}

func (f *fixture) ledgerByType(productID, movementType string) []*entity.LedgerEntry {
	var out []*entity.LedgerEntry
	for _, e := range f.store.ledger {
		if e.ProductID == productID && e.MovementType == movementType {
			out = append(out, e)
		}
	}
	return out
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
