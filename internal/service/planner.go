package service

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/rogerio-castellano/grocery-inventory/internal/config"
	"github.com/rogerio-castellano/grocery-inventory/internal/engine"
	"github.com/rogerio-castellano/grocery-inventory/internal/models"
	"github.com/rogerio-castellano/grocery-inventory/internal/repo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PlanningDefaults are the inputs used when a product or supplier does
// not carry its own.
type PlanningDefaults struct {
	LeadTimeDays     int
	MaxLeadTimeDays  int
	OrderCost        float64
	HoldingRate      float64
	HorizonDays      int
	LookbackDays     int
	MaxHorizonDays   int
	MaxLookbackDays  int
	TrendThreshold   float64
	HighConfidenceCV float64
	MediumCV         float64
	SeasonalityMin   float64
	CacheTTL         time.Duration
}

func DefaultsFromConfig(p config.PlanningConfig, c config.CacheConfig) PlanningDefaults {
	d := PlanningDefaults{
		LeadTimeDays:     p.LeadTimeDays,
		MaxLeadTimeDays:  p.MaxLeadTimeDays,
		OrderCost:        p.OrderCost,
		HoldingRate:      p.HoldingRate,
		HorizonDays:      p.HorizonDays,
		LookbackDays:     p.LookbackDays,
		MaxHorizonDays:   p.MaxHorizonDays,
		MaxLookbackDays:  p.MaxLookbackDays,
		TrendThreshold:   p.TrendThreshold,
		HighConfidenceCV: p.HighConfidenceCV,
		MediumCV:         p.MediumCV,
		SeasonalityMin:   p.SeasonalityMin,
	}
	if c.Enabled {
		d.CacheTTL = c.TTL
	}
	return d
}

// Planner produces forecasts, reorder recommendations and reports.
type Planner struct {
	deps     Deps
	defaults PlanningDefaults
}

func NewPlanner(d Deps, defaults PlanningDefaults) *Planner {
	if defaults.HorizonDays <= 0 {
		defaults.HorizonDays = engine.DefaultHorizonDays
	}
	if defaults.LookbackDays <= 0 {
		defaults.LookbackDays = engine.DefaultLookbackDays
	}
	if defaults.MaxHorizonDays <= 0 {
		defaults.MaxHorizonDays = 365
	}
	if defaults.MaxLookbackDays <= 0 {
		defaults.MaxLookbackDays = 730
	}
	return &Planner{deps: d.withDefaults(), defaults: defaults}
}

type ForecastRequest struct {
	Method       engine.ForecastMethod
	HorizonDays  int
	LookbackDays int
}

type ProductForecast struct {
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	AsOf        string `json:"as_of"`
	engine.DemandForecast
}

// Forecast projects demand for one product. Zero horizon or lookback use
// the configured defaults.
func (p *Planner) Forecast(ctx context.Context, productID int, req ForecastRequest) (ProductForecast, error) {
	if req.Method == "" {
		req.Method = engine.MethodMovingAverage
	}
	if req.HorizonDays == 0 {
		req.HorizonDays = p.defaults.HorizonDays
	}
	if req.LookbackDays == 0 {
		req.LookbackDays = p.defaults.LookbackDays
	}
	if req.HorizonDays < 1 || req.HorizonDays > p.defaults.MaxHorizonDays {
		return ProductForecast{}, invalid("horizon must be between 1 and %d days", p.defaults.MaxHorizonDays)
	}
	if req.LookbackDays < 1 || req.LookbackDays > p.defaults.MaxLookbackDays {
		return ProductForecast{}, invalid("lookback must be between 1 and %d days", p.defaults.MaxLookbackDays)
	}

	product, err := p.deps.Products.GetByID(ctx, productID)
	if err != nil {
		return ProductForecast{}, err
	}

	today := p.deps.today()
	key := fmt.Sprintf("%s%s:%d:%d:%s", forecastPrefix(productID), req.Method, req.HorizonDays, req.LookbackDays, dateKey(today))
	var out ProductForecast
	if p.deps.cached(ctx, key, &out) {
		return out, nil
	}

	history, err := p.deps.Movements.ConsumptionHistory(ctx, productID, today.AddDate(0, 0, -req.LookbackDays), today)
	if err != nil {
		return ProductForecast{}, err
	}
	f, err := engine.Forecast(history, p.forecastOptions(req, today))
	if err != nil {
		return ProductForecast{}, err
	}

	out = ProductForecast{
		ProductID:      product.ID,
		ProductName:    product.Name,
		AsOf:           dateKey(today),
		DemandForecast: f,
	}
	p.deps.store(ctx, key, out, p.defaults.CacheTTL)
	return out, nil
}

func (p *Planner) forecastOptions(req ForecastRequest, today time.Time) engine.ForecastOptions {
	return engine.ForecastOptions{
		Method:           req.Method,
		HorizonDays:      req.HorizonDays,
		LookbackDays:     req.LookbackDays,
		Today:            today,
		TrendThreshold:   p.defaults.TrendThreshold,
		HighConfidenceCV: p.defaults.HighConfidenceCV,
		MediumCV:         p.defaults.MediumCV,
		SeasonalityMin:   p.defaults.SeasonalityMin,
	}
}

// Recommendations returns one recommendation per product, most urgent
// first. With onlyNeeded, products whose stock is adequate are dropped.
func (p *Planner) Recommendations(ctx context.Context, onlyNeeded bool) ([]engine.ReorderRecommendation, error) {
	all, err := p.allRecommendations(ctx)
	if err != nil {
		return nil, err
	}
	if !onlyNeeded {
		return all, nil
	}
	needed := []engine.ReorderRecommendation{}
	for _, r := range all {
		if r.NeedsReorder {
			needed = append(needed, r)
		}
	}
	return needed, nil
}

func (p *Planner) Recommendation(ctx context.Context, productID int) (engine.ReorderRecommendation, error) {
	if _, err := p.deps.Products.GetByID(ctx, productID); err != nil {
		return engine.ReorderRecommendation{}, err
	}
	all, err := p.allRecommendations(ctx)
	if err != nil {
		return engine.ReorderRecommendation{}, err
	}
	if r, ok := findRecommendation(all, productID); ok {
		return r, nil
	}

	// The cached list predates the product; recompute and replace it.
	today := p.deps.today()
	if all, err = p.computeRecommendations(ctx, today); err != nil {
		return engine.ReorderRecommendation{}, err
	}
	p.deps.store(ctx, reorderKeyPrefix+dateKey(today), all, p.defaults.CacheTTL)
	if r, ok := findRecommendation(all, productID); ok {
		return r, nil
	}
	return engine.ReorderRecommendation{}, fmt.Errorf("product %d: %w", productID, repo.ErrProductNotFound)
}

func findRecommendation(all []engine.ReorderRecommendation, productID int) (engine.ReorderRecommendation, bool) {
	for _, r := range all {
		if r.ProductID == productID {
			return r, true
		}
	}
	return engine.ReorderRecommendation{}, false
}

func (p *Planner) allRecommendations(ctx context.Context) ([]engine.ReorderRecommendation, error) {
	today := p.deps.today()
	key := reorderKeyPrefix + dateKey(today)
	var out []engine.ReorderRecommendation
	if p.deps.cached(ctx, key, &out) {
		return out, nil
	}

	out, err := p.computeRecommendations(ctx, today)
	if err != nil {
		return nil, err
	}
	p.deps.store(ctx, key, out, p.defaults.CacheTTL)
	return out, nil
}

func (p *Planner) computeRecommendations(ctx context.Context, today time.Time) ([]engine.ReorderRecommendation, error) {
	inputs, err := p.gather(ctx, today)
	if err != nil {
		return nil, err
	}

	out := make([]engine.ReorderRecommendation, 0, len(inputs.products))
	for _, product := range inputs.products {
		lead, maxLead := p.leadTimes(product, inputs.suppliers)
		avg, peak := engine.UsageStats(inputs.consumption[product.ID], today, p.defaults.LookbackDays)
		rec := engine.Recommend(engine.ReorderInput{
			ProductID:              product.ID,
			CurrentStock:           inputs.stock[product.ID],
			ConfiguredReorderPoint: product.ReorderPoint,
			MaxStock:               product.MaxStock,
			ItemsPerCase:           product.ItemsPerCase,
			UnitCost:               product.UnitCost().InexactFloat64(),
			AvgDailyUsage:          avg,
			MaxDailyUsage:          peak,
			LeadTimeDays:           float64(lead),
			MaxLeadTimeDays:        float64(maxLead),
			OrderCost:              p.defaults.OrderCost,
			HoldingRate:            p.defaults.HoldingRate,
		})
		rec.ProductName = product.Name
		out = append(out, rec)
	}

	slices.SortStableFunc(out, compareRecommendations)
	p.deps.Logger.Debug("reorder recommendations computed", zap.Int("products", len(out)))
	return out, nil
}

// compareRecommendations orders by urgency, then by how soon stock runs
// out. Products without usage never run out and sort last within a tier.
func compareRecommendations(a, b engine.ReorderRecommendation) int {
	if c := cmp.Compare(a.Urgency.Rank(), b.Urgency.Rank()); c != 0 {
		return c
	}
	if c := cmp.Compare(stockoutKey(a), stockoutKey(b)); c != 0 {
		return c
	}
	return cmp.Compare(a.ProductID, b.ProductID)
}

func stockoutKey(r engine.ReorderRecommendation) float64 {
	if r.AverageDailyUsage <= 0 && r.CurrentStock > 0 {
		return math.Inf(1)
	}
	return r.DaysUntilStockout
}

func (p *Planner) leadTimes(product models.Product, suppliers map[int]models.Supplier) (lead, maxLead int) {
	lead, maxLead = p.defaults.LeadTimeDays, p.defaults.MaxLeadTimeDays
	if product.SupplierID != nil {
		if s, ok := suppliers[*product.SupplierID]; ok {
			if s.LeadTimeDays > 0 {
				lead = s.LeadTimeDays
			}
			if s.MaxLeadTimeDays > 0 {
				maxLead = s.MaxLeadTimeDays
			}
		}
	}
	return lead, max(lead, maxLead)
}

type planningInputs struct {
	products    []models.Product
	suppliers   map[int]models.Supplier
	stock       map[int]int
	consumption map[int][]models.ConsumptionRecord
}

func (p *Planner) gather(ctx context.Context, today time.Time) (planningInputs, error) {
	var in planningInputs
	var err error

	if in.products, err = p.deps.Products.GetAll(ctx); err != nil {
		return in, err
	}
	if in.stock, err = p.deps.Batches.StockByProduct(ctx); err != nil {
		return in, err
	}
	since := today.AddDate(0, 0, -p.defaults.LookbackDays)
	if in.consumption, err = p.deps.Movements.ConsumptionByProduct(ctx, since, today); err != nil {
		return in, err
	}

	suppliers, err := p.deps.Catalog.GetSuppliers(ctx)
	if err != nil {
		return in, err
	}
	in.suppliers = make(map[int]models.Supplier, len(suppliers))
	for _, s := range suppliers {
		in.suppliers[s.ID] = s
	}
	return in, nil
}

const (
	ReportABC       = "abc"
	ReportValuation = "valuation"
	ReportTurnover  = "turnover"
)

type ABCReport struct {
	AsOf       string             `json:"as_of"`
	TotalValue decimal.Decimal    `json:"total_value"`
	Items      []engine.ABCResult `json:"items"`
}

type ValuationLine struct {
	ProductID     int             `json:"product_id"`
	Name          string          `json:"name"`
	Units         int             `json:"units"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Value         decimal.Decimal `json:"value"`
	ConsumedUnits int             `json:"consumed_units"`
	DaysOnHand    float64         `json:"days_on_hand"`
	Turns         float64         `json:"turns"`
}

type ValuationReport struct {
	AsOf         string          `json:"as_of"`
	LookbackDays int             `json:"lookback_days"`
	TotalValue   decimal.Decimal `json:"total_value"`
	Lines        []ValuationLine `json:"lines"`
}

// Report builds the named report. Turnover reporting is recognised but
// not implemented and returns engine.ErrNotImplemented.
func (p *Planner) Report(ctx context.Context, kind string) (any, error) {
	switch kind {
	case ReportABC:
		return p.abcReport(ctx)
	case ReportValuation:
		return p.valuationReport(ctx)
	case ReportTurnover:
		return nil, fmt.Errorf("%s report: %w", kind, engine.ErrNotImplemented)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, kind)
	}
}

func (p *Planner) abcReport(ctx context.Context) (ABCReport, error) {
	today := p.deps.today()
	key := reportKeyPrefix + ReportABC + ":" + dateKey(today)
	var out ABCReport
	if p.deps.cached(ctx, key, &out) {
		return out, nil
	}

	products, err := p.deps.Products.GetAll(ctx)
	if err != nil {
		return ABCReport{}, err
	}
	stock, err := p.deps.Batches.StockByProduct(ctx)
	if err != nil {
		return ABCReport{}, err
	}

	items := make([]engine.ABCItem, 0, len(products))
	total := decimal.Zero
	for _, product := range products {
		value := product.UnitCost().Mul(decimal.NewFromInt(int64(stock[product.ID]))).Round(2)
		total = total.Add(value)
		items = append(items, engine.ABCItem{ProductID: product.ID, Name: product.Name, Value: value})
	}

	out = ABCReport{AsOf: dateKey(today), TotalValue: total, Items: engine.ClassifyItems(items)}
	p.deps.store(ctx, key, out, p.defaults.CacheTTL)
	return out, nil
}

func (p *Planner) valuationReport(ctx context.Context) (ValuationReport, error) {
	today := p.deps.today()
	key := reportKeyPrefix + ReportValuation + ":" + dateKey(today)
	var out ValuationReport
	if p.deps.cached(ctx, key, &out) {
		return out, nil
	}

	inputs, err := p.gather(ctx, today)
	if err != nil {
		return ValuationReport{}, err
	}

	out = ValuationReport{AsOf: dateKey(today), LookbackDays: p.defaults.LookbackDays, TotalValue: decimal.Zero, Lines: []ValuationLine{}}
	for _, product := range inputs.products {
		units := inputs.stock[product.ID]
		unitCost := product.UnitCost()
		value := unitCost.Mul(decimal.NewFromInt(int64(units))).Round(2)

		consumed := 0
		for _, rec := range inputs.consumption[product.ID] {
			consumed += rec.Quantity
		}
		consumedValue := unitCost.Mul(decimal.NewFromInt(int64(consumed)))

		out.Lines = append(out.Lines, ValuationLine{
			ProductID:     product.ID,
			Name:          product.Name,
			Units:         units,
			UnitCost:      unitCost.Round(4),
			Value:         value,
			ConsumedUnits: consumed,
			DaysOnHand:    round1(engine.DaysInventoryOutstanding(float64(units), float64(consumed), float64(p.defaults.LookbackDays))),
			Turns:         round1(engine.InventoryTurnover(consumedValue.InexactFloat64(), value.InexactFloat64())),
		})
		out.TotalValue = out.TotalValue.Add(value)
	}

	p.deps.store(ctx, key, out, p.defaults.CacheTTL)
	return out, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
