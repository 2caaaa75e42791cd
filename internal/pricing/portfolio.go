package pricing

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const unnamedBean = "Unnamed Bean"

// BeanResult pairs a simulation result with the bean's display name.
type BeanResult struct {
	SimulationResult
	BeanName string `json:"beanName"`
	// BreakevenAtRisk is set when the batch cannot be sold out to break even.
	BreakevenAtRisk bool `json:"breakevenAtRisk"`
}

// Summary aggregates a set of results.
type Summary struct {
	TotalInvestment int64   `json:"totalInvestment"`
	TotalProfit     int64   `json:"totalProfit"`
	ReturnRatePct   float64 `json:"returnRatePct"`
}

// Simulatable reports whether a bean has enough input to be simulated.
func Simulatable(b Bean) bool {
	return b.PurchasePrice > 0 && b.PurchaseWeightKg > 0
}

// SimulatePortfolio computes metrics for every simulatable bean. Results keep
// the order of beans; beans without a result are left out. workers bounds the
// number of concurrent computations (<=0 means unbounded).
func SimulatePortfolio(ctx context.Context, beans []Bean, gs GlobalSettings, fs FeeSettings, workers int) ([]BeanResult, error) {
	slots := make([]*BeanResult, len(beans))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, bean := range beans {
		if !Simulatable(bean) {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, ok := ComputeMetrics(bean, gs, fs)
			if !ok {
				return nil
			}
			slots[i] = newBeanResult(*res, bean.Name)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]BeanResult, 0, len(beans))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, nil
}

func newBeanResult(res SimulationResult, name string) *BeanResult {
	if name == "" {
		name = unnamedBean
	}
	return &BeanResult{
		SimulationResult: res,
		BeanName:         name,
		BreakevenAtRisk:  res.BreakevenUnits > res.SellableUnits,
	}
}

// NewBeanResult wraps a single result, e.g. a blend, for tabular display.
func NewBeanResult(res SimulationResult, name string) BeanResult {
	return *newBeanResult(res, name)
}

// Summarize totals the investment of all beans and the expected profit of
// selling every bag in results.
func Summarize(beans []Bean, results []BeanResult) Summary {
	var s Summary
	for _, b := range beans {
		if b.PurchasePrice > 0 {
			s.TotalInvestment += b.PurchasePrice
		}
	}
	for _, r := range results {
		s.TotalProfit += r.ProfitPerBag * r.SellableUnits
	}
	if s.TotalInvestment > 0 {
		s.ReturnRatePct = float64(s.TotalProfit) / float64(s.TotalInvestment) * 100
	}
	return s
}
