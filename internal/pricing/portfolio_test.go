package pricing

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestSimulatePortfolio_KeepsInputOrder(t *testing.T) {
	beans := make([]Bean, 0, 20)
	for i := 0; i < 20; i++ {
		b := NewBean(i + 1)
		b.PurchasePrice = int64(10000 + i*1000)
		b.PurchaseWeightKg = float64(1 + i%4)
		beans = append(beans, b)
	}
	// Not simulatable and too small to yield a bag.
	beans[3].PurchasePrice = 0
	beans[7].PurchaseWeightKg = 0.05

	results, err := SimulatePortfolio(context.Background(), beans, DefaultGlobalSettings(), DefaultFeeSettings(), 3)
	if err != nil {
		t.Fatalf("SimulatePortfolio: %v", err)
	}
	if len(results) != 18 {
		t.Fatalf("expected 18 results, got %d", len(results))
	}

	j := 0
	for i, b := range beans {
		if i == 3 || i == 7 {
			continue
		}
		if results[j].BeanID != b.ID {
			t.Fatalf("result %d = %s, want %s", j, results[j].BeanID, b.ID)
		}
		want, _ := ComputeMetrics(b, DefaultGlobalSettings(), DefaultFeeSettings())
		if results[j].SimulationResult != *want {
			t.Fatalf("result %d differs from direct computation", j)
		}
		j++
	}
}

func TestSimulatePortfolio_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	beans := []Bean{scenarioBean()}
	_, err := SimulatePortfolio(ctx, beans, scenarioGlobal(), cashInStore(), 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSimulatePortfolio_NamesAndRisk(t *testing.T) {
	bean := scenarioBean()
	bean.Name = ""
	losing := Bean{ID: "losing", Name: "Losing", PurchasePrice: 1000, PurchaseWeightKg: 5, TargetRateRetail: 90, TargetRateWholesale: 95}
	fs := FeeSettings{SaleType: SaleOnline, PlatformType: PlatformStoresFree, ShippingCost: 100000}

	results, err := SimulatePortfolio(context.Background(), []Bean{bean, losing}, scenarioGlobal(), fs, 0)
	if err != nil {
		t.Fatalf("SimulatePortfolio: %v", err)
	}
	if results[0].BeanName != "Unnamed Bean" {
		t.Fatalf("beanName = %q, want Unnamed Bean", results[0].BeanName)
	}
	if !results[1].BreakevenAtRisk {
		t.Fatalf("expected break-even risk for %+v", results[1])
	}
}

func TestSummarize(t *testing.T) {
	beans := []Bean{scenarioBean(), NewBean(2)}
	results, err := SimulatePortfolio(context.Background(), beans, scenarioGlobal(), cashInStore(), 0)
	if err != nil {
		t.Fatalf("SimulatePortfolio: %v", err)
	}

	s := Summarize(beans, results)
	if s.TotalInvestment != 50000 {
		t.Fatalf("totalInvestment = %d, want 50000", s.TotalInvestment)
	}
	if s.TotalProfit != 2920*40 {
		t.Fatalf("totalProfit = %d, want %d", s.TotalProfit, 2920*40)
	}
	nearlyEqual(t, "returnRate", s.ReturnRatePct, float64(2920*40)/50000*100)

	if empty := Summarize(nil, nil); empty.ReturnRatePct != 0 {
		t.Fatalf("expected zero return rate without investment, got %+v", empty)
	}
}

func BenchmarkSimulatePortfolio(b *testing.B) {
	beans := make([]Bean, 100)
	for i := range beans {
		beans[i] = Bean{ID: fmt.Sprint(i), PurchasePrice: 50000, PurchaseWeightKg: 5, TargetRateRetail: 30, TargetRateWholesale: 50}
	}
	gs, fs := scenarioGlobal(), cashInStore()
	for i := 0; i < b.N; i++ {
		if _, err := SimulatePortfolio(context.Background(), beans, gs, fs, 8); err != nil {
			b.Fatal(err)
		}
	}
}
