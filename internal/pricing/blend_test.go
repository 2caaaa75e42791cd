package pricing

import (
	"strings"
	"testing"
)

func TestReduceRecipe_DefaultBlend(t *testing.T) {
	recipe := DefaultRecipe()

	nearlyEqual(t, "avgCostPerKg", AverageCostPerKg(recipe), 1650)

	bean := ReduceRecipe(recipe)
	if bean.PurchasePrice != 16500 {
		t.Fatalf("purchasePrice = %d, want 16500", bean.PurchasePrice)
	}
	nearlyEqual(t, "purchaseWeightKg", bean.PurchaseWeightKg, 10)
	if bean.ID != recipe.ID || bean.Name != recipe.Name {
		t.Fatalf("identity not carried over: %+v", bean)
	}
	if bean.TargetRateRetail != 30 || bean.TargetRateWholesale != 50 {
		t.Fatalf("target rates not carried over: %+v", bean)
	}
}

func TestReduceRecipe_RatiosArePassedThrough(t *testing.T) {
	recipe := BlendRecipe{
		Ingredients: []BlendIngredient{
			{PricePerKg: 2000, Ratio: 60},
			{PricePerKg: 1000, Ratio: 60},
		},
		TotalBatchWeightKg: 2.5,
	}

	nearlyEqual(t, "ratioTotal", RatioTotal(recipe), 120)
	nearlyEqual(t, "avgCostPerKg", AverageCostPerKg(recipe), 1800)
	if got := ReduceRecipe(recipe).PurchasePrice; got != 4500 {
		t.Fatalf("purchasePrice = %d, want 4500", got)
	}
}

func TestReduceRecipe_RoundsToNearest(t *testing.T) {
	recipe := BlendRecipe{
		Ingredients:        []BlendIngredient{{PricePerKg: 1234.5, Ratio: 100}},
		TotalBatchWeightKg: 1,
	}
	if got := ReduceRecipe(recipe).PurchasePrice; got != 1235 {
		t.Fatalf("purchasePrice = %d, want 1235", got)
	}
}

func TestReduceRecipe_DoesNotMutateRecipe(t *testing.T) {
	recipe := DefaultRecipe()
	before := recipe.Ingredients[0]

	_ = ReduceRecipe(recipe)

	if recipe.Ingredients[0] != before || recipe.TotalBatchWeightKg != 10 {
		t.Fatalf("recipe mutated: %+v", recipe)
	}
}

func TestSimulateRecipe(t *testing.T) {
	res, ok := SimulateRecipe(DefaultRecipe(), DefaultGlobalSettings(), DefaultFeeSettings())
	if !ok {
		t.Fatalf("expected a result for the default blend")
	}
	if res.SellableUnits != 80 || res.CostPerBag != 207 {
		t.Fatalf("unexpected units/cost: %d/%d", res.SellableUnits, res.CostPerBag)
	}
	if res.RetailPrice != 690 || res.WholesalePrice != 420 {
		t.Fatalf("unexpected prices: %d/%d", res.RetailPrice, res.WholesalePrice)
	}
	if res.ProfitPerBag != 483 || res.BreakevenUnits != 24 {
		t.Fatalf("unexpected profit/breakeven: %d/%d", res.ProfitPerBag, res.BreakevenUnits)
	}

	empty := DefaultRecipe()
	empty.TotalBatchWeightKg = 0
	if _, ok := SimulateRecipe(empty, DefaultGlobalSettings(), DefaultFeeSettings()); ok {
		t.Fatalf("expected no result for an empty batch")
	}
}

func TestIngredientEditing(t *testing.T) {
	recipe := DefaultRecipe()

	added, ing := AddIngredient(recipe)
	if len(added.Ingredients) != 3 || len(recipe.Ingredients) != 2 {
		t.Fatalf("AddIngredient must copy: got %d, original %d", len(added.Ingredients), len(recipe.Ingredients))
	}
	if !strings.HasPrefix(ing.ID, "i-") || ing.Name != "New Bean" || ing.Ratio != 0 || ing.PricePerKg != 0 {
		t.Fatalf("unexpected new ingredient: %+v", ing)
	}

	ing.Ratio = 20
	ing.PricePerKg = 2400
	updated, ok := UpdateIngredient(added, ing)
	if !ok {
		t.Fatalf("UpdateIngredient did not find %s", ing.ID)
	}
	if updated.Ingredients[2].Ratio != 20 || added.Ingredients[2].Ratio != 0 {
		t.Fatalf("UpdateIngredient must copy: %+v / %+v", updated.Ingredients[2], added.Ingredients[2])
	}

	removed, ok := RemoveIngredient(updated, "i-1")
	if !ok || len(removed.Ingredients) != 2 || removed.Ingredients[0].ID != "i-2" {
		t.Fatalf("unexpected removal result: %+v", removed.Ingredients)
	}
	if len(updated.Ingredients) != 3 || updated.Ingredients[0].ID != "i-1" {
		t.Fatalf("RemoveIngredient must copy: %+v", updated.Ingredients)
	}

	if _, ok := RemoveIngredient(recipe, "missing"); ok {
		t.Fatalf("expected missing ingredient to be reported")
	}
	if _, ok := UpdateIngredient(recipe, BlendIngredient{ID: "missing"}); ok {
		t.Fatalf("expected missing ingredient to be reported")
	}
}
