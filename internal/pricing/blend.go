package pricing

import "github.com/google/uuid"

const newIngredientName = "New Bean"

// AverageCostPerKg returns the ratio-weighted price of the blend. Ratios are
// used as given, even when they do not add up to 100.
func AverageCostPerKg(recipe BlendRecipe) float64 {
	var avg float64
	for _, ing := range recipe.Ingredients {
		avg += ing.PricePerKg * (ing.Ratio / 100)
	}
	return avg
}

// RatioTotal returns the sum of ingredient ratios.
func RatioTotal(recipe BlendRecipe) float64 {
	var total float64
	for _, ing := range recipe.Ingredients {
		total += ing.Ratio
	}
	return total
}

// BatchCost returns the unrounded purchase cost of one batch of the blend.
func BatchCost(recipe BlendRecipe) float64 {
	return AverageCostPerKg(recipe) * recipe.TotalBatchWeightKg
}

// ReduceRecipe collapses a recipe into a virtual bean that the metrics engine
// can simulate like any single origin.
func ReduceRecipe(recipe BlendRecipe) Bean {
	return Bean{
		ID:                  recipe.ID,
		Name:                recipe.Name,
		PurchasePrice:       roundHalfUp(BatchCost(recipe)),
		PurchaseWeightKg:    recipe.TotalBatchWeightKg,
		TargetRateRetail:    recipe.TargetRateRetail,
		TargetRateWholesale: recipe.TargetRateWholesale,
	}
}

// SimulateRecipe runs the metrics engine on a recipe's virtual bean. A batch
// without weight has no result.
func SimulateRecipe(recipe BlendRecipe, gs GlobalSettings, fs FeeSettings) (*SimulationResult, bool) {
	if !(recipe.TotalBatchWeightKg > 0) {
		return nil, false
	}
	return ComputeMetrics(ReduceRecipe(recipe), gs, fs)
}

// AddIngredient returns a copy of the recipe with a blank ingredient appended.
func AddIngredient(recipe BlendRecipe) (BlendRecipe, BlendIngredient) {
	ing := BlendIngredient{
		ID:   "i-" + uuid.NewString(),
		Name: newIngredientName,
	}
	out := cloneRecipe(recipe)
	out.Ingredients = append(out.Ingredients, ing)
	return out, ing
}

// UpdateIngredient returns a copy of the recipe with the matching ingredient
// replaced. The boolean reports whether the ID was found.
func UpdateIngredient(recipe BlendRecipe, ing BlendIngredient) (BlendRecipe, bool) {
	out := cloneRecipe(recipe)
	for i := range out.Ingredients {
		if out.Ingredients[i].ID == ing.ID {
			out.Ingredients[i] = ing
			return out, true
		}
	}
	return out, false
}

// RemoveIngredient returns a copy of the recipe without the given ingredient.
func RemoveIngredient(recipe BlendRecipe, id string) (BlendRecipe, bool) {
	out := cloneRecipe(recipe)
	out.Ingredients = out.Ingredients[:0]
	found := false
	for _, ing := range recipe.Ingredients {
		if ing.ID == id {
			found = true
			continue
		}
		out.Ingredients = append(out.Ingredients, ing)
	}
	return out, found
}

func cloneRecipe(recipe BlendRecipe) BlendRecipe {
	out := recipe
	out.Ingredients = make([]BlendIngredient, len(recipe.Ingredients), len(recipe.Ingredients)+1)
	copy(out.Ingredients, recipe.Ingredients)
	return out
}
