package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/roastcalc/internal/logger"
	"github.com/Simplici0/roastcalc/internal/marketprice"
	"github.com/Simplici0/roastcalc/internal/pricing"
	"github.com/Simplici0/roastcalc/internal/report"
	"github.com/Simplici0/roastcalc/internal/session"
)

const (
	defaultDiscountBagG = 200
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var errBadIngredientID = errors.New("ingredient id must be unique and not empty")

type settingsResponse struct {
	GlobalSettings pricing.GlobalSettings `json:"globalSettings"`
	FeeSettings    pricing.FeeSettings    `json:"feeSettings"`
}

type beansResponse struct {
	Beans        []pricing.Bean `json:"beans"`
	ActiveBeanID string         `json:"activeBeanId"`
}

type resultsResponse struct {
	Results []pricing.BeanResult `json:"results"`
	Summary pricing.Summary      `json:"summary"`
}

type blendResponse struct {
	Recipe           pricing.BlendRecipe `json:"recipe"`
	RatioTotal       float64             `json:"ratioTotal"`
	AverageCostPerKg float64             `json:"averageCostPerKg"`
	BatchCost        float64             `json:"batchCost"`
}

type blendResultsResponse struct {
	Result     *pricing.SimulationResult `json:"result"`
	RatioTotal float64                   `json:"ratioTotal"`
	// RatioWarning is set when the ingredient ratios do not add up to 100%.
	RatioWarning bool `json:"ratioWarning"`
}

type simulateRequest struct {
	Bean           pricing.Bean            `json:"bean"`
	GlobalSettings *pricing.GlobalSettings `json:"globalSettings"`
	FeeSettings    *pricing.FeeSettings    `json:"feeSettings"`
}

type simulateResponse struct {
	Result *pricing.SimulationResult `json:"result"`
}

type discountResponse struct {
	BeanID string                   `json:"beanId"`
	Quote  pricing.DiscountQuote    `json:"quote"`
	Curve  []pricing.CurvePoint     `json:"curve"`
	Base   pricing.SimulationResult `json:"base"`
}

type feeRow struct {
	pricing.FeeScheduleEntry
	Fee *int64 `json:"fee,omitempty"`
}

// beanEdit applies single-field edits the way the bean form does: switching
// the price mode seeds the per-kg price, and in per-kg mode the total follows
// price and weight.
type beanEdit struct {
	Name                *string                 `json:"name"`
	PriceInputMode      *pricing.PriceInputMode `json:"priceInputMode"`
	PurchaseWeightKg    *float64                `json:"purchaseWeightKg"`
	Price               *float64                `json:"price"`
	TargetRateRetail    *float64                `json:"targetRateRetail"`
	TargetRateWholesale *float64                `json:"targetRateWholesale"`
}

func (e beanEdit) apply(b *pricing.Bean) {
	if e.Name != nil {
		b.Name = *e.Name
	}
	if e.PriceInputMode != nil {
		b.SetPriceInputMode(*e.PriceInputMode)
	}
	if e.PurchaseWeightKg != nil {
		b.SetWeight(*e.PurchaseWeightKg)
	}
	if e.Price != nil {
		b.SetEnteredPrice(*e.Price)
	}
	if e.TargetRateRetail != nil {
		b.TargetRateRetail = *e.TargetRateRetail
	}
	if e.TargetRateWholesale != nil {
		b.TargetRateWholesale = *e.TargetRateWholesale
	}
}

func (s *server) loadWorkspace(w http.ResponseWriter, r *http.Request) (session.Workspace, bool) {
	ws, err := s.store.Load(r.Context(), sessionID(r))
	if err != nil {
		writeStoreError(w, err, "load workspace")
		return session.Workspace{}, false
	}
	return ws, true
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleResetSession drops the workspace. The next request starts a fresh one.
func (s *server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), sessionID(r)); err != nil {
		writeStoreError(w, err, "delete session")
		return
	}
	s.sessions.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleSettings(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.loadWorkspace(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{GlobalSettings: ws.Global, FeeSettings: ws.Fees})
}

func (s *server) handleSaveGlobal(w http.ResponseWriter, r *http.Request) {
	var gs pricing.GlobalSettings
	if err := decodeJSON(r, &gs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := pricing.ValidateGlobalSettings(gs); err != nil {
		writeInvalid(w, err)
		return
	}
	if err := s.store.SaveGlobal(r.Context(), sessionID(r), gs); err != nil {
		writeStoreError(w, err, "save global settings")
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

func (s *server) handleSaveFees(w http.ResponseWriter, r *http.Request) {
	var fs pricing.FeeSettings
	if err := decodeJSON(r, &fs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := pricing.ValidateFeeSettings(fs); err != nil {
		writeInvalid(w, err)
		return
	}
	if err := s.store.SaveFees(r.Context(), sessionID(r), fs); err != nil {
		writeStoreError(w, err, "save fee settings")
		return
	}
	writeJSON(w, http.StatusOK, fs)
}

func (s *server) handleBeans(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.loadWorkspace(w, r)
	if !ok {
		return
	}
	active, _ := ws.ActiveBean()
	writeJSON(w, http.StatusOK, beansResponse{Beans: ws.Beans, ActiveBeanID: active.ID})
}

func (s *server) handleSaveBean(w http.ResponseWriter, r *http.Request) {
	var bean pricing.Bean
	if err := decodeJSON(r, &bean); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bean.ID = chi.URLParam(r, "id")
	s.saveBean(w, r, bean)
}

func (s *server) handleEditBean(w http.ResponseWriter, r *http.Request) {
	var edit beanEdit
	if err := decodeJSON(r, &edit); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ws, ok := s.loadWorkspace(w, r)
	if !ok {
		return
	}
	bean, found := ws.Bean(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "bean not found")
		return
	}

	edit.apply(&bean)
	s.saveBean(w, r, bean)
}

func (s *server) saveBean(w http.ResponseWriter, r *http.Request, bean pricing.Bean) {
	if err := pricing.ValidateBean(bean); err != nil {
		writeInvalid(w, err)
		return
	}
	if err := s.store.SaveBean(r.Context(), sessionID(r), bean); err != nil {
		writeStoreError(w, err, "save bean")
		return
	}
	writeJSON(w, http.StatusOK, bean)
}

func (s *server) handleSetActiveBean(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BeanID string `json:"beanId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.SetActiveBean(r.Context(), sessionID(r), req.BeanID); err != nil {
		writeStoreError(w, err, "set active bean")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"activeBeanId": req.BeanID})
}

func (s *server) portfolio(ctx context.Context, ws session.Workspace) ([]pricing.BeanResult, pricing.Summary, error) {
	results, err := pricing.SimulatePortfolio(ctx, ws.Beans, ws.Global, ws.Fees, s.workers)
	if err != nil {
		return nil, pricing.Summary{}, fmt.Errorf("simulate portfolio: %w", err)
	}
	return results, pricing.Summarize(ws.Beans, results), nil
}

func (s *server) handleResults(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.loadWorkspace(w, r)
	if !ok {
		return
	}
	results, summary, err := s.portfolio(r.Context(), ws)
	if err != nil {
		logger.Log.Error().Err(err).Msg("failed to compute results")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := report.WriteTable(w, results, summary); err != nil {
			logger.Log.Error().Err(err).Msg("failed to write results table")
		}
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{Results: results, Summary: summary})
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.loadWorkspace(w, r)
	if !ok {
		return
	}
	results, summary, err := s.portfolio(r.Context(), ws)
	if err != nil {
		logger.Log.Error().Err(err).Msg("failed to compute results")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="roastcalc.xlsx"`)
	if err := report.WriteXLSX(w, results, summary); err != nil {
		logger.Log.Error().Err(err).Msg("failed to write workbook")
	}
}

func (s *server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gs := pricing.DefaultGlobalSettings()
	if req.GlobalSettings != nil {
		gs = *req.GlobalSettings
	}
	fs := pricing.DefaultFeeSettings()
	if req.FeeSettings != nil {
		fs = *req.FeeSettings
	}

	if err := pricing.ValidateInputs(req.Bean, gs, fs); err != nil {
		writeInvalid(w, err)
		return
	}

	res, ok := pricing.ComputeMetrics(req.Bean, gs, fs)
	if !ok {
		res = nil
	}
	writeJSON(w, http.StatusOK, simulateResponse{Result: res})
}

func (s *server) handleDiscount(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.loadWorkspace(w, r)
	if !ok {
		return
	}

	bean, found := ws.ActiveBean()
	if id := r.URL.Query().Get("bean"); id != "" {
		bean, found = ws.Bean(id)
	}
	if !found {
		writeError(w, http.StatusNotFound, "bean not found")
		return
	}

	bagG, err := queryFloat(r, "bagG", defaultDiscountBagG)
	if err != nil {
		writeInvalid(w, err)
		return
	}
	discount, err := queryFloat(r, "discount", 0)
	if err != nil {
		writeInvalid(w, err)
		return
	}
	if err := pricing.ValidateDiscount(bagG, discount); err != nil {
		writeInvalid(w, err)
		return
	}

	if !pricing.Simulatable(bean) {
		writeError(w, http.StatusUnprocessableEntity, "bean has no purchase price or weight")
		return
	}
	res, ok := pricing.ComputeMetrics(bean, ws.Global, ws.Fees)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "bean yields no sellable bags")
		return
	}

	writeJSON(w, http.StatusOK, discountResponse{
		BeanID: bean.ID,
		Quote:  pricing.SimulateDiscount(*res, bean, ws.Global, ws.Fees, bagG, discount),
		Curve:  pricing.DiscountCurve(*res, ws.Global, ws.Fees, bagG),
		Base:   *res,
	})
}

func (s *server) handleFeeSchedule(w http.ResponseWriter, r *http.Request) {
	price, err := queryFloat(r, "price", -1)
	if err != nil {
		writeInvalid(w, err)
		return
	}
	customRate, err := queryFloat(r, "customFeeRate", 0)
	if err != nil {
		writeInvalid(w, err)
		return
	}

	schedule := pricing.FeeSchedule()
	rows := make([]feeRow, 0, len(schedule))
	for _, e := range schedule {
		row := feeRow{FeeScheduleEntry: e}
		if price >= 0 {
			fee := pricing.CalculateFee(int64(math.Round(price)), e.Settings(customRate))
			row.Fee = &fee
		}
		rows = append(rows, row)
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *server) handleMarketPrice(w http.ResponseWriter, r *http.Request) {
	if !s.market.Enabled() {
		writeError(w, http.StatusServiceUnavailable, marketprice.ErrDisabled.Error())
		return
	}

	quote, err := s.market.Lookup(r.Context(), r.URL.Query().Get("q"))
	switch {
	case errors.Is(err, marketprice.ErrEmptyQuery):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		logger.Log.Error().Err(err).Msg("market price lookup failed")
		writeError(w, http.StatusBadGateway, "market price lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *server) blendView(recipe pricing.BlendRecipe) blendResponse {
	return blendResponse{
		Recipe:           recipe,
		RatioTotal:       pricing.RatioTotal(recipe),
		AverageCostPerKg: pricing.AverageCostPerKg(recipe),
		BatchCost:        pricing.BatchCost(recipe),
	}
}

func (s *server) handleBlend(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.loadWorkspace(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.blendView(ws.Recipe))
}

func (s *server) saveRecipe(w http.ResponseWriter, r *http.Request, recipe pricing.BlendRecipe, status int) {
	if err := validateRecipe(recipe); err != nil {
		writeInvalid(w, err)
		return
	}
	if err := s.store.SaveRecipe(r.Context(), sessionID(r), recipe); err != nil {
		writeStoreError(w, err, "save blend recipe")
		return
	}
	writeJSON(w, status, s.blendView(recipe))
}

// validateRecipe adds the uniqueness of ingredient IDs to the recipe checks.
func validateRecipe(recipe pricing.BlendRecipe) error {
	if err := pricing.ValidateRecipe(recipe); err != nil {
		return err
	}
	seen := make(map[string]bool, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		if ing.ID == "" || seen[ing.ID] {
			return &pricing.ValidationError{
				Err:     errBadIngredientID,
				Field:   fmt.Sprintf("ingredients[%d].id", i),
				Details: ing.ID,
			}
		}
		seen[ing.ID] = true
	}
	return nil
}

func (s *server) handleSaveBlend(w http.ResponseWriter, r *http.Request) {
	var recipe pricing.BlendRecipe
	if err := decodeJSON(r, &recipe); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ws, ok := s.loadWorkspace(w, r)
	if !ok {
		return
	}
	recipe.ID = ws.Recipe.ID
	if recipe.Ingredients == nil {
		recipe.Ingredients = []pricing.BlendIngredient{}
	}
	s.saveRecipe(w, r, recipe, http.StatusOK)
}

func (s *server) handleAddIngredient(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.loadWorkspace(w, r)
	if !ok {
		return
	}
	recipe, _ := pricing.AddIngredient(ws.Recipe)
	s.saveRecipe(w, r, recipe, http.StatusCreated)
}

func (s *server) handleUpdateIngredient(w http.ResponseWriter, r *http.Request) {
	var ing pricing.BlendIngredient
	if err := decodeJSON(r, &ing); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ing.ID = chi.URLParam(r, "id")

	ws, ok := s.loadWorkspace(w, r)
	if !ok {
		return
	}
	recipe, found := pricing.UpdateIngredient(ws.Recipe, ing)
	if !found {
		writeError(w, http.StatusNotFound, "ingredient not found")
		return
	}
	s.saveRecipe(w, r, recipe, http.StatusOK)
}

func (s *server) handleRemoveIngredient(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.loadWorkspace(w, r)
	if !ok {
		return
	}
	recipe, found := pricing.RemoveIngredient(ws.Recipe, chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "ingredient not found")
		return
	}
	s.saveRecipe(w, r, recipe, http.StatusOK)
}

func (s *server) handleBlendResults(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.loadWorkspace(w, r)
	if !ok {
		return
	}

	ratio := pricing.RatioTotal(ws.Recipe)
	res, found := pricing.SimulateRecipe(ws.Recipe, ws.Global, ws.Fees)
	if !found {
		res = nil
	}
	writeJSON(w, http.StatusOK, blendResultsResponse{
		Result:       res,
		RatioTotal:   ratio,
		RatioWarning: math.Abs(ratio-100) > 1e-9,
	})
}
