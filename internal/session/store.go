// Package session keeps each visitor's workspace (settings, beans and blend)
// in the in-memory SQLite database.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/roastcalc/internal/logger"
	"github.com/Simplici0/roastcalc/internal/pricing"
	"github.com/Simplici0/roastcalc/internal/seed"
)

const timestampLayout = "2006-01-02 15:04:05"

// ErrNotFound is returned for unknown sessions, beans and ingredients.
var ErrNotFound = errors.New("not found")

// Workspace is the complete state of one session.
type Workspace struct {
	SessionID    string                 `json:"sessionId"`
	ActiveBeanID string                 `json:"activeBeanId"`
	Global       pricing.GlobalSettings `json:"globalSettings"`
	Fees         pricing.FeeSettings    `json:"feeSettings"`
	Beans        []pricing.Bean         `json:"beans"`
	Recipe       pricing.BlendRecipe    `json:"blendRecipe"`
}

// ActiveBean returns the selected bean, falling back to the first one.
func (w Workspace) ActiveBean() (pricing.Bean, bool) {
	for _, b := range w.Beans {
		if b.ID == w.ActiveBeanID {
			return b, true
		}
	}
	if len(w.Beans) > 0 {
		return w.Beans[0], true
	}
	return pricing.Bean{}, false
}

// Bean looks a bean up by ID.
func (w Workspace) Bean(id string) (pricing.Bean, bool) {
	for _, b := range w.Beans {
		if b.ID == id {
			return b, true
		}
	}
	return pricing.Bean{}, false
}

// Store reads and writes workspaces.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewStore wraps an open, migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: sqlx.NewDb(db, "sqlite"), now: time.Now}
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

// Ensure returns id when it names a live session and refreshes its last-seen
// time. Otherwise it creates and seeds a new session and returns its ID.
func (s *Store) Ensure(ctx context.Context, id string) (string, error) {
	if id != "" {
		res, err := s.db.ExecContext(ctx, `UPDATE sessions SET last_seen_at = ? WHERE id = ?`, s.timestamp(), id)
		if err != nil {
			return "", fmt.Errorf("touch session: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return "", fmt.Errorf("touch session: %w", err)
		}
		if affected > 0 {
			return id, nil
		}
	}

	id = uuid.NewString()
	stats, err := seed.Run(ctx, s.db, id)
	if err != nil {
		return "", fmt.Errorf("seed session: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE sessions SET created_at = ?, last_seen_at = ? WHERE id = ?`, s.timestamp(), s.timestamp(), id); err != nil {
		return "", fmt.Errorf("stamp session: %w", err)
	}
	logger.Log.Debug().Str("session", id).Int("inserts", stats.Inserts).Msg("session created")
	return id, nil
}

// DeleteIdle removes sessions not seen since cutoff and returns how many were
// removed. Their rows go with them through ON DELETE CASCADE.
func (s *Store) DeleteIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_seen_at < ?`, cutoff.UTC().Format(timestampLayout))
	if err != nil {
		return 0, fmt.Errorf("delete idle sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete idle sessions: %w", err)
	}
	return n, nil
}

// Delete removes a session and its workspace.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return requireAffected(res, "delete session")
}

type globalRow struct {
	SalesUnitG          float64 `db:"sales_unit_g"`
	TaxRate             float64 `db:"tax_rate"`
	RoastLossRate       float64 `db:"roast_loss_rate"`
	HandpickLossRate    float64 `db:"handpick_loss_rate"`
	UtilityCostPerRoast int64   `db:"utility_cost_per_roast"`
	PackagingCost       int64   `db:"packaging_cost"`
	IsTaxableEntity     bool    `db:"is_taxable_entity"`
}

type feeRow struct {
	SaleType      string  `db:"sale_type"`
	PlatformType  string  `db:"platform_type"`
	ShippingCost  int64   `db:"shipping_cost"`
	PaymentMethod string  `db:"payment_method"`
	CustomFeeRate float64 `db:"custom_fee_rate"`
}

type beanRow struct {
	ID                  string          `db:"id"`
	Name                string          `db:"name"`
	PurchasePrice       int64           `db:"purchase_price"`
	PurchaseWeightKg    float64         `db:"purchase_weight_kg"`
	PriceInputMode      string          `db:"price_input_mode"`
	EnteredUnitPrice    sql.NullFloat64 `db:"entered_unit_price"`
	TargetRateRetail    float64         `db:"target_rate_retail"`
	TargetRateWholesale float64         `db:"target_rate_wholesale"`
}

type recipeRow struct {
	ID                  string  `db:"id"`
	Name                string  `db:"name"`
	TotalBatchWeightKg  float64 `db:"total_batch_weight_kg"`
	TargetRateRetail    float64 `db:"target_rate_retail"`
	TargetRateWholesale float64 `db:"target_rate_wholesale"`
}

type ingredientRow struct {
	ID         string  `db:"id"`
	Name       string  `db:"name"`
	PricePerKg float64 `db:"price_per_kg"`
	Ratio      float64 `db:"ratio"`
}

// Load reads the workspace of a session.
func (s *Store) Load(ctx context.Context, id string) (Workspace, error) {
	ws := Workspace{SessionID: id}

	err := s.db.GetContext(ctx, &ws.ActiveBeanID, `SELECT active_bean_id FROM sessions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Workspace{}, ErrNotFound
	}
	if err != nil {
		return Workspace{}, fmt.Errorf("query session: %w", err)
	}

	var g globalRow
	if err := s.db.GetContext(ctx, &g, `
		SELECT sales_unit_g, tax_rate, roast_loss_rate, handpick_loss_rate,
			utility_cost_per_roast, packaging_cost, is_taxable_entity
		FROM global_settings
		WHERE session_id = ?
	`, id); err != nil {
		return Workspace{}, fmt.Errorf("query global settings: %w", err)
	}
	ws.Global = pricing.GlobalSettings{
		SalesUnitG:          g.SalesUnitG,
		TaxRate:             g.TaxRate,
		RoastLossRate:       g.RoastLossRate,
		HandpickLossRate:    g.HandpickLossRate,
		UtilityCostPerRoast: g.UtilityCostPerRoast,
		PackagingCost:       g.PackagingCost,
		IsTaxableEntity:     g.IsTaxableEntity,
	}

	var f feeRow
	if err := s.db.GetContext(ctx, &f, `
		SELECT sale_type, platform_type, shipping_cost, payment_method, custom_fee_rate
		FROM fee_settings
		WHERE session_id = ?
	`, id); err != nil {
		return Workspace{}, fmt.Errorf("query fee settings: %w", err)
	}
	ws.Fees = pricing.FeeSettings{
		SaleType:      pricing.SaleType(f.SaleType),
		PlatformType:  pricing.PlatformType(f.PlatformType),
		ShippingCost:  f.ShippingCost,
		PaymentMethod: pricing.PaymentMethod(f.PaymentMethod),
		CustomFeeRate: f.CustomFeeRate,
	}

	var beans []beanRow
	if err := s.db.SelectContext(ctx, &beans, `
		SELECT id, name, purchase_price, purchase_weight_kg, price_input_mode,
			entered_unit_price, target_rate_retail, target_rate_wholesale
		FROM beans
		WHERE session_id = ?
		ORDER BY position, id
	`, id); err != nil {
		return Workspace{}, fmt.Errorf("query beans: %w", err)
	}
	ws.Beans = make([]pricing.Bean, 0, len(beans))
	for _, b := range beans {
		bean := pricing.Bean{
			ID:                  b.ID,
			Name:                b.Name,
			PurchasePrice:       b.PurchasePrice,
			PurchaseWeightKg:    b.PurchaseWeightKg,
			PriceInputMode:      pricing.PriceInputMode(b.PriceInputMode),
			TargetRateRetail:    b.TargetRateRetail,
			TargetRateWholesale: b.TargetRateWholesale,
		}
		if b.EnteredUnitPrice.Valid {
			v := b.EnteredUnitPrice.Float64
			bean.EnteredUnitPrice = &v
		}
		ws.Beans = append(ws.Beans, bean)
	}

	recipe, err := s.loadRecipe(ctx, id)
	if err != nil {
		return Workspace{}, err
	}
	ws.Recipe = recipe

	return ws, nil
}

func (s *Store) loadRecipe(ctx context.Context, id string) (pricing.BlendRecipe, error) {
	var r recipeRow
	err := s.db.GetContext(ctx, &r, `
		SELECT id, name, total_batch_weight_kg, target_rate_retail, target_rate_wholesale
		FROM blend_recipes
		WHERE session_id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.DefaultRecipe(), nil
	}
	if err != nil {
		return pricing.BlendRecipe{}, fmt.Errorf("query blend recipe: %w", err)
	}

	var ings []ingredientRow
	if err := s.db.SelectContext(ctx, &ings, `
		SELECT id, name, price_per_kg, ratio
		FROM blend_ingredients
		WHERE session_id = ?
		ORDER BY position, id
	`, id); err != nil {
		return pricing.BlendRecipe{}, fmt.Errorf("query blend ingredients: %w", err)
	}

	recipe := pricing.BlendRecipe{
		ID:                  r.ID,
		Name:                r.Name,
		Ingredients:         make([]pricing.BlendIngredient, 0, len(ings)),
		TotalBatchWeightKg:  r.TotalBatchWeightKg,
		TargetRateRetail:    r.TargetRateRetail,
		TargetRateWholesale: r.TargetRateWholesale,
	}
	for _, ing := range ings {
		recipe.Ingredients = append(recipe.Ingredients, pricing.BlendIngredient{
			ID:         ing.ID,
			Name:       ing.Name,
			PricePerKg: ing.PricePerKg,
			Ratio:      ing.Ratio,
		})
	}
	return recipe, nil
}

// SaveGlobal replaces the global settings of a session.
func (s *Store) SaveGlobal(ctx context.Context, id string, gs pricing.GlobalSettings) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE global_settings
		SET
			sales_unit_g = ?,
			tax_rate = ?,
			roast_loss_rate = ?,
			handpick_loss_rate = ?,
			utility_cost_per_roast = ?,
			packaging_cost = ?,
			is_taxable_entity = ?
		WHERE session_id = ?
	`, gs.SalesUnitG, gs.TaxRate, gs.RoastLossRate, gs.HandpickLossRate,
		gs.UtilityCostPerRoast, gs.PackagingCost, gs.IsTaxableEntity, id)
	if err != nil {
		return fmt.Errorf("update global settings: %w", err)
	}
	return requireAffected(res, "update global settings")
}

// SaveFees replaces the fee settings of a session.
func (s *Store) SaveFees(ctx context.Context, id string, fs pricing.FeeSettings) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE fee_settings
		SET
			sale_type = ?,
			platform_type = ?,
			shipping_cost = ?,
			payment_method = ?,
			custom_fee_rate = ?
		WHERE session_id = ?
	`, fs.SaleType, fs.PlatformType, fs.ShippingCost, fs.PaymentMethod, fs.CustomFeeRate, id)
	if err != nil {
		return fmt.Errorf("update fee settings: %w", err)
	}
	return requireAffected(res, "update fee settings")
}

// SaveBean updates an existing bean slot. Beans cannot be added or removed.
func (s *Store) SaveBean(ctx context.Context, id string, bean pricing.Bean) error {
	var entered sql.NullFloat64
	if bean.EnteredUnitPrice != nil {
		entered = sql.NullFloat64{Float64: *bean.EnteredUnitPrice, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE beans
		SET
			name = ?,
			purchase_price = ?,
			purchase_weight_kg = ?,
			price_input_mode = ?,
			entered_unit_price = ?,
			target_rate_retail = ?,
			target_rate_wholesale = ?
		WHERE session_id = ? AND id = ?
	`, bean.Name, bean.PurchasePrice, bean.PurchaseWeightKg, bean.Mode(), entered,
		bean.TargetRateRetail, bean.TargetRateWholesale, id, bean.ID)
	if err != nil {
		return fmt.Errorf("update bean: %w", err)
	}
	return requireAffected(res, "update bean")
}

// SetActiveBean selects the bean shown by default.
func (s *Store) SetActiveBean(ctx context.Context, id, beanID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions
		SET active_bean_id = ?
		WHERE id = ? AND EXISTS(SELECT 1 FROM beans WHERE session_id = ? AND id = ?)
	`, beanID, id, id, beanID)
	if err != nil {
		return fmt.Errorf("set active bean: %w", err)
	}
	return requireAffected(res, "set active bean")
}

// SaveRecipe replaces the blend recipe and all of its ingredients.
func (s *Store) SaveRecipe(ctx context.Context, id string, recipe pricing.BlendRecipe) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin recipe transaction: %w", err)
	}

	if err := saveRecipe(ctx, tx, id, recipe); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit recipe transaction: %w", err)
	}
	return nil
}

func saveRecipe(ctx context.Context, tx *sqlx.Tx, id string, recipe pricing.BlendRecipe) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE blend_recipes
		SET
			name = ?,
			total_batch_weight_kg = ?,
			target_rate_retail = ?,
			target_rate_wholesale = ?
		WHERE session_id = ?
	`, recipe.Name, recipe.TotalBatchWeightKg, recipe.TargetRateRetail, recipe.TargetRateWholesale, id)
	if err != nil {
		return fmt.Errorf("update blend recipe: %w", err)
	}
	if err := requireAffected(res, "update blend recipe"); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM blend_ingredients WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("clear blend ingredients: %w", err)
	}

	for i, ing := range recipe.Ingredients {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO blend_ingredients (session_id, id, position, name, price_per_kg, ratio)
			VALUES (?, ?, ?, ?, ?, ?)
		`, id, ing.ID, i, ing.Name, ing.PricePerKg, ing.Ratio); err != nil {
			return fmt.Errorf("insert blend ingredient %s: %w", ing.ID, err)
		}
	}
	return nil
}

func requireAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
