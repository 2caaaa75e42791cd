package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/roastcalc/internal/pricing"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run fills the workspace of sessionID with defaults in an idempotent way:
// rows that already exist are left untouched, so a partially seeded or edited
// workspace keeps its values.
func Run(ctx context.Context, db *sqlx.DB, sessionID string) (Stats, error) {
	if sessionID == "" {
		return Stats{}, errors.New("seed workspace: empty session id")
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	steps := []func(context.Context, *sqlx.Tx, string, *Stats) error{
		ensureSession,
		ensureGlobalSettings,
		ensureFeeSettings,
		ensureBeans,
		ensureRecipe,
	}
	for _, step := range steps {
		if err := step(ctx, tx, sessionID, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func exists(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (bool, error) {
	var found bool
	err := tx.GetContext(ctx, &found, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return found, err
}

func ensureSession(ctx context.Context, tx *sqlx.Tx, sessionID string, stats *Stats) error {
	found, err := exists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM sessions WHERE id = ?)`, sessionID)
	if err != nil {
		return fmt.Errorf("check session existence: %w", err)
	}
	if found {
		return nil
	}

	first := pricing.NewBean(1)
	if _, err := tx.ExecContext(ctx, `INSERT INTO sessions (id, active_bean_id) VALUES (?, ?)`, sessionID, first.ID); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureGlobalSettings(ctx context.Context, tx *sqlx.Tx, sessionID string, stats *Stats) error {
	found, err := exists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM global_settings WHERE session_id = ?)`, sessionID)
	if err != nil {
		return fmt.Errorf("check global settings existence: %w", err)
	}
	if found {
		return nil
	}

	gs := pricing.DefaultGlobalSettings()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO global_settings (
			session_id,
			sales_unit_g,
			tax_rate,
			roast_loss_rate,
			handpick_loss_rate,
			utility_cost_per_roast,
			packaging_cost,
			is_taxable_entity
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sessionID, gs.SalesUnitG, gs.TaxRate, gs.RoastLossRate, gs.HandpickLossRate,
		gs.UtilityCostPerRoast, gs.PackagingCost, gs.IsTaxableEntity); err != nil {
		return fmt.Errorf("insert global settings: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureFeeSettings(ctx context.Context, tx *sqlx.Tx, sessionID string, stats *Stats) error {
	found, err := exists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM fee_settings WHERE session_id = ?)`, sessionID)
	if err != nil {
		return fmt.Errorf("check fee settings existence: %w", err)
	}
	if found {
		return nil
	}

	fs := pricing.DefaultFeeSettings()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO fee_settings (session_id, sale_type, platform_type, shipping_cost, payment_method, custom_fee_rate)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, fs.SaleType, fs.PlatformType, fs.ShippingCost, fs.PaymentMethod, fs.CustomFeeRate); err != nil {
		return fmt.Errorf("insert fee settings: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureBeans(ctx context.Context, tx *sqlx.Tx, sessionID string, stats *Stats) error {
	for i, bean := range pricing.DefaultBeans() {
		found, err := exists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM beans WHERE session_id = ? AND id = ?)`, sessionID, bean.ID)
		if err != nil {
			return fmt.Errorf("check bean %s existence: %w", bean.ID, err)
		}
		if found {
			continue
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO beans (
				session_id,
				id,
				position,
				name,
				purchase_price,
				purchase_weight_kg,
				price_input_mode,
				target_rate_retail,
				target_rate_wholesale
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, sessionID, bean.ID, i, bean.Name, bean.PurchasePrice, bean.PurchaseWeightKg,
			bean.PriceInputMode, bean.TargetRateRetail, bean.TargetRateWholesale); err != nil {
			return fmt.Errorf("insert bean %s: %w", bean.ID, err)
		}
		stats.Inserts++
	}
	return nil
}

// ensureRecipe inserts the sample blend. Its ingredients are only added
// together with the recipe so that removed ingredients stay removed.
func ensureRecipe(ctx context.Context, tx *sqlx.Tx, sessionID string, stats *Stats) error {
	found, err := exists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM blend_recipes WHERE session_id = ?)`, sessionID)
	if err != nil {
		return fmt.Errorf("check blend recipe existence: %w", err)
	}
	if found {
		return nil
	}

	recipe := pricing.DefaultRecipe()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO blend_recipes (session_id, id, name, total_batch_weight_kg, target_rate_retail, target_rate_wholesale)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, recipe.ID, recipe.Name, recipe.TotalBatchWeightKg, recipe.TargetRateRetail, recipe.TargetRateWholesale); err != nil {
		return fmt.Errorf("insert blend recipe: %w", err)
	}
	stats.Inserts++

	for i, ing := range recipe.Ingredients {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO blend_ingredients (session_id, id, position, name, price_per_kg, ratio)
			VALUES (?, ?, ?, ?, ?, ?)
		`, sessionID, ing.ID, i, ing.Name, ing.PricePerKg, ing.Ratio); err != nil {
			return fmt.Errorf("insert blend ingredient %s: %w", ing.ID, err)
		}
		stats.Inserts++
	}
	return nil
}
