package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/Simplici0/roastcalc/internal/logger"
	"github.com/Simplici0/roastcalc/internal/pricing"
	"github.com/Simplici0/roastcalc/internal/report"
)

var errNoResult = errors.New("batch yields no sellable bags")

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeSingle(c *cli.Context, bean pricing.Bean, res *pricing.SimulationResult) error {
	results := []pricing.BeanResult{pricing.NewBeanResult(*res, bean.Name)}
	return report.WriteTable(c.App.Writer, results, pricing.Summarize([]pricing.Bean{bean}, results))
}

func runSimulate(c *cli.Context) error {
	gs, fs, err := settingsFromFlags(c)
	if err != nil {
		return err
	}
	bean, err := beanFromFlags(c)
	if err != nil {
		return err
	}

	res, ok := pricing.ComputeMetrics(bean, gs, fs)
	if !ok {
		return errNoResult
	}
	return writeSingle(c, bean, res)
}

func runBlend(c *cli.Context) error {
	gs, fs, err := settingsFromFlags(c)
	if err != nil {
		return err
	}

	var recipe pricing.BlendRecipe
	if err := readJSONFile(c.String("file"), &recipe); err != nil {
		return err
	}
	if err := pricing.ValidateRecipe(recipe); err != nil {
		return fmt.Errorf("invalid recipe: %w", err)
	}

	ratio := pricing.RatioTotal(recipe)
	if math.Abs(ratio-100) > 1e-9 {
		logger.Log.Warn().Float64("ratio_total", ratio).Msg("ingredient ratios do not add up to 100%")
	}
	_, err = fmt.Fprintf(c.App.Writer, "%s: ratio %s%%, average %s/kg, batch %s\n\n",
		recipe.Name,
		humanize.FormatFloat("#,###.#", ratio),
		report.Yen(int64(math.Round(pricing.AverageCostPerKg(recipe)))),
		report.Yen(int64(math.Round(pricing.BatchCost(recipe)))),
	)
	if err != nil {
		return fmt.Errorf("write blend summary: %w", err)
	}

	bean := pricing.ReduceRecipe(recipe)
	res, ok := pricing.ComputeMetrics(bean, gs, fs)
	if !ok {
		return errNoResult
	}
	return writeSingle(c, bean, res)
}

func runPortfolio(c *cli.Context) error {
	gs, fs, err := settingsFromFlags(c)
	if err != nil {
		return err
	}

	var beans []pricing.Bean
	if err := readJSONFile(c.String("file"), &beans); err != nil {
		return err
	}
	for i, b := range beans {
		if err := pricing.ValidateBean(b); err != nil {
			return fmt.Errorf("invalid bean %d (%s): %w", i, b.ID, err)
		}
	}
	logger.Log.Debug().Int("beans", len(beans)).Msg("simulating portfolio")

	results, err := pricing.SimulatePortfolio(c.Context, beans, gs, fs, c.Int("workers"))
	if err != nil {
		return fmt.Errorf("simulate portfolio: %w", err)
	}
	summary := pricing.Summarize(beans, results)

	if err := report.WriteTable(c.App.Writer, results, summary); err != nil {
		return err
	}

	path := c.String("xlsx")
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := report.WriteXLSX(f, results, summary); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	logger.Log.Info().Str("path", path).Int("rows", len(results)).Msg("workbook written")
	return nil
}

func runDiscount(c *cli.Context) error {
	gs, fs, err := settingsFromFlags(c)
	if err != nil {
		return err
	}
	bean, err := beanFromFlags(c)
	if err != nil {
		return err
	}
	bagG, discount := c.Float64("bag"), c.Float64("discount")
	if err := pricing.ValidateDiscount(bagG, discount); err != nil {
		return err
	}

	res, ok := pricing.ComputeMetrics(bean, gs, fs)
	if !ok {
		return errNoResult
	}
	return report.WriteDiscount(c.App.Writer,
		pricing.SimulateDiscount(*res, bean, gs, fs, bagG, discount),
		pricing.DiscountCurve(*res, gs, fs, bagG),
	)
}

func runFees(c *cli.Context) error {
	return report.WriteFeeSchedule(c.App.Writer, pricing.FeeSchedule(), c.Int64("price"), c.Float64("custom-fee"))
}
