package main

import (
	"errors"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/Simplici0/roastcalc/internal/logger"
)

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Log.Warn().Err(err).Msg("could not load .env file")
	}

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("roastcalc failed")
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "roastcalc",
		Usage:     "Price roasted coffee from green bean costs",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Log = logger.New(os.Stderr, "console")
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "simulate",
				Usage:  "Price a single bean",
				Flags:  append(beanFlags(), settingsFlags()...),
				Action: runSimulate,
			},
			{
				Name:  "blend",
				Usage: "Price a blend recipe read from a JSON file",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "Recipe JSON file", Required: true},
				}, settingsFlags()...),
				Action: runBlend,
			},
			{
				Name:  "portfolio",
				Usage: "Price every bean in a JSON file",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "Beans JSON file (array)", Required: true},
					&cli.StringFlag{Name: "xlsx", Usage: "Also write the results to this workbook"},
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "Concurrent simulations",
						Value:   4,
						EnvVars: []string{"PORTFOLIO_WORKERS"},
					},
				}, settingsFlags()...),
				Action: runPortfolio,
			},
			{
				Name:  "discount",
				Usage: "Simulate a discounted larger bag",
				Flags: append(append(beanFlags(),
					&cli.Float64Flag{Name: "bag", Usage: "Bag size in grams (100-1000, steps of 100)", Value: 200},
					&cli.Float64Flag{Name: "discount", Usage: "Discount percentage (0-50)"},
				), settingsFlags()...),
				Action: runDiscount,
			},
			{
				Name:  "fees",
				Usage: "Show the fee schedule",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "price", Usage: "Show the fee charged on this price", Value: -1},
					&cli.Float64Flag{Name: "custom-fee", Usage: "Rate for CUSTOM rows, in percent", Value: 3.24},
				},
				Action: runFees,
			},
		},
	}
}
