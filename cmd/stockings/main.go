package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fxtlabs/stockings/internal/config"
	"github.com/fxtlabs/stockings/internal/httpx"
	"github.com/fxtlabs/stockings/quote"
	"github.com/fxtlabs/stockings/yahoo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds what every subcommand needs once the root flags are resolved.
type app struct {
	cfg    config.Config
	log    *zap.Logger
	client *yahoo.Client
	out    io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{out: os.Stdout}
	var (
		cfgPath  string
		logLevel string
	)

	root := &cobra.Command{
		Use:           "stockings",
		Short:         "Look up quotes, price history, and company metadata",
		Long:          "stockings looks up current quotes, historical prices, exchange rates,\ncompany and industry metadata, and ticker suggestions from the Yahoo\nFinance web services. Results are printed as JSON.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			log, err := cfg.Logging.Build()
			if err != nil {
				return err
			}
			client, err := newYahooClient(cfg, log)
			if err != nil {
				return err
			}
			a.cfg, a.log, a.client = cfg, log, client
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newQuoteCmd(a),
		newHistoryCmd(a),
		newFxCmd(a),
		newCompanyCmd(a),
		newSectorsCmd(a),
		newIndustryCmd(a),
		newSuggestCmd(a),
		newFieldsCmd(a),
		newExchangesCmd(a),
	)
	return root
}

func newQuoteCmd(a *app) *cobra.Command {
	var (
		raw    bool
		csv    bool
		fields []string
	)
	cmd := &cobra.Command{
		Use:   "quote SYMBOL...",
		Short: "Fetch current quotes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			switch {
			case csv:
				recs, err := a.client.QuotesCSV(ctx, args)
				if err != nil {
					return err
				}
				return a.print(recs)
			case raw:
				recs, err := a.client.RawQuotes(ctx, args)
				if err != nil {
					return err
				}
				return a.print(recs)
			case len(fields) > 0:
				entries := make([]quote.ProjectionEntry[string], 0, len(fields))
				for _, f := range fields {
					entries = append(entries, quote.Bind(f, f))
				}
				p, err := quote.NewProjection(quote.Fields, entries...)
				if err != nil {
					return err
				}
				recs, err := yahoo.CustomQuotes(ctx, a.client, p, args)
				if err != nil {
					return err
				}
				return a.print(recs)
			default:
				quotes, err := a.client.Quotes(ctx, args)
				if err != nil {
					return err
				}
				return a.print(quotes)
			}
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print raw records without coercion")
	cmd.Flags().BoolVar(&csv, "csv", false, "fetch from the legacy CSV endpoint instead of YQL")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "project the named raw fields instead of the default view")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var (
		startFlag string
		endFlag   string
	)
	cmd := &cobra.Command{
		Use:   "history SYMBOL...",
		Short: "Fetch daily price history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateFlag(startFlag)
			if err != nil {
				return err
			}
			end := quote.DateOf(time.Now())
			if endFlag != "" {
				if end, err = parseDateFlag(endFlag); err != nil {
					return err
				}
			}

			if len(args) == 1 {
				bars, err := a.client.History(cmd.Context(), args[0], start, end)
				if err != nil {
					return err
				}
				return a.print(bars)
			}

			all, err := a.client.Histories(cmd.Context(), args, start, end)
			if err != nil {
				return err
			}
			type series struct {
				Symbol string      `json:"symbol"`
				Bars   []yahoo.Bar `json:"bars"`
			}
			out := make([]series, len(args))
			for i, symbol := range args {
				out[i] = series{Symbol: symbol, Bars: all[i]}
			}
			return a.print(out)
		},
	}
	cmd.Flags().StringVar(&startFlag, "start", "", "first day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endFlag, "end", "", "last day of the range, default today (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newFxCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fx PAIR...",
		Short: "Fetch currency exchange rates for pairs like USDEUR",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				rate, err := a.client.ExchangeRate(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.print(rate)
			}
			rates, err := a.client.ExchangeRates(cmd.Context(), args)
			if err != nil {
				return err
			}
			return a.print(rates)
		},
	}
}

func newCompanyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "company SYMBOL",
		Short: "Fetch company metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.client.CompanyInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(info)
		},
	}
}

func newSectorsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sectors",
		Short: "List sectors and their industries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sectors, err := a.client.Sectors(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(sectors)
		},
	}
}

func newIndustryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "industry ID...",
		Short: "Fetch industries with their member companies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				industry, err := a.client.Industry(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.print(industry)
			}
			industries, err := a.client.Industries(cmd.Context(), args)
			if err != nil {
				return err
			}
			return a.print(industries)
		},
	}
}

func newSuggestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest QUERY",
		Short: "Suggest ticker symbols for a company name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suggestions, err := a.client.SuggestSymbols(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.print(suggestions)
		},
	}
}

func newFieldsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the raw quote fields the registry understands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			type field struct {
				Name string `json:"name"`
				Kind string `json:"kind"`
			}
			names := quote.Fields.Names()
			out := make([]field, 0, len(names))
			for _, name := range names {
				kind, _ := quote.Fields.Kind(name)
				out = append(out, field{Name: name, Kind: kind.String()})
			}
			return a.print(out)
		},
	}
}

func newExchangesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exchanges",
		Short: "List the stock exchanges reachable through symbol suffixes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.print(yahoo.Exchanges())
		},
	}
}

func (a *app) print(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(b))
	return nil
}

func parseDateFlag(value string) (quote.Date, error) {
	d, ok := quote.ParseDate(value)
	if !ok {
		return quote.Date{}, fmt.Errorf("bad date %q (want YYYY-MM-DD)", value)
	}
	return d, nil
}

// newYahooClient wires the configured endpoints and politeness settings into
// a client backed by the shared HTTP transport.
func newYahooClient(cfg config.Config, log *zap.Logger) (*yahoo.Client, error) {
	hc := httpx.New(time.Duration(cfg.Yahoo.TimeoutSec) * time.Second)
	hc.Log = log

	opts := []yahoo.ClientOption{
		yahoo.WithHTTPClient(hc),
		yahoo.WithMaxConcurrency(cfg.Yahoo.MaxConcurrency),
	}
	if cfg.Yahoo.YQLBaseURL != "" {
		opts = append(opts, yahoo.WithYQLBaseURL(cfg.Yahoo.YQLBaseURL))
	}
	if cfg.Yahoo.CSVBaseURL != "" {
		opts = append(opts, yahoo.WithCSVBaseURL(cfg.Yahoo.CSVBaseURL))
	}
	if cfg.Yahoo.ChartBaseURL != "" {
		opts = append(opts, yahoo.WithChartBaseURL(cfg.Yahoo.ChartBaseURL))
	}
	if cfg.Yahoo.SuggestBaseURL != "" {
		opts = append(opts, yahoo.WithSuggestBaseURL(cfg.Yahoo.SuggestBaseURL))
	}
	if cfg.Yahoo.MinIntervalMS > 0 {
		opts = append(opts, yahoo.WithMinInterval(time.Duration(cfg.Yahoo.MinIntervalMS)*time.Millisecond))
	}
	return yahoo.New(opts...)
}
