package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fxtlabs/stockings/internal/config"
	"github.com/fxtlabs/stockings/internal/httpx"
	"github.com/fxtlabs/stockings/quote"
	"github.com/fxtlabs/stockings/yahoo"
)

// maxSymbols caps one batch request; the YQL statement travels in the URL,
// so unbounded batches would overflow it anyway.
const maxSymbols = 200

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := cfg.Logging.Build()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	client, err := newYahooClient(cfg, logger)
	if err != nil {
		logger.Fatal("yahoo client", zap.Error(err))
	}

	s := &server{
		client:  client,
		log:     logger,
		timeout: time.Duration(cfg.Server.RequestTimeoutSec) * time.Second,
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           s.router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

type server struct {
	client  *yahoo.Client
	log     *zap.Logger
	timeout time.Duration
}

func (s *server) router() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(s.log), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	v1 := r.Group("/v1")
	{
		v1.GET("/quotes", s.getQuotes)
		v1.GET("/quotes/:symbol", s.getQuote)
		v1.GET("/history/:symbol", s.getHistory)
		v1.GET("/fx/:pair", s.getFxRate)
		v1.GET("/suggest", s.suggest)
	}
	return r
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type quotesResponse struct {
	Quotes []*yahoo.StockQuote `json:"quotes"`
}

type historyResponse struct {
	Symbol string      `json:"symbol"`
	Bars   []yahoo.Bar `json:"bars"`
}

type suggestResponse struct {
	Suggestions []yahoo.Suggestion `json:"suggestions"`
}

func (s *server) getQuotes(c *gin.Context) {
	raw := c.Query("symbols")
	if strings.TrimSpace(raw) == "" {
		c.JSON(http.StatusBadRequest, errorResponse{"bad_request", "missing symbols query param"})
		return
	}
	symbols := splitCSV(raw)
	if len(symbols) > maxSymbols {
		c.JSON(http.StatusBadRequest, errorResponse{"bad_request", fmt.Sprintf("too many symbols (max %d)", maxSymbols)})
		return
	}

	ctx, cancel := s.requestCtx(c)
	defer cancel()
	quotes, err := s.client.Quotes(ctx, symbols)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, quotesResponse{Quotes: quotes})
}

func (s *server) getQuote(c *gin.Context) {
	ctx, cancel := s.requestCtx(c)
	defer cancel()
	q, err := s.client.Quote(ctx, c.Param("symbol"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (s *server) getHistory(c *gin.Context) {
	start, ok := quote.ParseDate(c.Query("start"))
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse{"bad_request", "missing or bad start date (want YYYY-MM-DD)"})
		return
	}
	end := quote.DateOf(time.Now())
	if v := c.Query("end"); v != "" {
		if end, ok = quote.ParseDate(v); !ok {
			c.JSON(http.StatusBadRequest, errorResponse{"bad_request", "bad end date (want YYYY-MM-DD)"})
			return
		}
	}

	symbol := c.Param("symbol")
	ctx, cancel := s.requestCtx(c)
	defer cancel()
	bars, err := s.client.History(ctx, symbol, start, end)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, historyResponse{Symbol: symbol, Bars: bars})
}

func (s *server) getFxRate(c *gin.Context) {
	ctx, cancel := s.requestCtx(c)
	defer cancel()
	rate, err := s.client.ExchangeRate(ctx, c.Param("pair"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

func (s *server) suggest(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, errorResponse{"bad_request", "missing q query param"})
		return
	}

	ctx, cancel := s.requestCtx(c)
	defer cancel()
	suggestions, err := s.client.SuggestSymbols(ctx, query)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestResponse{Suggestions: suggestions})
}

// fail maps an upstream error onto a response status. Unknown symbols are
// the caller's mistake; everything else is the upstream's.
func (s *server) fail(c *gin.Context, err error) {
	if errors.Is(err, yahoo.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{"not_found", err.Error()})
		return
	}
	s.log.Warn("upstream error", zap.Error(err))
	c.JSON(http.StatusBadGateway, errorResponse{"upstream_error", err.Error()})
}

func (s *server) requestCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.timeout)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
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
