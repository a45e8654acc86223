package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fxtlabs/stockings/internal/config"
	"github.com/fxtlabs/stockings/internal/httpx"
	"github.com/fxtlabs/stockings/yahoo"
)

func main() {
	var (
		symbolsFile string
		outPath     string
		cfgPath     string
		batchSize   int
		concurrency int
		timeoutSec  int
	)
	flag.StringVar(&symbolsFile, "symbols-file", "symbols.txt", "text file with one symbol per line")
	flag.StringVar(&outPath, "out", "quotes.json", "output JSON file path")
	flag.StringVar(&cfgPath, "config", "", "path to a config file (optional)")
	flag.IntVar(&batchSize, "batch", 50, "symbols per quotes request")
	flag.IntVar(&concurrency, "concurrency", 4, "number of parallel requests")
	flag.IntVar(&timeoutSec, "timeout", 20, "HTTP timeout seconds")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	symbols, err := readSymbols(symbolsFile)
	if err != nil {
		log.Fatalf("read symbols: %v", err)
	}
	if len(symbols) == 0 {
		log.Fatal("no symbols found in symbols-file")
	}
	log.Printf("symbols: %d", len(symbols))

	client, err := newYahooClient(cfg, timeoutSec)
	if err != nil {
		log.Fatalf("yahoo client: %v", err)
	}

	// Prepare output writer (streaming)
	outFile, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("create out: %v", err)
	}
	defer outFile.Close()
	bw := bufio.NewWriterSize(outFile, 1<<20)

	_, _ = bw.WriteString("{\"quotes\":[")
	first := true
	var writeMu sync.Mutex
	written := 0

	// Worker pool. Sentinel records for unknown symbols ride along: the dump
	// is the raw table contents, filtering is the consumer's business.
	type job struct {
		idx   int
		batch []string
	}
	jobs := make(chan job, concurrency*2)
	wg := sync.WaitGroup{}

	worker := func() {
		defer wg.Done()
		for j := range jobs {
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
			recs, err := client.RawQuotes(ctx, j.batch)
			cancel()
			if err != nil {
				log.Printf("batch %d error: %v", j.idx, err)
				continue
			}
			writeMu.Lock()
			for _, rec := range recs {
				b, err := json.Marshal(rec)
				if err != nil {
					log.Printf("batch %d marshal: %v", j.idx, err)
					continue
				}
				if !first {
					_, _ = bw.WriteString(",")
				} else {
					first = false
				}
				_, _ = bw.Write(b)
				written++
			}
			writeMu.Unlock()
		}
	}

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go worker()
	}

	// enqueue jobs
	count := 0
	for i := 0; i < len(symbols); i += batchSize {
		end := i + batchSize
		if end > len(symbols) {
			end = len(symbols)
		}
		b := make([]string, end-i)
		copy(b, symbols[i:end])
		jobs <- job{idx: count, batch: b}
		count++
	}
	close(jobs)
	wg.Wait()

	_, _ = bw.WriteString("]}")
	if err := bw.Flush(); err != nil {
		log.Fatalf("flush: %v", err)
	}
	log.Printf("done: wrote %d records to %s", written, outPath)
}

// readSymbols loads one symbol per line, skipping blanks, comments, and
// duplicates while keeping file order.
func readSymbols(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seen := make(map[string]bool)
	var symbols []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		symbols = append(symbols, line)
	}
	return symbols, sc.Err()
}

// newYahooClient wires the configured endpoints and politeness settings into
// a client backed by the shared HTTP transport. The timeout flag wins over
// the configured one so a slow bulk run can be tuned per invocation.
func newYahooClient(cfg config.Config, timeoutSec int) (*yahoo.Client, error) {
	hc := httpx.New(time.Duration(timeoutSec) * time.Second)

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
