// Command bench builds a synthetic RowGroup and times read_filter and
// read_group against it, the in-memory analogue of cmd/benchmark's
// database-seeding benchmark in the original module.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/lychee-technology/rowgroup"
)

type options struct {
	rows    int
	regions int
	methods int
	seed    int64
	ceiling int64
}

func main() {
	log.SetFlags(0)
	opts := parseFlags()

	group := buildSyntheticRowGroup(opts)
	log.Printf("[info] built row group: rows=%d size=%d bytes", group.Rows(), group.Size())

	start := time.Now()
	filtered := group.ReadFilter([]string{"time", "region", "method", "counter"}, nil)
	log.Printf("[info] read_filter(all rows): %d columns in %s", len(filtered.Columns), time.Since(start))

	start = time.Now()
	result, err := group.ReadGroup([]string{"region", "method"}, []rowgroup.Aggregate{
		{Column: "counter", Kind: rowgroup.AggregateSum},
		{Column: "counter", Kind: rowgroup.AggregateCount},
	}, nil)
	if err != nil {
		log.Fatalf("read_group failed: %v", err)
	}
	log.Printf("[info] read_group(region,method): %d groups in %s", len(result.Rows), time.Since(start))
	fmt.Print(result.Render())
}

func parseFlags() options {
	var opts options
	flag.IntVar(&opts.rows, "rows", getenvDefaultInt("BENCH_ROWS", 1_000_000), "number of synthetic rows to generate")
	flag.IntVar(&opts.regions, "regions", getenvDefaultInt("BENCH_REGIONS", 8), "distinct region tag values")
	flag.IntVar(&opts.methods, "methods", getenvDefaultInt("BENCH_METHODS", 4), "distinct method tag values")
	flag.Int64Var(&opts.ceiling, "all-rle-ceiling", int64(getenvDefaultInt("BENCH_ALL_RLE_CEILING", 1_000_000)), "AllRLECardinalityCeiling override")
	seed := flag.Int64("seed", 0, "random seed (0 uses current time)")
	flag.Parse()

	if *seed == 0 {
		opts.seed = time.Now().UnixNano()
	} else {
		opts.seed = *seed
	}
	if opts.rows <= 0 {
		log.Fatal("rows must be positive")
	}
	return opts
}

func buildSyntheticRowGroup(opts options) *rowgroup.RowGroup {
	random := rand.New(rand.NewSource(opts.seed))

	regionNames := make([]string, opts.regions)
	for i := range regionNames {
		regionNames[i] = fmt.Sprintf("region-%d", i)
	}
	methodNames := make([]string, opts.methods)
	for i := range methodNames {
		methodNames[i] = fmt.Sprintf("method-%d", i)
	}

	times := make([]int64, opts.rows)
	regions := make([]*string, opts.rows)
	methods := make([]*string, opts.rows)
	counters := make([]*float64, opts.rows)

	for i := 0; i < opts.rows; i++ {
		times[i] = int64(i)
		r := regionNames[random.Intn(len(regionNames))]
		regions[i] = &r
		m := methodNames[random.Intn(len(methodNames))]
		methods[i] = &m
		c := float64(random.Intn(1000))
		counters[i] = &c
	}

	cfg := rowgroup.DefaultEngineConfig()
	cfg.GroupBy.AllRLECardinalityCeiling = opts.ceiling

	columns := map[string]rowgroup.ColumnDef{
		"time":    {Role: rowgroup.ColumnRoleTime, Column: rowgroup.NewTimeColumn(times)},
		"region":  {Role: rowgroup.ColumnRoleTag, Column: rowgroup.NewTagColumn(regions)},
		"method":  {Role: rowgroup.ColumnRoleTag, Column: rowgroup.NewTagColumn(methods)},
		"counter": {Role: rowgroup.ColumnRoleField, Column: rowgroup.NewFloatFieldColumn(counters)},
	}
	return rowgroup.New(opts.rows, columns, cfg)
}

func getenvDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
