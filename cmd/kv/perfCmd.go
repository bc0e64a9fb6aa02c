package kv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tkvdb/tkv/cmd/util"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for tkv stores",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfKeySpread        = 100
	perfSkip             = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("How large the value for the set-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = viper.GetInt("keys")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

// perfResult pairs the benchmark harness output with the latency histogram
// sampled during the run.
type perfResult struct {
	bench testing.BenchmarkResult
	timer gometrics.Timer
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for tkv stores")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("  Backing: %+v\n", util.GetStoreOptions())
	fmt.Printf("  Keys: %d\n", perfKeySpread)
	fmt.Println()

	fmt.Println("starting tests...")

	view := localStore.Strings()
	results := make(map[string]perfResult)

	runOne := func(name string, prepare func(), op func(counter int) error) {
		if shouldSkip(name) {
			return
		}

		timer := gometrics.NewTimer()
		if prepare != nil {
			prepare()
		}

		bench := testing.Benchmark(func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				start := time.Now()
				if err := op(i); err != nil {
					b.Fatalf("(%s) - operation failed: %v", name, err)
				}
				timer.UpdateSince(start)
			}
		})

		// cleanup between benchmarks so each starts from a known state
		if err := view.Clear(); err != nil {
			fmt.Printf("(%s) - error clearing store: %v\n", name, err)
		}

		results[name] = perfResult{bench: bench, timer: timer}
		printResult(name, results[name])
	}

	seed := func() {
		for i := 0; i < perfKeySpread; i++ {
			if err := view.Set(testKey(i), "test"); err != nil {
				fmt.Printf("error seeding key: %v\n", err)
			}
		}
	}

	runOne("set", nil, func(i int) error {
		return view.Set(testKey(i), "test")
	})

	largeValue := strings.Repeat("x", perfLargeValueSizeKB*1024)
	runOne("set-large", nil, func(i int) error {
		return view.Set(testKey(i), largeValue)
	})

	runOne("get", seed, func(i int) error {
		_, _, err := view.Get(testKey(i))
		return err
	})

	runOne("has", seed, func(i int) error {
		_, err := view.Has(testKey(i))
		return err
	})

	runOne("has-not", nil, func(i int) error {
		_, err := view.Has(fmt.Sprintf("%s/has-not-%d", perfKeyPrefix, i%perfKeySpread))
		return err
	})

	runOne("delete", seed, func(i int) error {
		return view.Delete(testKey(i))
	})

	runOne("json-set", nil, func(i int) error {
		return localStore.JSON().Set(testKey(i), map[string]any{"n": i})
	})

	runOne("mixed", seed, func(i int) error {
		key := testKey(i)
		switch i % 4 {
		case 0:
			return view.Set(key, "test")
		case 1:
			_, _, err := view.Get(key)
			return err
		case 2:
			return view.Delete(key)
		default:
			_, err := view.Has(key)
			return err
		}
	})

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// testKey maps a counter to one of perfKeySpread keys
func testKey(counter int) string {
	return fmt.Sprintf("%s/key-%d", perfKeyPrefix, counter%perfKeySpread)
}

func printResult(name string, result perfResult) {
	snapshot := result.timer.Snapshot()
	fmt.Printf("%-10s %12d ops %12.0f ns/op  p95=%.0fns p99=%.0fns\n",
		name,
		result.bench.N,
		float64(result.bench.T.Nanoseconds())/float64(result.bench.N),
		snapshot.Percentile(0.95),
		snapshot.Percentile(0.99),
	)
}

func writeResultsToCSV(path string, results map[string]perfResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"benchmark", "ops", "ns_per_op", "p95_ns", "p99_ns"}); err != nil {
		return err
	}

	for name, result := range results {
		snapshot := result.timer.Snapshot()
		record := []string{
			name,
			strconv.Itoa(result.bench.N),
			strconv.FormatFloat(float64(result.bench.T.Nanoseconds())/float64(result.bench.N), 'f', 0, 64),
			strconv.FormatFloat(snapshot.Percentile(0.95), 'f', 0, 64),
			strconv.FormatFloat(snapshot.Percentile(0.99), 'f', 0, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}
