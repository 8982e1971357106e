// Package main runs a manual sensitivity sweep over model parameters:
// every parameter combination is simulated for a fixed number of steps
// across several seeded replicates, per-run results go to CSV, and
// per-parameter means are logged.
package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/agrosim/biogas/config"
	"github.com/agrosim/biogas/sim"
	"github.com/agrosim/biogas/telemetry"
)

// Swept parameter values. Edit these lists to try other sensitivities.
var (
	payments        = []float64{25, 50, 100, 200}
	maxWillingness  = []float64{0.5, 0.7, 0.9}
	innovatorShares = []float64{0, 0.05, 0.1, 0.2}
)

type result struct {
	payment        float64
	maxWillingness float64
	innovatorShare float64
	run            int
	finalAdopters  int
	nPlants        int
	totalMoney     float64
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxSteps := flag.Int("max-steps", 80, "Steps per run")
	iterations := flag.Int("iterations", 5, "Replicates per parameter combination")
	outPath := flag.String("output", "sweep.csv", "Output CSV file")
	flag.Parse()

	base, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("failed to create output file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	w.Write([]string{
		"biogas_payment", "max_willingness", "innovator_share", "run",
		"final_adopters", "n_plants", "total_money",
	})

	var results []result
	for _, payment := range payments {
		for _, maxWill := range maxWillingness {
			for _, share := range innovatorShares {
				for run := 0; run < *iterations; run++ {
					cfg := *base
					cfg.BiogasPayment = payment
					cfg.Willingness.Max = maxWill
					cfg.Population.InnovatorShare = share
					cfg.Seed = int64(run*1000 + 42)

					rec, err := runOne(&cfg, *maxSteps)
					if err != nil {
						log.Fatalf("run failed (payment=%g max_willingness=%g innovator_share=%g): %v",
							payment, maxWill, share, err)
					}

					r := result{
						payment:        payment,
						maxWillingness: maxWill,
						innovatorShare: share,
						run:            run,
						finalAdopters:  rec.NAdopters,
						nPlants:        rec.NPlants,
						totalMoney:     rec.TotalMoney,
					}
					results = append(results, r)

					w.Write([]string{
						formatFloat(payment), formatFloat(maxWill), formatFloat(share),
						strconv.Itoa(run), strconv.Itoa(r.finalAdopters),
						strconv.Itoa(r.nPlants), formatFloat(r.totalMoney),
					})
				}
			}
		}
	}

	log.Printf("wrote %d runs to %s", len(results), *outPath)
	logGroupMeans(results, "biogas_payment", func(r result) float64 { return r.payment })
	logGroupMeans(results, "max_willingness", func(r result) float64 { return r.maxWillingness })
	logGroupMeans(results, "innovator_share", func(r result) float64 { return r.innovatorShare })
}

// runOne simulates one configuration and returns the final model record.
func runOne(cfg *config.Config, steps int) (telemetry.ModelRecord, error) {
	m, err := sim.New(cfg)
	if err != nil {
		return telemetry.ModelRecord{}, err
	}

	var rec telemetry.ModelRecord
	for i := 0; i < steps; i++ {
		rec = m.Step()
	}
	return rec, nil
}

// logGroupMeans logs the mean final adopter count per value of one swept
// parameter.
func logGroupMeans(results []result, name string, key func(result) float64) {
	groups := make(map[float64][]float64)
	for _, r := range results {
		k := key(r)
		groups[k] = append(groups[k], float64(r.finalAdopters))
	}

	keys := make([]float64, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	for _, k := range keys {
		log.Printf("sensitivity %s=%g: mean final adopters %.2f over %d runs",
			name, k, stat.Mean(groups[k], nil), len(groups[k]))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
