package torus

import "github.com/montanaflynn/stats"

// Summary aggregates the cost and fitness distribution of a population.
type Summary struct {
	// The fitness distribution.
	MinFitness  float64
	MeanFitness float64
	P90Fitness  float64
	MaxFitness  float64

	// The summed ledger toll of all quines.
	TotalToll uint64

	// The mean simulated energy of all quines.
	MeanEnergy float64

	// The mean cache misses of all quines.
	MeanMisses float64
}

// Summary will compute aggregate statistics over the population.
func (e *Engine) Summary() Summary {
	// snapshot population
	quines := e.population.Snapshot()

	// collect samples
	fits := make([]float64, 0, len(quines))
	energies := make([]float64, 0, len(quines))
	misses := make([]float64, 0, len(quines))
	var toll uint64
	for i := range quines {
		fits = append(fits, fitness(&quines[i]))
		energies = append(energies, quines[i].Energy)
		misses = append(misses, float64(quines[i].CacheMisses))
		toll += quines[i].LedgerToll
	}

	// compute statistics
	min, _ := stats.Min(fits)
	mean, _ := stats.Mean(fits)
	p90, _ := stats.Percentile(fits, 90)
	max, _ := stats.Max(fits)
	meanEnergy, _ := stats.Mean(energies)
	meanMisses, _ := stats.Mean(misses)

	return Summary{
		MinFitness:  min,
		MeanFitness: mean,
		P90Fitness:  p90,
		MaxFitness:  max,
		TotalToll:   toll,
		MeanEnergy:  meanEnergy,
		MeanMisses:  meanMisses,
	}
}
