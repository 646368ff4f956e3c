package fuel

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type priceAccumulator struct {
	sum   float64
	count int
}

func (a *priceAccumulator) add(v float64) {
	a.sum += v
	a.count++
}

func (a priceAccumulator) mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

// AggregateByState groups the filtered records by canonical state name,
// summing stations and averaging the mean resale price. Rows come out in the
// order states are first seen.
func AggregateByState(records []Record, f Filter) []StateAggregate {
	type stateAcc struct {
		code     string
		stations int
		price    priceAccumulator
	}

	index := make(map[string]int)
	var order []string
	var accs []*stateAcc

	for _, r := range records {
		if !f.Match(r) {
			continue
		}
		i, ok := index[r.State]
		if !ok {
			i = len(accs)
			index[r.State] = i
			order = append(order, r.State)
			accs = append(accs, &stateAcc{code: r.StateCode})
		}
		accs[i].stations += r.StationCount
		accs[i].price.add(r.MeanResalePrice)
	}

	out := make([]StateAggregate, 0, len(accs))
	for i, state := range order {
		out = append(out, StateAggregate{
			State:         state,
			StateCode:     accs[i].code,
			TotalStations: accs[i].stations,
			AveragePrice:  accs[i].price.mean(),
		})
	}
	return out
}

// AggregateByMonth averages the mean resale price per product for every
// YYYY-MM period of the records in the given region. Undated records are
// skipped. Points are sorted by period and means rounded to 3 decimals.
func AggregateByMonth(records []Record, region Region) []MonthlyPoint {
	f := Filter{Region: region}
	months := make(map[string]map[Product]*priceAccumulator)

	for _, r := range records {
		if !r.Dated() || !f.Match(r) {
			continue
		}
		key := r.PeriodStart.Format("2006-01")
		byProduct, ok := months[key]
		if !ok {
			byProduct = make(map[Product]*priceAccumulator)
			months[key] = byProduct
		}
		acc, ok := byProduct[r.Product]
		if !ok {
			acc = &priceAccumulator{}
			byProduct[r.Product] = acc
		}
		acc.add(r.MeanResalePrice)
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	// Keys are fixed-width and zero padded, so lexical order is chronological.
	sort.Strings(keys)

	out := make([]MonthlyPoint, 0, len(keys))
	for _, k := range keys {
		prices := make(map[Product]float64, len(months[k]))
		for prod, acc := range months[k] {
			prices[prod] = round3(acc.mean())
		}
		out = append(out, MonthlyPoint{Period: k, Prices: prices})
	}
	return out
}

// CalculateStats computes the headline numbers for the records of a product.
// The recent window is the newest 10% of records by period start and the
// prior window the following 10%.
func CalculateStats(records []Record, product Product) SummaryStats {
	filtered := FilterRecords(records, Filter{Product: product})

	var stats SummaryStats
	var all priceAccumulator
	for _, r := range filtered {
		stats.TotalStations += r.StationCount
		all.add(r.MeanResalePrice)
	}
	stats.HistoricalAveragePrice = finiteOrZero(all.mean())

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].PeriodStart.After(filtered[j].PeriodStart)
	})

	n := len(filtered)
	recentEnd := n / 10
	priorEnd := n / 5

	recent := meanPrice(filtered[:recentEnd])
	prior := meanPrice(filtered[recentEnd:priorEnd])

	stats.RecentAveragePrice = finiteOrZero(recent)
	// An empty recent window has no mean to compare.
	if recentEnd > 0 && prior > 0 {
		stats.PercentVariation = finiteOrZero((recent - prior) / prior * 100)
	}
	return stats
}

// DateRange returns the earliest and latest period start among dated records.
func DateRange(records []Record) (min, max time.Time, ok bool) {
	for _, r := range records {
		if !r.Dated() {
			continue
		}
		if !ok || r.PeriodStart.Before(min) {
			min = r.PeriodStart
		}
		if !ok || r.PeriodStart.After(max) {
			max = r.PeriodStart
		}
		ok = true
	}
	return min, max, ok
}

func meanPrice(records []Record) float64 {
	var acc priceAccumulator
	for _, r := range records {
		acc.add(r.MeanResalePrice)
	}
	return acc.mean()
}

// round3 rounds half away from zero on the shortest decimal form of v, so
// 1.0005 becomes 1.001 even though its binary value sits just below.
func round3(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(3).InexactFloat64()
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
