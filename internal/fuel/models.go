package fuel

import (
	"encoding/json"
	"time"
)

// All matches every value of a filter dimension.
const All = "all"

// Product is one of the surveyed fuel products, e.g. "GLP".
type Product string

// Region is a Brazilian macro-region as written in the survey, e.g. "SUL".
type Region string

const (
	ProductGasolina  Product = "GASOLINA COMUM"
	ProductGLP       Product = "GLP"
	ProductDiesel    Product = "ÓLEO DIESEL"
	ProductDieselS10 Product = "ÓLEO DIESEL S10"
)

const (
	RegionCentroOeste Region = "CENTRO OESTE"
	RegionNordeste    Region = "NORDESTE"
	RegionNorte       Region = "NORTE"
	RegionSudeste     Region = "SUDESTE"
	RegionSul         Region = "SUL"
)

// MissingValue is the upstream placeholder for "no data" in numeric columns.
const MissingValue = -99999

// Record is one validated survey row.
type Record struct {
	// PeriodStart and PeriodEnd are zero when the source date could not be parsed.
	PeriodStart   time.Time `json:"periodStart"`
	PeriodEnd     time.Time `json:"periodEnd"`
	Region        Region    `json:"region"`
	State         string    `json:"state"`
	StateCode     string    `json:"stateCode"`
	Product       Product   `json:"product"`
	StationCount  int       `json:"stationCount"`
	UnitOfMeasure string    `json:"unitOfMeasure"`

	MeanResalePrice       float64 `json:"meanResalePrice"`
	ResaleStdDev          float64 `json:"resaleStdDev"`
	MinResalePrice        float64 `json:"minResalePrice"`
	MaxResalePrice        float64 `json:"maxResalePrice"`
	MeanResaleMargin      float64 `json:"meanResaleMargin"`
	ResaleCoefVariation   float64 `json:"resaleCoefVariation"`
	MeanDistributionPrice float64 `json:"meanDistributionPrice"`
	DistributionStdDev    float64 `json:"distributionStdDev"`
	MinDistributionPrice  float64 `json:"minDistributionPrice"`
	MaxDistributionPrice  float64 `json:"maxDistributionPrice"`
	DistributionCoefVar   float64 `json:"distributionCoefVariation"`
}

// Dated reports whether the survey window start was parsed.
func (r Record) Dated() bool {
	return !r.PeriodStart.IsZero()
}

// StateAggregate is the per-state view used by the choropleth map.
type StateAggregate struct {
	State         string  `json:"state"`
	StateCode     string  `json:"stateCode"`
	TotalStations int     `json:"totalStations"`
	AveragePrice  float64 `json:"averagePrice"`
}

// MonthlyPoint holds mean resale prices per product for one YYYY-MM period.
// Products without records in the period are absent from Prices.
type MonthlyPoint struct {
	Period string
	Prices map[Product]float64
}

// MarshalJSON flattens the point into {"period": "2004-05", "GLP": 1.234, ...}.
func (p MonthlyPoint) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(p.Prices)+1)
	out["period"] = p.Period
	for prod, v := range p.Prices {
		out[string(prod)] = v
	}
	return json.Marshal(out)
}

// SummaryStats backs the dashboard headline cards.
type SummaryStats struct {
	TotalStations          int     `json:"totalStations"`
	HistoricalAveragePrice float64 `json:"historicalAveragePrice"`
	RecentAveragePrice     float64 `json:"recentAveragePrice"`
	PercentVariation       float64 `json:"percentVariation"`
}

// Dashboard bundles the three views computed for one filter.
type Dashboard struct {
	Filter  Filter           `json:"filter"`
	States  []StateAggregate `json:"states"`
	Monthly []MonthlyPoint   `json:"monthly"`
	Stats   SummaryStats     `json:"stats"`
	Records int              `json:"records"`
}

// LoadStats describes what happened to the rows of one load.
type LoadStats struct {
	Rows     int `json:"rows"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	// Undated counts accepted records whose period start failed to parse.
	Undated        int      `json:"undated"`
	UnmappedStates []string `json:"unmappedStates,omitempty"`
}

// Dataset is an immutable, fully validated load of the survey file.
type Dataset struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loadedAt"`
	Stats    LoadStats `json:"stats"`
	Records  []Record  `json:"-"`
}

// LoadSummary is the history entry kept for each successful load.
type LoadSummary struct {
	ID       string        `json:"id"`
	Source   string        `json:"source"`
	LoadedAt time.Time     `json:"loadedAt"`
	Duration time.Duration `json:"durationNs"`
	Stats    LoadStats     `json:"stats"`
}

// Boundary pairs a GeoJSON feature name with its canonical join key.
type Boundary struct {
	FeatureName string `json:"featureName"`
	Key         string `json:"key"`
	Code        string `json:"code"`
	Mapped      bool   `json:"mapped"`
}
