package fuel

// DefaultGeoURL is the public GeoJSON with Brazilian state boundaries.
const DefaultGeoURL = "https://raw.githubusercontent.com/codeforamerica/click_that_hood/master/public/data/brazil-states.geojson"

// Catalog holds the fixed lookup tables of the survey. It is read-only after
// construction and safe for concurrent use.
type Catalog struct {
	products    []Product
	regions     []Region
	colors      map[Product]string
	productSet  map[Product]struct{}
	regionSet   map[Region]struct{}
	stateToCode map[string]string
	codeToState map[string]string
}

var defaultStates = map[string]string{
	"ACRE":                "BR-AC",
	"ALAGOAS":             "BR-AL",
	"AMAPA":               "BR-AP",
	"AMAZONAS":            "BR-AM",
	"BAHIA":               "BR-BA",
	"CEARA":               "BR-CE",
	"DISTRITO FEDERAL":    "BR-DF",
	"ESPIRITO SANTO":      "BR-ES",
	"GOIAS":               "BR-GO",
	"MARANHAO":            "BR-MA",
	"MATO GROSSO":         "BR-MT",
	"MATO GROSSO DO SUL":  "BR-MS",
	"MINAS GERAIS":        "BR-MG",
	"PARA":                "BR-PA",
	"PARAIBA":             "BR-PB",
	"PARANA":              "BR-PR",
	"PERNAMBUCO":          "BR-PE",
	"PIAUI":               "BR-PI",
	"RIO DE JANEIRO":      "BR-RJ",
	"RIO GRANDE DO NORTE": "BR-RN",
	"RIO GRANDE DO SUL":   "BR-RS",
	"RONDONIA":            "BR-RO",
	"RORAIMA":             "BR-RR",
	"SANTA CATARINA":      "BR-SC",
	"SAO PAULO":           "BR-SP",
	"SERGIPE":             "BR-SE",
	"TOCANTINS":           "BR-TO",
}

var defaultCatalog = NewCatalog(
	[]Product{ProductGasolina, ProductGLP, ProductDiesel, ProductDieselS10},
	[]Region{RegionCentroOeste, RegionNordeste, RegionNorte, RegionSudeste, RegionSul},
	map[Product]string{
		ProductGasolina:  "#ef4444",
		ProductGLP:       "#3b82f6",
		ProductDiesel:    "#22c55e",
		ProductDieselS10: "#f59e0b",
	},
	defaultStates,
)

// DefaultCatalog returns the catalog of the ANP fuel price survey.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// NewCatalog copies the given tables into a new Catalog. State names are
// expected in canonical form (see NormalizeState).
func NewCatalog(products []Product, regions []Region, colors map[Product]string, states map[string]string) *Catalog {
	c := &Catalog{
		products:    append([]Product(nil), products...),
		regions:     append([]Region(nil), regions...),
		colors:      make(map[Product]string, len(colors)),
		productSet:  make(map[Product]struct{}, len(products)),
		regionSet:   make(map[Region]struct{}, len(regions)),
		stateToCode: make(map[string]string, len(states)),
		codeToState: make(map[string]string, len(states)),
	}
	for _, p := range products {
		c.productSet[p] = struct{}{}
	}
	for _, r := range regions {
		c.regionSet[r] = struct{}{}
	}
	for p, col := range colors {
		c.colors[p] = col
	}
	for name, code := range states {
		c.stateToCode[name] = code
		c.codeToState[code] = name
	}
	return c
}

// Products returns the products in display order.
func (c *Catalog) Products() []Product {
	return append([]Product(nil), c.products...)
}

// Regions returns the regions in display order.
func (c *Catalog) Regions() []Region {
	return append([]Region(nil), c.regions...)
}

func (c *Catalog) IsProduct(p Product) bool {
	_, ok := c.productSet[p]
	return ok
}

func (c *Catalog) IsRegion(r Region) bool {
	_, ok := c.regionSet[r]
	return ok
}

// Color returns the chart color of a product, or a neutral fallback.
func (c *Catalog) Color(p Product) string {
	if col, ok := c.colors[p]; ok {
		return col
	}
	return "#8884d8"
}

// StateCode maps a canonical state name to its subdivision code. Unknown
// names are returned unchanged.
func (c *Catalog) StateCode(name string) string {
	code, _ := c.LookupStateCode(name)
	return code
}

// LookupStateCode is StateCode that also reports whether the name is mapped.
func (c *Catalog) LookupStateCode(name string) (string, bool) {
	if code, ok := c.stateToCode[name]; ok {
		return code, true
	}
	return name, false
}

// StateName maps a subdivision code back to the canonical state name.
func (c *Catalog) StateName(code string) (string, bool) {
	name, ok := c.codeToState[code]
	return name, ok
}

// States returns a copy of the name -> code table.
func (c *Catalog) States() map[string]string {
	out := make(map[string]string, len(c.stateToCode))
	for k, v := range c.stateToCode {
		out[k] = v
	}
	return out
}
