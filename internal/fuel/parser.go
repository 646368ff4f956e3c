package fuel

import "strings"

// Column headers of the ANP survey export.
const (
	ColPeriodStart           = "DATA INICIAL"
	ColPeriodEnd             = "DATA FINAL"
	ColRegion                = "REGIÃO"
	ColState                 = "ESTADO"
	ColProduct               = "PRODUTO"
	ColStationCount          = "NÚMERO DE POSTOS PESQUISADOS"
	ColUnit                  = "UNIDADE DE MEDIDA"
	ColMeanResalePrice       = "PREÇO MÉDIO REVENDA"
	ColResaleStdDev          = "DESVIO PADRÃO REVENDA"
	ColMinResalePrice        = "PREÇO MÍNIMO REVENDA"
	ColMaxResalePrice        = "PREÇO MÁXIMO REVENDA"
	ColMeanResaleMargin      = "MARGEM MÉDIA REVENDA"
	ColResaleCoefVariation   = "COEF DE VARIAÇÃO REVENDA"
	ColMeanDistributionPrice = "PREÇO MÉDIO DISTRIBUIÇÃO"
	ColDistributionStdDev    = "DESVIO PADRÃO DISTRIBUIÇÃO"
	ColMinDistributionPrice  = "PREÇO MÍNIMO DISTRIBUIÇÃO"
	ColMaxDistributionPrice  = "PREÇO MÁXIMO DISTRIBUIÇÃO"
	ColDistributionCoefVar   = "COEF DE VARIAÇÃO DISTRIBUIÇÃO"
)

// RequiredColumns must be present in the header for a load to proceed.
var RequiredColumns = []string{ColProduct, ColMeanResalePrice, ColState, ColRegion, ColPeriodStart}

// RawRow maps column header to cell text for a single CSV row.
type RawRow map[string]string

// Parser turns raw rows into records using an injected catalog.
type Parser struct {
	catalog *Catalog
}

// NewParser creates a Parser. A nil catalog means DefaultCatalog.
func NewParser(catalog *Catalog) *Parser {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Parser{catalog: catalog}
}

// Catalog returns the catalog the parser validates against.
func (p *Parser) Catalog() *Catalog {
	return p.catalog
}

// ParseRow validates one row. It returns ok=false when the product is not in
// the catalog or the mean resale price is missing; otherwise every field is
// populated, with secondary numbers defaulting to 0 and bad dates left zero.
func (p *Parser) ParseRow(row RawRow) (Record, bool) {
	product := Product(strings.TrimSpace(row[ColProduct]))
	if !p.catalog.IsProduct(product) {
		return Record{}, false
	}

	price, ok := parseNumber(row[ColMeanResalePrice])
	if !ok {
		return Record{}, false
	}

	start, _ := ParseSurveyDate(row[ColPeriodStart])
	end, _ := ParseSurveyDate(row[ColPeriodEnd])
	state := NormalizeState(row[ColState])

	return Record{
		PeriodStart:   start,
		PeriodEnd:     end,
		Region:        Region(strings.TrimSpace(row[ColRegion])),
		State:         state,
		StateCode:     p.catalog.StateCode(state),
		Product:       product,
		StationCount:  parseCount(row[ColStationCount]),
		UnitOfMeasure: row[ColUnit],

		MeanResalePrice:       price,
		ResaleStdDev:          numberOrZero(row[ColResaleStdDev]),
		MinResalePrice:        numberOrZero(row[ColMinResalePrice]),
		MaxResalePrice:        numberOrZero(row[ColMaxResalePrice]),
		MeanResaleMargin:      numberOrZero(row[ColMeanResaleMargin]),
		ResaleCoefVariation:   numberOrZero(row[ColResaleCoefVariation]),
		MeanDistributionPrice: numberOrZero(row[ColMeanDistributionPrice]),
		DistributionStdDev:    numberOrZero(row[ColDistributionStdDev]),
		MinDistributionPrice:  numberOrZero(row[ColMinDistributionPrice]),
		MaxDistributionPrice:  numberOrZero(row[ColMaxDistributionPrice]),
		DistributionCoefVar:   numberOrZero(row[ColDistributionCoefVar]),
	}, true
}
