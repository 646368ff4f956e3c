package export

import (
	"bytes"
	"fmt"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/nievasdev/brazilgas/internal/fuel"
)

type stateRow struct {
	State         string  `parquet:"name=state, type=BYTE_ARRAY, convertedtype=UTF8"`
	StateCode     string  `parquet:"name=state_code, type=BYTE_ARRAY, convertedtype=UTF8"`
	TotalStations int64   `parquet:"name=total_stations, type=INT64"`
	AveragePrice  float64 `parquet:"name=average_price, type=DOUBLE"`
}

// monthlyRow is the long form of a monthly point: one row per product present.
type monthlyRow struct {
	Period       string  `parquet:"name=period, type=BYTE_ARRAY, convertedtype=UTF8"`
	Product      string  `parquet:"name=product, type=BYTE_ARRAY, convertedtype=UTF8"`
	AveragePrice float64 `parquet:"name=average_price, type=DOUBLE"`
}

type memFile struct {
	buffer *bytes.Buffer
}

func newMemFile() *memFile {
	return &memFile{buffer: &bytes.Buffer{}}
}

func (m *memFile) Create(string) (source.ParquetFile, error) { return m, nil }
func (m *memFile) Open(string) (source.ParquetFile, error)   { return m, nil }
func (m *memFile) Seek(int64, int) (int64, error)            { return int64(m.buffer.Len()), nil }
func (m *memFile) Read([]byte) (int, error)                  { return 0, fmt.Errorf("read not supported") }
func (m *memFile) Write(b []byte) (int, error)               { return m.buffer.Write(b) }
func (m *memFile) Close() error                              { return nil }

func writeParquet(schema interface{}, rows []interface{}) ([]byte, error) {
	mem := newMemFile()
	pw, err := writer.NewParquetWriter(mem, schema, 1)
	if err != nil {
		return nil, fmt.Errorf("new parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			pw.WriteStop()
			return nil, fmt.Errorf("write parquet row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("finalize parquet: %w", err)
	}
	return mem.buffer.Bytes(), nil
}

func StatesParquet(states []fuel.StateAggregate) ([]byte, error) {
	rows := make([]interface{}, 0, len(states))
	for _, s := range states {
		rows = append(rows, stateRow{
			State:         s.State,
			StateCode:     s.StateCode,
			TotalStations: int64(s.TotalStations),
			AveragePrice:  s.AveragePrice,
		})
	}
	return writeParquet(new(stateRow), rows)
}

func MonthlyParquet(points []fuel.MonthlyPoint, products []fuel.Product) ([]byte, error) {
	var rows []interface{}
	for _, pt := range points {
		for _, p := range products {
			v, ok := pt.Prices[p]
			if !ok {
				continue
			}
			rows = append(rows, monthlyRow{Period: pt.Period, Product: string(p), AveragePrice: v})
		}
	}
	return writeParquet(new(monthlyRow), rows)
}
