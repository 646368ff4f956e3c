package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nievasdev/brazilgas/internal/fuel"
	"github.com/nievasdev/brazilgas/internal/logger"
)

var (
	sampleStates = []fuel.StateAggregate{
		{State: "SAO PAULO", StateCode: "BR-SP", TotalStations: 120, AveragePrice: 2.5},
		{State: "ACRE", StateCode: "BR-AC", TotalStations: 7, AveragePrice: 3.125},
	}
	sampleMonthly = []fuel.MonthlyPoint{
		{Period: "2004-05", Prices: map[fuel.Product]float64{fuel.ProductGLP: 31.2, fuel.ProductGasolina: 2.05}},
		{Period: "2004-06", Prices: map[fuel.Product]float64{fuel.ProductGLP: 31.5}},
	}
	products = []fuel.Product{fuel.ProductGasolina, fuel.ProductGLP}
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" Parquet ")
	require.NoError(t, err)
	assert.Equal(t, FormatParquet, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestStatesCSV(t *testing.T) {
	out, err := EncodeStates(sampleStates, FormatCSV)
	require.NoError(t, err)

	want := "state,state_code,total_stations,average_price\n" +
		"SAO PAULO,BR-SP,120,2.5\n" +
		"ACRE,BR-AC,7,3.125\n"
	assert.Equal(t, want, string(out))
}

func TestMonthlyCSVLeavesAbsentProductsEmpty(t *testing.T) {
	out, err := EncodeMonthly(sampleMonthly, products, FormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "period,GASOLINA COMUM,GLP", lines[0])
	assert.Equal(t, "2004-05,2.05,31.2", lines[1])
	assert.Equal(t, "2004-06,,31.5", lines[2])
}

func TestParquetOutputHasMagic(t *testing.T) {
	for name, encode := range map[string]func() ([]byte, error){
		"states":  func() ([]byte, error) { return EncodeStates(sampleStates, FormatParquet) },
		"monthly": func() ([]byte, error) { return EncodeMonthly(sampleMonthly, products, FormatParquet) },
		"empty":   func() ([]byte, error) { return StatesParquet(nil) },
	} {
		t.Run(name, func(t *testing.T) {
			out, err := encode()
			require.NoError(t, err)
			require.Greater(t, len(out), 8)
			assert.True(t, bytes.HasPrefix(out, []byte("PAR1")))
			assert.True(t, bytes.HasSuffix(out, []byte("PAR1")))
		})
	}
}

type fakePut struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePut) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3UploaderKeyLayout(t *testing.T) {
	client := &fakePut{}
	u := NewS3Uploader(client, "fuel-exports", "exports", logger.Discard())
	u.now = func() time.Time { return time.Date(2024, 3, 7, 23, 0, 0, 0, time.UTC) }

	key, err := u.Upload(context.Background(), "states", FormatCSV, []byte("a,b\n"))
	require.NoError(t, err)

	assert.Regexp(t, `^exports/states/20240307-[0-9a-f-]{36}\.csv$`, key)
	assert.Equal(t, key, aws.ToString(client.input.Key))
	assert.Equal(t, "fuel-exports", aws.ToString(client.input.Bucket))
	assert.Equal(t, "text/csv; charset=utf-8", aws.ToString(client.input.ContentType))
	assert.Equal(t, []byte("a,b\n"), client.body)
}

func TestS3UploaderError(t *testing.T) {
	u := NewS3Uploader(&fakePut{err: errors.New("denied")}, "b", "p", logger.Discard())

	_, err := u.Upload(context.Background(), "monthly", FormatParquet, nil)
	assert.ErrorContains(t, err, "upload monthly export")
}
