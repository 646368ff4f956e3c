package fuel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, []Product{ProductGasolina, ProductGLP, ProductDiesel, ProductDieselS10}, c.Products())
	assert.Len(t, c.Regions(), 5)
	assert.Len(t, c.States(), 27)

	assert.True(t, c.IsProduct(ProductDieselS10))
	assert.False(t, c.IsProduct("ETANOL HIDRATADO"))
	assert.True(t, c.IsRegion(RegionCentroOeste))
	assert.False(t, c.IsRegion("CENTRO-OESTE"))

	assert.Equal(t, "#ef4444", c.Color(ProductGasolina))
	assert.Equal(t, "#8884d8", c.Color("QUEROSENE"))
}

func TestCatalogStateLookupsRoundTrip(t *testing.T) {
	c := DefaultCatalog()

	for name, code := range c.States() {
		got, ok := c.StateName(code)
		assert.True(t, ok, code)
		assert.Equal(t, name, got)
		assert.Equal(t, code, c.StateCode(name))
	}

	code, ok := c.LookupStateCode("ATLANTIS")
	assert.False(t, ok)
	assert.Equal(t, "ATLANTIS", code)

	_, ok = c.StateName("BR-XX")
	assert.False(t, ok)
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	c := DefaultCatalog()

	products := c.Products()
	products[0] = "X"
	states := c.States()
	delete(states, "ACRE")

	assert.Equal(t, ProductGasolina, c.Products()[0])
	assert.Equal(t, "BR-AC", c.StateCode("ACRE"))
}

func TestMatchBoundaries(t *testing.T) {
	got := MatchBoundaries([]string{"São Paulo", "Rio Grande do Norte", "Atlantis"}, nil)

	assert.Equal(t, []Boundary{
		{FeatureName: "São Paulo", Key: "SAO PAULO", Code: "BR-SP", Mapped: true},
		{FeatureName: "Rio Grande do Norte", Key: "RIO GRANDE DO NORTE", Code: "BR-RN", Mapped: true},
		{FeatureName: "Atlantis", Key: "ATLANTIS", Code: "ATLANTIS", Mapped: false},
	}, got)
}
