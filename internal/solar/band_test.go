package solar

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInBandSimpleInterval(t *testing.T) {
	now, ago := Defined(10), Defined(11.25)
	assert.True(t, InBand(10, now, ago))
	assert.True(t, InBand(10.5, now, ago))
	assert.True(t, InBand(11.25, now, ago))
	assert.False(t, InBand(9.99, now, ago))
	assert.False(t, InBand(11.26, now, ago))
}

func TestInBandAcrossAntimeridian(t *testing.T) {
	now, ago := Defined(179.0), Defined(-179.5)
	assert.True(t, InBand(179.8, now, ago))
	assert.True(t, InBand(-179.9, now, ago))
	assert.True(t, InBand(179.0, now, ago))
	assert.False(t, InBand(0.0, now, ago))
	assert.False(t, InBand(178.9, now, ago))
	assert.False(t, InBand(-179.4, now, ago))
}

func TestInBandSymmetric(t *testing.T) {
	bounds := [][2]float64{{10, 11.25}, {179, -179.5}, {-3, -1.75}, {-180, 179}}
	for _, b := range bounds {
		for lon := -180.0; lon <= 180.0; lon += 0.25 {
			assert.Equal(t,
				InBand(lon, Defined(b[0]), Defined(b[1])),
				InBand(lon, Defined(b[1]), Defined(b[0])),
				"lon=%v bounds=%v", lon, b)
		}
	}
}

func TestInBandUndefinedBound(t *testing.T) {
	assert.False(t, InBand(10, Undefined, Defined(10)))
	assert.False(t, InBand(10, Defined(10), Undefined))
	assert.False(t, InBand(0, Undefined, Undefined))
}

func TestWindowJSON(t *testing.T) {
	out, err := json.Marshal(Window{Now: Defined(1.5), Ago: Undefined})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"now":1.5,"ago":null}`, string(out))
}
