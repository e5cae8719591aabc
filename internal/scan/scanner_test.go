package scan

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/solar"
)

var fixedInstant = time.Date(2025, time.March, 22, 9, 29, 0, 0, time.UTC)

func threeMosques() []model.Mosque {
	return []model.Mosque{
		{Name: "A", Lat: 21.4, Lon: 39.8},
		{Name: "B", Lat: 51.5, Lon: -0.1},
		{Name: "C", Lat: -33.9, Lon: 151.2},
	}
}

func TestScanMatchesIndependentWindows(t *testing.T) {
	s := New(DefaultConfig(), NewSeededSampler(1))
	res, err := s.Scan(context.Background(), threeMosques(), nil, fixedInstant)
	require.NoError(t, err)
	require.Len(t, res.Activations, 3)

	got := map[string]*model.Prayer{}
	for _, a := range res.Activations {
		got[a.Mosque.Name] = a.Prayer
		assert.Equal(t, a.Prayer != nil, a.Active)
	}

	for _, m := range threeMosques() {
		var matches []model.Prayer
		for _, p := range model.Prayers {
			w := solar.WindowAt(m.Lat, p, fixedInstant, 5*time.Minute)
			if solar.InBand(m.Lon, w.Now, w.Ago) {
				matches = append(matches, p)
			}
		}
		if len(matches) == 0 {
			assert.Nil(t, got[m.Name], m.Name)
			continue
		}
		require.NotNil(t, got[m.Name], m.Name)
		assert.Equal(t, matches[0], *got[m.Name], m.Name)
	}

	require.NotNil(t, got["A"])
	assert.Equal(t, model.Dhuhr, *got["A"])
	assert.Nil(t, got["B"])
	require.NotNil(t, got["C"])
	assert.Equal(t, model.Isha, *got["C"])
}

func TestScanOrdersActiveFirst(t *testing.T) {
	s := New(DefaultConfig(), NewSeededSampler(1))
	mosques := []model.Mosque{
		{Name: "B", Lat: 51.5, Lon: -0.1},
		{Name: "A", Lat: 21.4, Lon: 39.8},
		{Name: "B2", Lat: 51.5, Lon: -0.2},
		{Name: "C", Lat: -33.9, Lon: 151.2},
	}
	res, err := s.Scan(context.Background(), mosques, nil, fixedInstant)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Activations))
	for _, a := range res.Activations {
		names = append(names, a.Mosque.Name)
	}
	assert.Equal(t, []string{"A", "C", "B", "B2"}, names)
	assert.Equal(t, 2, res.Active)
	assert.Equal(t, 2, res.Inactive)
	assert.False(t, res.Sampled)
}

func TestScanSkipsInvalidCoordinates(t *testing.T) {
	s := New(DefaultConfig(), nil)
	mosques := append(threeMosques(),
		model.Mosque{Name: "north of north", Lat: 95, Lon: 0},
		model.Mosque{Name: "east of east", Lat: 0, Lon: 181},
	)
	res, err := s.Scan(context.Background(), mosques, nil, fixedInstant)
	require.NoError(t, err)
	assert.Len(t, res.Activations, 3)
	assert.Equal(t, 2, res.Skipped)
}

func TestScanBBoxWrapsAntimeridian(t *testing.T) {
	s := New(DefaultConfig(), nil)
	mosques := []model.Mosque{
		{Name: "fiji", Lat: -17, Lon: 175},
		{Name: "samoa", Lat: -14, Lon: -172},
		{Name: "greenwich", Lat: 0, Lon: 0},
	}
	bbox := &model.BBox{South: -30, West: 170, North: 0, East: -170}
	res, err := s.Scan(context.Background(), mosques, bbox, fixedInstant)
	require.NoError(t, err)

	var names []string
	for _, a := range res.Activations {
		names = append(names, a.Mosque.Name)
	}
	assert.ElementsMatch(t, []string{"fiji", "samoa"}, names)
}

func TestScanBBoxFiltersLatitude(t *testing.T) {
	s := New(DefaultConfig(), nil)
	bbox := &model.BBox{South: 0, West: -180, North: 60, East: 180}
	res, err := s.Scan(context.Background(), threeMosques(), bbox, fixedInstant)
	require.NoError(t, err)
	assert.Len(t, res.Activations, 2)
}

func TestScanCapsInactiveButNotActive(t *testing.T) {
	const inactiveCount = 50
	mosques := make([]model.Mosque, 0, inactiveCount+10)
	for i := 0; i < inactiveCount; i++ {
		mosques = append(mosques, model.Mosque{Name: fmt.Sprintf("london-%d", i), Lat: 51.5, Lon: -0.1})
	}
	for i := 0; i < 10; i++ {
		mosques = append(mosques, model.Mosque{Name: fmt.Sprintf("mecca-%d", i), Lat: 21.4, Lon: 39.8})
	}

	s := New(Config{AdhanDuration: 5 * time.Minute, InactiveCap: 7}, NewSeededSampler(42))
	res, err := s.Scan(context.Background(), mosques, nil, fixedInstant)
	require.NoError(t, err)

	assert.Equal(t, 10, res.Active)
	assert.Equal(t, inactiveCount, res.Inactive)
	assert.True(t, res.Sampled)
	require.Len(t, res.Activations, 17)
	for _, a := range res.Activations[:10] {
		assert.True(t, a.Active)
	}
	seen := map[string]bool{}
	for _, a := range res.Activations[10:] {
		assert.False(t, a.Active)
		assert.False(t, seen[a.Mosque.Name], "duplicate %s", a.Mosque.Name)
		seen[a.Mosque.Name] = true
	}
}

func TestScanDefaultCap(t *testing.T) {
	mosques := make([]model.Mosque, DefaultInactiveCap+500)
	for i := range mosques {
		mosques[i] = model.Mosque{Name: "x", Lat: 51.5, Lon: -0.1}
	}
	res, err := New(DefaultConfig(), nil).Scan(context.Background(), mosques, nil, fixedInstant)
	require.NoError(t, err)
	assert.Len(t, res.Activations, DefaultInactiveCap)
}

func TestScanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(DefaultConfig(), nil).Scan(ctx, threeMosques(), nil, fixedInstant)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanEmpty(t *testing.T) {
	res, err := New(DefaultConfig(), nil).Scan(context.Background(), nil, nil, fixedInstant)
	require.NoError(t, err)
	assert.Empty(t, res.Activations)
}
