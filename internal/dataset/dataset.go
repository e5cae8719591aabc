// Package dataset holds the immutable set of mosques loaded at startup.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/storage"
)

// ErrMissingColumn is returned when the header lacks lat or lon.
var ErrMissingColumn = errors.New("missing required column")

// Dataset is read-only after construction and safe to share between
// goroutines.
type Dataset struct {
	mosques  []model.Mosque
	loadedAt time.Time
	source   string
}

// MosqueLister is implemented by db.Store.
type MosqueLister interface {
	ListMosques(ctx context.Context) ([]model.Mosque, error)
}

// MosqueStore is a MosqueLister that can also be bulk-loaded.
type MosqueStore interface {
	MosqueLister
	InsertMosques(ctx context.Context, mosques []model.Mosque) error
}

// FromRows copies rows into a dataset, dropping rows whose coordinates
// are not finite numbers.
func FromRows(rows []model.Mosque) *Dataset {
	out := make([]model.Mosque, 0, len(rows))
	for _, m := range rows {
		if !finite(m.Lat) || !finite(m.Lon) {
			continue
		}
		if strings.TrimSpace(m.Name) == "" {
			m.Name = model.DefaultMosqueName
		}
		out = append(out, m)
	}
	return &Dataset{mosques: out, loadedAt: time.Now()}
}

// Empty returns a dataset with no mosques.
func Empty() *Dataset {
	return &Dataset{loadedAt: time.Now()}
}

// Mosques returns the backing slice. Callers must not modify it.
func (d *Dataset) Mosques() []model.Mosque {
	return d.mosques
}

func (d *Dataset) Len() int {
	return len(d.mosques)
}

func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

func (d *Dataset) Source() string {
	return d.source
}

// ParseCSV reads a delimited table with at least lat and lon columns.
// Header names are matched case-insensitively after trimming. Rows with a
// missing or non-numeric coordinate are dropped; a missing name becomes
// the default name.
func ParseCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	latIdx, ok := cols["lat"]
	if !ok {
		return nil, fmt.Errorf("%w: lat", ErrMissingColumn)
	}
	lonIdx, ok := cols["lon"]
	if !ok {
		return nil, fmt.Errorf("%w: lon", ErrMissingColumn)
	}
	nameIdx, hasName := cols["name"]

	var (
		mosques []model.Mosque
		dropped int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}

		lat, latOK := parseCoord(record, latIdx)
		lon, lonOK := parseCoord(record, lonIdx)
		if !latOK || !lonOK {
			dropped++
			continue
		}

		name := ""
		if hasName && nameIdx < len(record) {
			name = strings.TrimSpace(record[nameIdx])
		}
		if name == "" {
			name = model.DefaultMosqueName
		}

		mosques = append(mosques, model.Mosque{Name: name, Lat: lat, Lon: lon})
	}

	if dropped > 0 {
		log.Debug().Int("dropped", dropped).Msg("dropped rows with missing or non-numeric coordinates")
	}
	return &Dataset{mosques: mosques, loadedAt: time.Now()}, nil
}

// Load reads and parses the CSV behind src.
func Load(ctx context.Context, src storage.Source) (*Dataset, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	ds, err := ParseCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", src, err)
	}
	ds.source = src.String()
	log.Info().Int("mosques", ds.Len()).Str("source", ds.source).Msg("loaded mosques")
	return ds, nil
}

// LoadFromStore reads the dataset from a database.
func LoadFromStore(ctx context.Context, store MosqueLister) (*Dataset, error) {
	rows, err := store.ListMosques(ctx)
	if err != nil {
		return nil, err
	}
	ds := FromRows(rows)
	ds.source = "postgres"
	log.Info().Int("mosques", ds.Len()).Str("source", ds.source).Msg("loaded mosques")
	return ds, nil
}

// LoadOrSeed reads the dataset from store. When the store holds no
// mosques and src is non-nil, the CSV behind src is inserted first. A
// missing CSV leaves the store empty.
func LoadOrSeed(ctx context.Context, store MosqueStore, src storage.Source) (*Dataset, error) {
	ds, err := LoadFromStore(ctx, store)
	if err != nil || ds.Len() > 0 || src == nil {
		return ds, err
	}

	seed, err := Load(ctx, src)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("source", src.String()).Msg("mosque table is empty and no seed file was found")
		return ds, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading seed: %w", err)
	}
	if err := store.InsertMosques(ctx, seed.Mosques()); err != nil {
		return nil, err
	}
	log.Info().Int("mosques", seed.Len()).Str("source", src.String()).Msg("seeded mosque table")

	return LoadFromStore(ctx, store)
}

func parseCoord(record []string, idx int) (float64, bool) {
	if idx >= len(record) {
		return 0, false
	}
	raw := strings.TrimSpace(record[idx])
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
