package solar

import (
	"time"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

// ActivePrayer returns the first prayer in prayers whose window, computed
// for lat between t-d and t, contains lon.
func ActivePrayer(lat, lon float64, t time.Time, d time.Duration, prayers []model.Prayer) (model.Prayer, bool) {
	for _, p := range prayers {
		if WindowAt(lat, p, t, d).Contains(lon) {
			return p, true
		}
	}
	return 0, false
}
