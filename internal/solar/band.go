package solar

// InBand reports whether lon lies between the two window bounds. Either
// bound being undefined means the prayer cannot be active.
//
// A window spans only a few degrees, so bounds more than 180° apart mean
// the band straddles the antimeridian and membership is the complement
// of the naive interval.
func InBand(lon float64, now, ago Longitude) bool {
	if !now.Valid || !ago.Valid {
		return false
	}
	start, end := now.Deg, ago.Deg
	if start > end {
		start, end = end, start
	}
	if end-start > 180 {
		return lon >= end || lon <= start
	}
	return start <= lon && lon <= end
}
