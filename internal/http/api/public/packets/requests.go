package packets

// REQUESTS FOR /api/get_adhans
type AdhansRequest struct {
	BBox string `form:"bbox"`
}

// REQUESTS FOR /api/sun
type SunRequest struct {
	Lat *float64 `form:"lat" binding:"required,min=-90,max=90"`
	Lon *float64 `form:"lon" binding:"required,min=-180,max=180"`
}
