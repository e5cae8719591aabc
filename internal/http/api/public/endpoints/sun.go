package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api/public/packets"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/solar"
)

func SunModule(p *PublicController) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/sun", p.getSun)
	})
}

// GET /api/sun?lat=..&lon=..
// Reports sunrise and sunset for the coordinate alongside every prayer
// window the model computes for it right now.
func (p *PublicController) getSun(ctx *gin.Context) (any, *api.Error) {
	var request packets.SunRequest
	if err := ctx.ShouldBindQuery(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	lat, lon := *request.Lat, *request.Lon
	now := p.now().UTC()
	duration := p.scanner.Config().AdhanDuration

	resp := packets.SunResponse{
		Lat:     lat,
		Lon:     lon,
		At:      now,
		Prayers: make([]packets.PrayerWindow, 0, len(model.Prayers)),
	}
	if rise, set, ok := solar.SunTimes(lat, lon, now); ok {
		resp.Sunrise, resp.Sunset = &rise, &set
	}

	for _, pr := range model.Prayers {
		w := solar.WindowAt(lat, pr, now, duration)
		inside := w.Contains(lon)
		resp.Prayers = append(resp.Prayers, packets.PrayerWindow{
			Name:   pr,
			Color:  pr.Color(),
			Window: w,
			Inside: inside,
		})
		if inside && resp.Active == nil {
			active := pr
			resp.Active = &active
		}
	}
	return resp, nil
}
