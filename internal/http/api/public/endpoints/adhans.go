package endpoints

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api/public/packets"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

// AdhanModule mounts the activation scan and the prayer legend.
func AdhanModule(p *PublicController) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/get_adhans", p.getAdhans)
		c.GET("/prayers", p.listPrayers)
	})
}

// GET /api/get_adhans?bbox=south,west,north,east
func (p *PublicController) getAdhans(ctx *gin.Context) (any, *api.Error) {
	var request packets.AdhansRequest
	if err := ctx.ShouldBindQuery(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	var bbox *model.BBox
	if request.BBox != "" {
		parsed, err := model.ParseBBox(request.BBox)
		if err != nil {
			log.Warn().Err(err).Str("bbox", request.BBox).Msg("rejected bbox")
			return nil, api.BadRequest(err.Error())
		}
		bbox = parsed
	}

	res, err := p.scanner.Scan(ctx.Request.Context(), p.dataset.Mosques(), bbox, p.now())
	if err != nil {
		// Scans only fail when the request goes away mid-scan.
		return nil, api.Unavailable(err.Error())
	}

	out := make([]packets.MosqueResponse, 0, len(res.Activations))
	for _, a := range res.Activations {
		out = append(out, packets.NewMosqueResponse(a))
	}

	log.Info().
		Int("returned", len(out)).
		Int("active", res.Active).
		Bool("bbox", bbox != nil).
		Msg("returning mosques")
	return out, nil
}

// GET /api/prayers
func (p *PublicController) listPrayers(ctx *gin.Context) (any, *api.Error) {
	infos := make([]model.PrayerInfo, 0, len(model.Prayers))
	for _, pr := range model.Prayers {
		infos = append(infos, model.PrayerInfo{Name: pr.String(), Color: pr.Color()})
	}
	return packets.PrayersResponse{
		Prayers:       infos,
		AdhanDuration: int(p.scanner.Config().AdhanDuration.Minutes()),
	}, nil
}
