package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api/public/packets"
	"github.com/Nixie-Tech-LLC/minaret/internal/stats"
)

func StatsModule(p *PublicController) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/stats", p.getStats)
	})
}

// GET /api/stats
func (p *PublicController) getStats(ctx *gin.Context) (any, *api.Error) {
	snap, err := p.aggregator.Get(ctx.Request.Context(), p.dataset.Mosques(), p.now())
	if err != nil {
		if stats.IsTransient(err) {
			log.Warn().Err(err).Msg("stats unavailable")
			msg := "stats temporarily unavailable"
			if errors.Is(err, stats.ErrEmptyDataset) {
				msg = "no mosques loaded"
			}
			return nil, api.Unavailable(msg)
		}
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	ctx.Header("X-Stats-Generated-At", snap.GeneratedAt.Format(time.RFC3339Nano))
	return packets.StatsResponse{Total: snap.Total, Prayers: snap.Prayers}, nil
}
