package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api/public/packets"
)

func HealthModule(p *PublicController) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/healthz", p.health)
	})
}

// GET /healthz
func (p *PublicController) health(ctx *gin.Context) (any, *api.Error) {
	return packets.HealthResponse{
		Status:   "ok",
		Mosques:  p.dataset.Len(),
		Source:   p.dataset.Source(),
		LoadedAt: p.dataset.LoadedAt(),
		Uptime:   p.now().Sub(p.startedAt).String(),
	}, nil
}
