package main

import (
	"os"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/config"
	"github.com/Nixie-Tech-LLC/minaret/internal/dataset"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	publicapi "github.com/Nixie-Tech-LLC/minaret/internal/http/api/public/endpoints"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/minaret/internal/scan"
	"github.com/Nixie-Tech-LLC/minaret/internal/stats"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, ds *dataset.Dataset, scanner *scan.Scanner, agg *stats.Aggregator) {
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"X-Stats-Generated-At",
		},
		AllowCredentials: false,
	}))

	public := publicapi.NewPublicController(ds, scanner, agg)

	api.MountGroup(r, api.GroupConfig{
		Prefix:       "/api",
		CacheControl: "no-store",
	},
		publicapi.AdhanModule(public),
		publicapi.StatsModule(public),
		publicapi.SunModule(public),
	)

	api.MountGroup(r, api.GroupConfig{}, publicapi.HealthModule(public))

	// Static content
	index := filepath.Join(cfg.StaticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		log.Warn().Str("path", index).Msg("no index page, / will 404")
		return
	}
	r.StaticFile("/", index)
	r.Static("/static", cfg.StaticDir)
}
