package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Module attaches a feature's endpoints to a Controller.
type Module interface {
	Mount(c *Controller)
}

type ModuleFunc func(c *Controller)

func (f ModuleFunc) Mount(c *Controller) { f(c) }

// Controller registers resolved endpoints on one router group. Every
// endpoint here is a read, so GET routes also answer HEAD.
type Controller struct {
	Group *gin.RouterGroup
}

func (c *Controller) GET(path string, h HandlerFunc) {
	handler := ResolveEndpoint(h)
	c.Group.GET(path, handler)
	c.Group.HEAD(path, handler)
}

// GroupConfig describes how a set of modules is mounted.
type GroupConfig struct {
	Prefix string
	// CacheControl, when set, is sent on every response of the group.
	CacheControl string
	Middleware   []gin.HandlerFunc
}

// MountGroup mounts modules under cfg.Prefix on an engine or group.
func MountGroup(parent gin.IRoutes, cfg GroupConfig, modules ...Module) {
	var grp *gin.RouterGroup
	switch v := parent.(type) {
	case *gin.Engine:
		grp = v.Group(cfg.Prefix)
	case *gin.RouterGroup:
		grp = v
		if cfg.Prefix != "" {
			grp = v.Group(cfg.Prefix)
		}
	default:
		log.Fatal().Str("type", fmt.Sprintf("%T", parent)).Msg("api.MountGroup: unsupported router type")
	}

	if cfg.CacheControl != "" {
		value := cfg.CacheControl
		grp.Use(func(ctx *gin.Context) {
			ctx.Header("Cache-Control", value)
			ctx.Next()
		})
	}
	for _, mw := range cfg.Middleware {
		grp.Use(mw)
	}

	controller := &Controller{Group: grp}
	for _, m := range modules {
		m.Mount(controller)
	}
	log.Debug().Str("prefix", cfg.Prefix).Int("modules", len(modules)).Msg("mounted api group")
}
