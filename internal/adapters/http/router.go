package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clink-app/meet-server/internal/adapters/rtc"
	"github.com/clink-app/meet-server/internal/adapters/signal"
	"github.com/clink-app/meet-server/internal/app"
	"github.com/clink-app/meet-server/internal/config"
	"github.com/clink-app/meet-server/internal/domain"
)

// ClientTokenMiddleware tags every browser with a stable token. The
// token identifies the client across requests; connection ids stay
// per-websocket.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, coord *app.Coordinator, ctl *signal.Controller) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("MeetSessions", store))
	r.Use(ClientTokenMiddleware())

	api := r.Group("/api")

	// GET /api/meetings — live meetings with member counts
	api.GET("/meetings", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"meetings": coord.Roster().List()})
	})

	// GET /api/meetings/:id — one meeting's live counts
	api.GET("/meetings/:id", func(c *gin.Context) {
		id := domain.MeetingID(c.Param("id"))
		c.JSON(http.StatusOK, gin.H{
			"id":           id,
			"memberCount":  coord.Roster().MemberCount(id),
			"waitingCount": coord.Waiting().Len(id),
		})
	})

	// GET /api/rtc-config — ICE servers for the client PeerConnection
	api.GET("/rtc-config", func(c *gin.Context) {
		c.JSON(http.StatusOK, rtc.ClientConfig(cfg))
	})

	api.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctl.HandleSignal(ctx, c)
	})

	return r
}
