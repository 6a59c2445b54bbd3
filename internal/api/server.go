// Package api exposes the dashboard core over HTTP. It is the seam between
// the core and the browser UI; no business logic lives here.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/consultorio/painel/internal/service"
)

// Server bundles the services the handlers need.
type Server struct {
	Records    *service.Records
	Aggregator *service.Aggregator
	Syncer     *service.Syncer
	Log        *logrus.Logger
	Loc        *time.Location
	WeekStart  time.Weekday
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/days/:date", s.getDay)
		api.PUT("/days/:date", s.putDay)
		api.GET("/goals/:scope", s.getGoals)
		api.PUT("/goals/:scope", s.putGoals)
		api.GET("/summary", s.getSummary)
		api.POST("/sync", s.postSync)
		api.GET("/reports/daily.xlsx", s.getDailyReport)
		api.GET("/reports/period.xlsx", s.getPeriodReport)
	}
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := uuid.NewString()
		c.Writer.Header().Set("X-Request-ID", reqID)
		start := time.Now()
		c.Next()
		if s.Log == nil {
			return
		}
		s.Log.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("request")
	}
}
