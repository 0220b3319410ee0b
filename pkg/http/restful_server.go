package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"homesense/pkg/hub"
)

// RestfulServer serves the read-only dashboard contract. It never
// writes to storage; ingestion happens over MQTT.
type RestfulServer struct {
	Server           *gin.Engine
	Hub              *hub.Hub
	StatsCache       *hub.StatsCache
	RateLimiterStore *hub.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(clientKey string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	}
	return rs.RateLimiterStore.GetLimiter(clientKey)
}

func (rs *RestfulServer) CheckClientLimiter(clientKey string) bool {
	limiter := rs.GetLimiter(clientKey)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := rs.Server.Group("/api")
	{
		api.GET("/readings", rs.GetReadings)
		api.GET("/latest", rs.GetLatest)
		api.GET("/stats", rs.GetStats)
	}
}
