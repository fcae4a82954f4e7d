package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/api/handlers"
	"github.com/meghashyamc/docsearch/apperror"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/metrics"
	"github.com/meghashyamc/docsearch/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, docFinder handlers.Finder, validator *validation.Validator, gatherer prometheus.Gatherer, port string) {
	router.GET("/health", health())
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	handlers.Setup(router, logger, docFinder, validator, port)

	router.NoRoute(noRoute(apperror.NewMapper(logger)))
}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func noRoute(mapper *apperror.Mapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		mapped := mapper.Map(apperror.Domain(apperror.CodeNotFound, fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path)))
		c.AbortWithStatusJSON(mapped.Status, mapped.Envelope)
	}
}

func newRouter(logger logger.Logger, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(loggingMiddleware(logger))
	router.Use(metricsMiddleware(m))
	router.Use(recoveryMiddleware(apperror.NewMapper(logger)))
	router.Use(_CORSMiddleware())

	return router
}
