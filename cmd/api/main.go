package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rmg-pricing/internal/api/handlers"
	"rmg-pricing/internal/api/middleware"
	"rmg-pricing/internal/config"
	"rmg-pricing/internal/data"
	"rmg-pricing/internal/model"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Every request reloads the dataset, so edits to the CSV show up
	// without a restart and no request ever sees a half-updated snapshot.
	loadSnapshot := func() (*model.Snapshot, error) {
		return data.LoadSnapshot(cfg.Data.SKUFile)
	}
	if _, err := loadSnapshot(); err != nil {
		logrus.Warnf("SKU dataset not readable at startup: %v", err)
	}

	router := gin.New()
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	skuHandler := handlers.NewSKUHandler(loadSnapshot)
	pricingHandler := handlers.NewPricingHandler(loadSnapshot)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/skus", skuHandler.ListSKUs)
		api.GET("/skus/search", skuHandler.SearchSKUs)
		api.GET("/skus/:name", skuHandler.GetSKU)

		api.POST("/pricing/calculate-impact", pricingHandler.CalculateImpact)
		api.POST("/pricing/analyze-market", pricingHandler.AnalyzeMarket)
	}

	// Serve the SPA build when present (same host in small deployments).
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	if _, err := os.Stat(staticDir); err == nil {
		router.Static("/assets", staticDir+"/assets")
		router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")
		router.NoRoute(func(c *gin.Context) {
			path := c.Request.URL.Path
			if len(path) >= 4 && path[:4] == "/api" {
				c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			} else {
				c.File(staticDir + "/index.html")
			}
		})
		logrus.Infof("Serving static files from %s", staticDir)
	} else {
		logrus.Infof("Static directory %s not found, skipping static file serving", staticDir)
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logrus.Infof("Starting pricing API on %s (dataset: %s)", addr, cfg.Data.SKUFile)
	if err := router.Run(addr); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
