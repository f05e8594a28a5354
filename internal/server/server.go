// Package server hosts the local preview of the visualizer: the same two
// endpoints the wizard deploys into Xano, served from a snapshot on
// localhost so the operator can inspect the graph before deploying.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/drippinrizz/xano-db-visualizer/api/schemas"
	"github.com/drippinrizz/xano-db-visualizer/internal/deploy"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds preview server settings.
type Config struct {
	Addr         string   `mapstructure:"addr" yaml:"addr"`
	Title        string   `mapstructure:"title" yaml:"title"`
	AllowOrigins []string `mapstructure:"allow_origins" yaml:"allow_origins"`
}

// Preview serves a fixed snapshot. The snapshot is immutable once the server
// is built; reloading data means building a new Preview.
type Preview struct {
	cfg  Config
	data *schemas.GraphData
	page string
	log  *zap.Logger
}

// NewPreview renders the page once up front and returns the server.
func NewPreview(cfg Config, data *schemas.GraphData, logger *zap.Logger) (*Preview, error) {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8090"
	}
	if cfg.Title == "" {
		cfg.Title = "Database Visualizer (preview)"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	page, err := deploy.RenderPage(deploy.PageConfig{
		Title:   cfg.Title,
		DataURL: "./graph-data",
	})
	if err != nil {
		return nil, err
	}
	return &Preview{cfg: cfg, data: data, page: page, log: logger.Named("Preview")}, nil
}

// Router builds the gin handler: the visualizer page at /, the graph data at
// /graph-data, and a health probe.
func (p *Preview) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(p.cfg.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = p.cfg.AllowOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	r.GET("/", p.handlePage)
	r.GET("/graph-data", p.handleGraphData)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func (p *Preview) handlePage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(p.page))
}

// handleGraphData serves the input contract: a JSON object whose keys map to
// arrays of record objects, keys in snapshot order.
func (p *Preview) handleGraphData(c *gin.Context) {
	payload, err := json.Marshal(p.data)
	if err != nil {
		p.log.Error("Failed to encode graph data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to encode graph data"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (p *Preview) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              p.cfg.Addr,
		Handler:           p.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	p.log.Info("Preview server listening", zap.String("addr", p.cfg.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
