package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/config"
	"github.com/meghashyamc/docsearch/db/kvdb"
	"github.com/meghashyamc/docsearch/db/searchdb"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/metrics"
	"github.com/meghashyamc/docsearch/services/finder"
	"github.com/meghashyamc/docsearch/services/loader"
	"github.com/meghashyamc/docsearch/validation"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	kvdb       kvdb.DB
	searchdb   searchdb.DB
	finder     *finder.Service
	validator  *validation.Validator
	registry   *prometheus.Registry
	logger     logger.Logger
}

// LoadOptions selects the files to load: the text files under Dir, except
// those in the Exclude folders.
type LoadOptions struct {
	Dir     string
	Exclude []string
}

// Run serves the document API until ctx is cancelled or the process is
// interrupted. When preload.Dir is set, its files are loaded before serving.
func Run(ctx context.Context, cfg *config.Config, preload LoadOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(cfg.GetLogLevel()),
	}
	if err := s.setupDependencies(); err != nil {
		return err
	}
	defer s.closeDependencies()

	if preload.Dir != "" {
		if _, err := loader.New(s.logger, s.finder).Load(ctx, preload.Dir, preload.Exclude); err != nil {
			return err
		}
	}

	if err := s.setupValidator(); err != nil {
		return err
	}
	if cfg.GetLogLevel() != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	s.setupRouter()

	return s.serve(ctx)
}

// Load adds the selected files to the document stores and returns.
func Load(ctx context.Context, cfg *config.Config, opts LoadOptions) (loader.Summary, error) {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(cfg.GetLogLevel()),
	}
	if err := s.setupDependencies(); err != nil {
		return loader.Summary{}, err
	}
	defer s.closeDependencies()

	return loader.New(s.logger, s.finder).Load(ctx, opts.Dir, opts.Exclude)
}

func (s *server) setupDependencies() error {
	var err error
	s.kvdb, err = kvdb.New(s.logger, s.cfg.GetKVDBPath())
	if err != nil {
		s.logger.Error("error creating kvDB", "err", err.Error())
		return err
	}
	s.searchdb, err = searchdb.New(s.logger, s.cfg.GetIndexPath())
	if err != nil {
		s.logger.Error("error creating searchDB", "err", err.Error())
		s.kvdb.Close()
		return err
	}
	s.finder = finder.New(s.logger, s.searchdb, s.kvdb)

	stored, err := s.kvdb.Count(kvdb.DocumentsBucket)
	if err != nil {
		s.logger.Warn("could not count stored documents", "err", err.Error())
	}
	indexed, err := s.searchdb.GetDocCount()
	if err != nil {
		s.logger.Warn("could not count indexed documents", "err", err.Error())
	}
	s.logger.Info("opened document stores",
		"config", s.cfg.GetConfigPath(),
		"kvdb", s.cfg.GetKVDBPath(),
		"index", s.cfg.GetIndexPath(),
		"stored", stored,
		"indexed", indexed,
	)

	return nil
}

func (s *server) setupValidator() error {
	var err error
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}

	return nil
}

func (s *server) setupRouter() {
	s.registry = prometheus.NewRegistry()
	router := newRouter(s.logger, metrics.New(s.registry))

	setupRoutes(router, s.logger, s.finder, s.validator, s.registry, s.cfg.GetPort())

	s.router = router
}

func (s *server) serve(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler:           s.router.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	listenErrC := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErrC <- err
		}
		close(listenErrC)
	}()

	select {
	case err := <-listenErrC:
		if err != nil {
			s.logger.Error("http server stopped", "err", err.Error())
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("starting to shut down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error shutting down http server", "err", err)
		return err
	}
	s.logger.Info("shut down http server successfully")

	return nil
}

func (s *server) closeDependencies() {
	if err := s.searchdb.Close(); err != nil {
		s.logger.Error("error closing searchDB", "err", err.Error())
	}
	if err := s.kvdb.Close(); err != nil {
		s.logger.Error("error closing kvDB", "err", err.Error())
	}
}
