package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/flyhigh/config"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server on the given address and blocks until the
// context is canceled or the server fails.
func Run(ctx context.Context, address string, engine *gin.Engine) error {
	srv := &http.Server{
		Addr:    address,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// RegisterSwagger mounts the swagger UI and the static spec files.
func RegisterSwagger(engine *gin.Engine, cfg config.HTTPConfig, specName string) {
	if cfg.SwaggerDir == "" {
		return
	}

	engine.StaticFS("/swagger", http.Dir(cfg.SwaggerDir))
	engine.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("/swagger/%s", specName)),
	)))
}
