package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"api/board"
	"api/config"
	"api/logger"
)

const shutdownTimeout = 10 * time.Second

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	if len(allowedOrigins) == 0 {
		return r
	}

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

// runServer serves until the context is cancelled, then drains in-flight
// requests before returning.
func runServer(ctx context.Context, srv *http.Server) error {
	errChan := make(chan error, 1)
	go func() { errChan <- srv.ListenAndServe() }()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logger.Setup(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	hub := board.NewHub(board.SystemClock(), board.NopRenderer{}, board.NewTickerGen(), uuid.NewString)
	started := make(chan struct{})
	go hub.Run(started)
	<-started

	handler := board.NewHandler(hub, cfg.AllowedOrigins, cfg.ClientEventRate, cfg.ClientEventBurst)

	r := CreateServer(cfg.AllowedOrigins)
	r.GET("/ws", handler.ServeWS)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("addr", cfg.Addr).Msg("server listening")
	if err := runServer(ctx, &http.Server{Addr: cfg.Addr, Handler: r}); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server shut down")
}
