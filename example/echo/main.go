// Command echo serves a WebSocket echo endpoint on top of wsbridge.
//
// Every message received on /echo is reflected back to the peer, rate
// limited to keep a misbehaving client from monopolizing the handler.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hostbridge/wsbridge"
	"github.com/hostbridge/wsbridge/gorillahost"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/echo", func(c *gin.Context) {
		err := echo(c.Writer, c.Request, logger)
		if err != nil && !errors.Is(err, wsbridge.ErrClosed) {
			logger.Debug().Err(err).Msg("session ended")
		}
	})

	srv := &http.Server{Addr: ":8080", Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

// echo reflects every message back to the peer, allowing at most one message
// per 100ms with bursts of up to 8.
func echo(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) error {
	host, err := gorillahost.Upgrade(w, r, &gorillahost.Options{
		Subprotocols: []string{"echo"},
	})
	if err != nil {
		return err
	}

	a, err := wsbridge.New(host, &wsbridge.Options{Logger: &logger})
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info().
		Str("path", a.Path()).
		Str("origin", a.Origin()).
		Str("subprotocol", a.Subprotocol()).
		Msg("connection accepted")

	limiter := rate.NewLimiter(rate.Every(100*time.Millisecond), 8)
	for {
		if err := limiter.Wait(r.Context()); err != nil {
			return err
		}
		msg, err := a.Wait()
		if err != nil {
			return err
		}
		if err := a.Send(msg); err != nil {
			return err
		}
	}
}
