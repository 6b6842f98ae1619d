package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ytbridge/config"
	"ytbridge/internal/retry"
	"ytbridge/recommend"
	"ytbridge/server"
	"ytbridge/youtube"
)

var (
	listenAddr string
	headless   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST gateway",
	Long:  "Start the HTTP server exposing search, liked, recommend, like, comment, and subscribe endpoints",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "Listen address (overrides config)")
	serveCmd.Flags().BoolVar(&headless, "headless", false, "Disable the interactive authorization flow")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		cfg.ListenAddr = listenAddr
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = headless
	}

	manager, err := buildManager(cfg)
	if err != nil {
		return err
	}

	clientCfg := youtube.DefaultConfig()
	clientCfg.Retry = retry.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		Multiplier:     2.0,
		JitterFraction: 0.2,
	}
	clientCfg.RequestsPerSecond = cfg.RequestsPerSecond

	client := youtube.NewClient(manager, clientCfg)
	strategy := recommend.NewKeywordStrategy(client, client)

	srv := server.New(client, strategy, server.Options{
		SearchLimit:    cfg.SearchLimit,
		LikedLimit:     cfg.LikedLimit,
		RecommendLimit: cfg.RecommendLimit,
		RequestTimeout: cfg.RequestTimeout,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.ListenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Printf("server: received %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
