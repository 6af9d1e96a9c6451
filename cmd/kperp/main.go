// Command kperp runs the KP ERP admin dashboard and its maintenance
// subcommands.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kidsparadise/kp-erp/internal/api"
	"github.com/kidsparadise/kp-erp/internal/auth"
	"github.com/kidsparadise/kp-erp/internal/config"
	"github.com/kidsparadise/kp-erp/internal/routing"
	"github.com/kidsparadise/kp-erp/internal/session"
	"github.com/kidsparadise/kp-erp/internal/sync"
	"github.com/kidsparadise/kp-erp/internal/woo"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "kperp",
		Short:         "KP ERP admin dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), exportCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		log.Fatalf("kperp: %v", err)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			renderer, err := api.NewRenderer(cfg.Server.TemplatesDir)
			if err != nil {
				return fmt.Errorf("load templates from %s: %w", cfg.Server.TemplatesDir, err)
			}

			codec := session.NewCodec(cfg.Session.Secret, cfg.Session.TTL)
			store := woo.NewClient(cfg.Store)

			// A typed nil must not end up inside the interface; the
			// handlers treat a nil assistant as "not configured".
			var assistant sync.Assistant
			if ga := sync.NewGeminiAssistant(cfg.AI); ga != nil {
				assistant = ga
			} else {
				log.Printf("data-sync assistant disabled: no API key configured")
			}

			handlers := api.NewHandlers(cfg, codec, auth.NewDirectory(), store, assistant, renderer)
			engine := routing.New(handlers, codec)

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           engine,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Printf("kperp listening on %s", cfg.Server.Addr)
				errCh <- srv.ListenAndServe()
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				log.Printf("received %s, shutting down", sig)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
}

func exportCmd() *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full product catalog to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store := woo.NewClient(cfg.Store)

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			products, err := store.AllProducts(ctx)
			if err != nil {
				return fmt.Errorf("fetch catalog: %w", err)
			}

			if out == "" {
				out = fmt.Sprintf("products-%s.%s", time.Now().Format("2006-01-02"), format)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			switch format {
			case "csv":
				err = api.WriteProductsCSV(f, products)
			case "xlsx":
				err = api.WriteProductsXLSX(f, products)
			default:
				return fmt.Errorf("unknown format %q (want csv or xlsx)", format)
			}
			if err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			log.Printf("exported %d products to %s", len(products), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "export format: csv or xlsx")
	cmd.Flags().StringVar(&out, "out", "", "output file (default products-<date>.<format>)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the kperp version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("kperp " + version)
		},
	}
}
