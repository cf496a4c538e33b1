// cmd/storefront/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/chaos"
	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/storage"
	"storefront/internal/storefront"
	"storefront/internal/telemetry"
	"storefront/internal/tui"
)

var (
	// Global flags
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Cart and checkout core for the Desi Bazaar storefront",
	Long: `storefront keeps one shopper's cart, derived totals, active view and checkout form.

The cart is persisted to the configured storage backend after every change and
restored on start. Run "serve" for the JSON API or "tui" for the terminal storefront.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		if cmd.Name() == "tui" && !verbose {
			// The terminal belongs to the renderer; keep the logger quiet.
			logger = zap.NewNop()
			return nil
		}
		logger, err = logging.New(cfg.Logging, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the storefront JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Shop from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		p := tea.NewProgram(tui.NewModel(ctx, app.service), tea.WithAltScreen(), tea.WithContext(ctx))
		_, err = p.Run()
		return err
	},
}

var chaosCmd = &cobra.Command{
	Use:   "chaos",
	Short: "Run storage fault experiments against an in-memory session",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := chaos.NewEngine(logger)
		engine.RegisterExperiments()
		return engine.RunAll(cmd.Context(), cmd.OutOrStdout())
	},
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		products := newCatalog()
		printProducts(cmd.OutOrStdout(), products.List(cmd.Context()))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")

	rootCmd.AddCommand(serveCmd, tuiCmd, chaosCmd, productsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is one wired shopper session over the configured storage.
type app struct {
	products catalog.Service
	service  storefront.Service
	store    storage.Store
}

func newCatalog() catalog.Service {
	return catalog.NewService(catalog.InitialProducts(), catalog.NewTemplateGenerator(uint64(time.Now().UnixNano())), logger)
}

func openApp(ctx context.Context) (*app, error) {
	store, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	products := newCatalog()
	carts := cart.NewStore(ctx, cart.NewKVRepository(store, cfg.Storage.CartKey), logger)
	return &app{
		products: products,
		service:  storefront.NewService(products, carts, logger),
		store:    store,
	}, nil
}

// Close flushes pending cart writes.
func (a *app) Close() error {
	return a.store.Close()
}

func serve(ctx context.Context) error {
	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, logger)
	if err != nil {
		return err
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(tctx); err != nil {
			logger.Warn("trace shutdown failed", zap.Error(err))
		}
	}()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("storage close failed", zap.Error(err))
		}
	}()

	limiter := storefront.NewSubmitLimiter(cfg.Checkout.SubmitsPerMinute, cfg.Checkout.Burst)
	handler := storefront.NewHandler(a.service, catalog.NewHandler(a.products), limiter, logger)
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("storefront listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func printProducts(w io.Writer, products []catalog.Product) {
	for _, p := range products {
		fmt.Fprintf(w, "%3d  %-36s %-26s %12s\n", p.ID, p.Name, p.Category, p.Price)
	}
}
