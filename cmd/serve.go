package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/noven-dev/image-vault/api/core"
	"github.com/noven-dev/image-vault/cache"
	"github.com/noven-dev/image-vault/config"
	"github.com/noven-dev/image-vault/metadata"
	"github.com/noven-dev/image-vault/storage"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start API server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	config.InitConfig()
	cfg := config.Get()

	if err := os.MkdirAll("./data", os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	store, err := metadata.NewStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize metadata store: %v", err)
	}
	log.Printf("Metadata store initialized (%s)", store.Name())

	storageFactory, err := storage.NewFactory(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	log.Printf("Storage initialized (default: %s)", storageFactory.GetDefaultName())

	cacheProvider, err := cache.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}

	deps := &core.ServerDependencies{
		MetadataStore:  store,
		StorageFactory: storageFactory,
		CacheProvider:  cacheProvider,
	}

	// 启动 gin
	server := core.StartServer(deps)
	go func() {
		log.Printf("Server started on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// 处理退出 signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := cacheProvider.Close(); err != nil {
		log.Printf("Failed to close cache: %v", err)
	}
	if err := store.Close(); err != nil {
		log.Printf("Failed to close metadata store: %v", err)
	}

	log.Println("Server exited.")
}
