package cmd

import (
	"context"
	"log"
	"time"

	"github.com/noven-dev/image-vault/config"
	"github.com/noven-dev/image-vault/metadata"
	"github.com/noven-dev/image-vault/storage"
	"github.com/spf13/cobra"
)

// provisionCmd 初始化后端资源
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision backing stores",
	Long: `Create the configured metadata store and asset storage ahead of the first run.

Opens the metadata backend once so tables or directories get created, then
verifies the asset storage is reachable (creating the MinIO bucket if needed).`,
	Run: func(cmd *cobra.Command, args []string) {
		runProvision()
	},
}

func init() {
	rootCmd.AddCommand(provisionCmd)
}

func runProvision() {
	config.InitConfig()
	cfg := config.Get()

	store, err := metadata.NewStore(cfg)
	if err != nil {
		log.Fatalf("Failed to provision metadata store: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		log.Fatalf("Metadata store is not responding: %v", err)
	}
	log.Printf("Metadata store '%s' is ready", store.Name())

	if err := store.Close(); err != nil {
		log.Printf("Failed to close metadata store: %v", err)
	}

	factory, err := storage.NewFactory(cfg)
	if err != nil {
		log.Fatalf("Failed to provision storage: %v", err)
	}

	provider := factory.GetDefault()
	if err := provider.Health(ctx); err != nil {
		log.Fatalf("Storage provider '%s' is not healthy: %v", provider.Name(), err)
	}
	log.Printf("Storage provider '%s' is ready", provider.Name())

	log.Println("Provisioning complete.")
}
