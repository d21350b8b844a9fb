// cmd/librastock/root.go
package main

import (
	"context"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"librastock/internal/circulation"
	"librastock/internal/inventory"
	"librastock/internal/membership"
	"librastock/internal/reservation"
	"librastock/pkg/jsonstore"
)

var (
	dataDir string

	rootCmd = &cobra.Command{
		Use:   "librastock",
		Short: "Library inventory, reservation, and circulation engine",
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", getEnv("DATA_DIR", "data"), "directory for the JSON collections")
	rootCmd.AddCommand(serveCmd, seedCmd, verifyCmd)
}

// engine bundles the four state structures, the services over them, and
// the mutex they all share.
type engine struct {
	mu *sync.Mutex

	inventory   inventory.Service
	membership  membership.Service
	reservation reservation.Service
	circulation circulation.Service
}

// buildEngine wires the shared state and loads the persisted collections.
func buildEngine(ctx context.Context, dir string) (*engine, error) {
	store, err := jsonstore.New(dir)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	inv := inventory.NewInventory()
	reg := membership.NewRegistry()
	queue := reservation.NewQueue(0)
	hist := circulation.NewHistory(0)

	e := &engine{
		mu:          &mu,
		inventory:   inventory.NewService(&mu, inv, store),
		membership:  membership.NewService(&mu, reg, store),
		reservation: reservation.NewService(&mu, queue, inv, reg, store),
		circulation: circulation.NewService(&mu, inv, reg, queue, hist, store),
	}

	if err := e.inventory.Load(ctx); err != nil {
		return nil, err
	}
	if err := e.membership.Load(ctx); err != nil {
		return nil, err
	}
	if err := e.reservation.Load(ctx); err != nil {
		return nil, err
	}
	if err := e.circulation.Load(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
