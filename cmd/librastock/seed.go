// cmd/librastock/seed.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <books.csv>",
	Short: "Import books from a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	e, err := buildEngine(cmd.Context(), dataDir)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	added, err := e.inventory.ImportCSV(cmd.Context(), f)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d books\n", added)
	return nil
}
