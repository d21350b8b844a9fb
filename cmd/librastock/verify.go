// cmd/librastock/verify.go
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the dual-view inventory for consistency",
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	e, err := buildEngine(cmd.Context(), dataDir)
	if err != nil {
		return err
	}

	report := e.inventory.Verify(cmd.Context())
	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))

	if !report.Consistent {
		os.Exit(1)
	}
	return nil
}
