// Command gatewayd is the admin CLI for a Gateway/ITS deployment, grounded
// on cmd/synnergy/main.go's bare root-command-plus-AddCommand assembly.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"gatewaycore/cmd/cli"
)

func main() {
	rootCmd := &cobra.Command{Use: "gatewayd", Short: "Gateway/ITS admin and demo CLI"}
	cli.RegisterGateway(rootCmd)
	cli.RegisterITS(rootCmd)
	cli.RegisterRelay(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
