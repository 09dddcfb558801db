// Command advpets-cli drives in-process demonstrations of the two cores of
// this module: the additive-sharing MPC engine (Core A) and the
// Pointcheval-Sanders anonymous credential service (Core B). It has no
// networked mode; every run plays out all parties/roles within one process,
// the way the retained comm.Communication and service types are specified
// to support.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "advpets-cli",
		Short: "Demonstration CLI for the MPC and anonymous-credential cores",
		Long: `advpets-cli runs in-process demonstrations of:

  - Core A: an additive n-of-n secret-sharing MPC engine with Beaver triples
  - Core B: Pointcheval-Sanders anonymous credentials with blind issuance
    and selective disclosure`,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.AddCommand(mpcCmd, credsCmd, infoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
