package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dreyvor/ADVPETs-projects/pkg/creds/service"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the scenarios and subscription universe this build supports",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("mpc scenarios: sum, mixed, products")
		fmt.Println("credential subscription universe:")
		for _, name := range service.AllSubscriptionTypes {
			idx, _ := service.AttributeIndex(name)
			fmt.Printf("  %2d  %s\n", idx, name)
		}
		return nil
	},
}
