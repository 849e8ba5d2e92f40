package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	fx "github.com/robotalks/msp.go/pkg/framework"
	"github.com/robotalks/msp.go/pkg/msp"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print packets received from the flight controller",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		link, closer, err := openLink(&conf)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		link.Handler = msp.HandlePacketFunc(func(ctx context.Context, pkt *msp.Packet) {
			printPacket(w, pkt)
		})
		link.Errors = msp.HandleErrorFunc(func(ctx context.Context, err error) {
			fmt.Fprintf(w, "error: %v\n", err)
		})
		runner := fx.NewRunner(context.Background()).HandleSignals()
		runner.Go(fx.NamedRun("link", fx.RunFunc(func(ctx context.Context) error {
			return fx.RunWithContextCloser(ctx, closer, func() error {
				return link.Run(ctx)
			})
		})))
		return runner.Wait()
	},
}

func init() {
	addLinkFlags(monitorCmd)
	rootCmd.AddCommand(monitorCmd)
}
