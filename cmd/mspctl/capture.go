package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/robotalks/msp.go/pkg/capture"
)

var (
	captureCmd = &cobra.Command{
		Use:   "capture",
		Short: "Work with capture files",
	}

	captureDumpCmd = &cobra.Command{
		Use:   "dump FILE",
		Short: "Print packets recorded in a capture file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return dumpCapture(f, cmd.OutOrStdout())
		},
	}
)

func init() {
	captureCmd.AddCommand(captureDumpCmd)
	rootCmd.AddCommand(captureCmd)
}

func dumpCapture(r io.Reader, w io.Writer) error {
	reader := capture.NewReader(r)
	for {
		e, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		pkt, err := e.Packet()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s ", e.Timestamp().UTC().Format(time.RFC3339Nano))
		printPacket(w, pkt)
	}
}
