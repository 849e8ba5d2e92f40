package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/robotalks/msp.go/pkg/config"
)

var (
	conf       = config.Default()
	configFile string

	rootCmd = &cobra.Command{
		Use:   "mspctl",
		Short: "Talk to flight controllers using MultiWii Serial Protocol",
		Long: `mspctl encodes and decodes MSP frames, monitors and queries a flight
controller over a serial port, and bridges the link to MQTT and WebSocket.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog requires flag.Parse; the flags themselves are parsed by cobra.
			flag.CommandLine.Parse(nil)
			if configFile == "" {
				return nil
			}
			flagged := conf
			if err := conf.LoadFile(configFile); err != nil {
				return err
			}
			// explicit flags win over the file.
			cmd.Flags().Visit(func(f *pflag.Flag) {
				switch f.Name {
				case "port":
					conf.Port = flagged.Port
				case "baud":
					conf.Baud = flagged.Baud
				case "strict":
					conf.Strict = flagged.Strict
				case "max-payload":
					conf.MaxPayloadSize = flagged.MaxPayloadSize
				}
			})
			return conf.Validate()
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.AddGoFlagSet(flag.CommandLine)
	flags.StringVarP(&configFile, "config", "c", "", "TOML config file.")
}

// addLinkFlags adds the flags of commands using a serial link.
func addLinkFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&conf.Port, "port", "p", conf.Port, "Serial port, default is the last listed one.")
	flags.IntVarP(&conf.Baud, "baud", "b", conf.Baud, "Baud rate.")
	flags.BoolVar(&conf.Strict, "strict", conf.Strict, "Report framing errors.")
	flags.IntVar(&conf.MaxPayloadSize, "max-payload", conf.MaxPayloadSize, "Reject frames with larger payload, 0 for no limit.")
}

func main() {
	defer glog.Flush()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
