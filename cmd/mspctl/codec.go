package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robotalks/msp.go/pkg/msp"
	"github.com/robotalks/msp.go/pkg/msp/records"
)

var (
	encodeCode byte
	encodeDir  string

	encodeCmd = &cobra.Command{
		Use:   "encode [HEX-PAYLOAD]",
		Short: "Print the frame of a packet in hex",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, ok := msp.ParseDirection(encodeDir)
			if !ok {
				return fmt.Errorf("invalid direction %q", encodeDir)
			}
			var data []byte
			if len(args) > 0 {
				var err error
				if data, err = parseHex(args[0]); err != nil {
					return err
				}
			}
			out, err := (&msp.Packet{Code: encodeCode, Direction: dir, Data: msp.Borrowed(data)}).Bytes()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out))
			return nil
		},
	}

	decodeStrict bool

	decodeCmd = &cobra.Command{
		Use:   "decode HEX...",
		Short: "Find packets in hex encoded bytes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseHex(strings.Join(args, ""))
			if err != nil {
				return err
			}
			parser := msp.Parser{Strict: decodeStrict}
			w := cmd.OutOrStdout()
			for _, b := range data {
				pkt, err := parser.Parse(b)
				if err != nil {
					fmt.Fprintf(w, "error: %v\n", err)
					continue
				}
				if pkt != nil {
					printPacket(w, pkt)
				}
			}
			if !parser.IsBetweenPackets() {
				fmt.Fprintf(w, "incomplete packet in state %s\n", parser.State())
			}
			return nil
		},
	}
)

func init() {
	encodeCmd.Flags().Uint8Var(&encodeCode, "code", 0, "Command code.")
	encodeCmd.Flags().StringVar(&encodeDir, "dir", "to", "Direction: to, from or unsupported.")
	decodeCmd.Flags().BoolVar(&decodeStrict, "strict", false, "Report framing errors.")
	rootCmd.AddCommand(encodeCmd, decodeCmd)
}

func parseHex(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", ":", "", "0x", "").Replace(s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

func parseCode(s string) (byte, error) {
	if l, ok := records.LookupName(s); ok {
		return l.Code, nil
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid code %q", s)
	}
	return byte(n), nil
}

// printPacket prints a packet, decoding the payload if the layout is known.
func printPacket(w io.Writer, pkt *msp.Packet) {
	fmt.Fprintf(w, "%s code=%d len=%d data=%s", pkt.Direction, pkt.Code, pkt.Data.Len(), hex.EncodeToString(pkt.Data.Bytes()))
	if l, ok := records.Lookup(pkt.Code); ok && pkt.Direction == msp.FromFlightController {
		if rec, err := l.Unpack(pkt.Data.Bytes()); err == nil {
			if out, err := json.Marshal(rec); err == nil {
				fmt.Fprintf(w, " %s=%s", l.Name, out)
			}
		}
	}
	fmt.Fprintln(w)
}
