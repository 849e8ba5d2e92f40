package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/robotalks/msp.go/pkg/msp"
	"github.com/robotalks/msp.go/pkg/msp/records"
)

var (
	infoTimeout time.Duration
	infoJSON    bool

	infoCodes = []byte{
		records.CodeAPIVersion,
		records.CodeFCVariant,
		records.CodeFCVersion,
		records.CodeBoardInfo,
		records.CodeBuildInfo,
		records.CodeName,
	}

	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Query identification of the flight controller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			link, closer, err := openLink(&conf)
			if err != nil {
				return err
			}
			defer closer.Close()
			client := msp.NewClient(link)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go client.Run(ctx)
			return queryInfo(ctx, client, cmd.OutOrStdout())
		},
	}
)

func init() {
	addLinkFlags(infoCmd)
	infoCmd.Flags().DurationVar(&infoTimeout, "timeout", time.Second, "Timeout of each query.")
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "Print output in JSON.")
	rootCmd.AddCommand(infoCmd)
}

// queryRecord sends a request and decodes the reply.
func queryRecord(ctx context.Context, client *msp.Client, code byte) (*records.Record, error) {
	layout, ok := records.Lookup(code)
	if !ok {
		return nil, fmt.Errorf("unknown record code %d", code)
	}
	ctx, cancel := context.WithTimeout(ctx, infoTimeout)
	defer cancel()
	pkt, err := client.Do(ctx, code, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", layout.Name, err)
	}
	return layout.Unpack(pkt.Data.Bytes())
}

func queryInfo(ctx context.Context, client *msp.Client, w io.Writer) error {
	result := make(map[string]*records.Record)
	for _, code := range infoCodes {
		rec, err := queryRecord(ctx, client, code)
		if err != nil {
			return err
		}
		result[rec.Layout.Name] = rec
	}
	if infoJSON {
		return json.NewEncoder(w).Encode(result)
	}
	for _, code := range infoCodes {
		l, _ := records.Lookup(code)
		out, err := json.Marshal(result[l.Name])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-12s %s\n", l.Name, out)
	}
	return nil
}
