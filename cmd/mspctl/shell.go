package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/spf13/cobra"

	"github.com/robotalks/msp.go/pkg/msp"
	"github.com/robotalks/msp.go/pkg/msp/records"
)

const clientKey = "$client"

var (
	shellCmd = &cobra.Command{
		Use:   "shell [COMMAND...]",
		Short: "Interactive shell on a flight controller link",
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

			sh := newShell(ctx, client)
			if len(args) > 0 {
				return sh.Process(args...)
			}
			sh.Run()
			return nil
		},
	}

	shellCmds = []*ishell.Cmd{
		{
			Name:    "send",
			Aliases: []string{"s"},
			Help:    "CODE [HEX-PAYLOAD]: send a request and print the reply",
			Func:    withClient(sendFunc),
		},
		{
			Name:    "get",
			Aliases: []string{"g"},
			Help:    "RECORD|CODE: query and decode a record",
			Func:    withClient(getFunc),
		},
		{
			Name: "info",
			Help: "print identification of the flight controller",
			Func: withClient(func(c *ishell.Context, ctx context.Context, client *msp.Client) {
				if err := queryInfo(ctx, client, shellWriter{c}); err != nil {
					c.Err(err)
				}
			}),
		},
		{
			Name: "status",
			Help: "print status of the flight controller",
			Func: withClient(func(c *ishell.Context, ctx context.Context, client *msp.Client) {
				showRecord(c, ctx, client, records.CodeStatus)
			}),
		},
		{
			Name: "records",
			Help: "list known records",
			Func: func(c *ishell.Context) {
				names := make([]string, 0, len(records.Catalog))
				for _, l := range records.Catalog {
					names = append(names, fmt.Sprintf("%-20s %3d", l.Name, l.Code))
				}
				sort.Strings(names)
				for _, name := range names {
					c.Println(name)
				}
			},
		},
	}
)

func init() {
	addLinkFlags(shellCmd)
	shellCmd.Flags().DurationVar(&infoTimeout, "timeout", time.Second, "Timeout of each query.")
	rootCmd.AddCommand(shellCmd)
}

type shellClient struct {
	ctx    context.Context
	client *msp.Client
}

type shellWriter struct {
	c *ishell.Context
}

func (w shellWriter) Write(p []byte) (int, error) {
	w.c.Print(string(p))
	return len(p), nil
}

func newShell(ctx context.Context, client *msp.Client) *ishell.Shell {
	sh := ishell.New()
	sh.Set(clientKey, &shellClient{ctx: ctx, client: client})
	sh.SetPrompt("msp > ")
	for _, cmd := range shellCmds {
		sh.AddCmd(cmd)
	}
	return sh
}

func withClient(fn func(*ishell.Context, context.Context, *msp.Client)) func(*ishell.Context) {
	return func(c *ishell.Context) {
		sc := c.Get(clientKey).(*shellClient)
		fn(c, sc.ctx, sc.client)
	}
}

func sendFunc(c *ishell.Context, ctx context.Context, client *msp.Client) {
	if len(c.Args) < 1 {
		c.Err(fmt.Errorf("CODE required"))
		return
	}
	code, err := parseCode(c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}
	var data []byte
	if len(c.Args) > 1 {
		if data, err = parseHex(c.Args[1]); err != nil {
			c.Err(err)
			return
		}
	}
	ctx, cancel := context.WithTimeout(ctx, infoTimeout)
	defer cancel()
	pkt, err := client.Do(ctx, code, data)
	if err != nil {
		c.Err(err)
		return
	}
	printPacket(shellWriter{c}, pkt)
}

func getFunc(c *ishell.Context, ctx context.Context, client *msp.Client) {
	if len(c.Args) < 1 {
		c.Err(fmt.Errorf("RECORD required"))
		return
	}
	code, err := parseCode(c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}
	showRecord(c, ctx, client, code)
}

func showRecord(c *ishell.Context, ctx context.Context, client *msp.Client, code byte) {
	rec, err := queryRecord(ctx, client, code)
	if err != nil {
		c.Err(err)
		return
	}
	out, err := json.Marshal(rec)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(string(out))
}
