package main

import (
	"context"
	"net"
	"net/http"
	"os"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/robotalks/msp.go/pkg/bridge"
	"github.com/robotalks/msp.go/pkg/capture"
	fx "github.com/robotalks/msp.go/pkg/framework"
	"github.com/robotalks/msp.go/pkg/metrics"
	"github.com/robotalks/msp.go/pkg/mqtt"
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Bridge the flight controller link to MQTT and WebSocket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		link, closer, err := openLink(&conf)
		if err != nil {
			return err
		}
		defer closer.Close()
		b := bridge.New(link)
		runner := fx.NewRunner(context.Background()).HandleSignals()

		if conf.CaptureFile != "" {
			f, err := os.OpenFile(conf.CaptureFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return err
			}
			defer f.Close()
			b.Capture = capture.NewWriter(f)
		}

		mux := http.NewServeMux()
		if conf.MetricsAddr != "" {
			reg := prometheus.NewRegistry()
			if b.Metrics, err = metrics.New("msp", reg); err != nil {
				return err
			}
			link.Parser.Observer = b.Metrics
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			runner.Go(serveHTTP("metrics", conf.MetricsAddr, mux))
		}

		if conf.WebSocketAddr != "" {
			b.Relay = bridge.NewRelay(link)
			wsMux := mux
			if conf.WebSocketAddr != conf.MetricsAddr {
				wsMux = http.NewServeMux()
				runner.Go(serveHTTP("websocket", conf.WebSocketAddr, wsMux))
			}
			wsMux.Handle("/msp", b.Relay.Handler())
		}

		if conf.MQTTURL != "" {
			q, err := mqtt.NewQueueFromURL(conf.MQTTURL, conf.ClientID())
			if err != nil {
				return err
			}
			b.Subscribe(q)
			if err := q.Connect(); err != nil {
				return err
			}
			defer q.Close()
			b.Publisher = q
		}

		// the link starts last so handlers are settled before packets flow.
		runner.Go(fx.NamedRun("link", fx.RunFunc(func(ctx context.Context) error {
			return fx.RunWithContextCloser(ctx, closer, func() error {
				return link.Run(ctx)
			})
		})))
		return runner.Wait()
	},
}

func init() {
	addLinkFlags(bridgeCmd)
	flags := bridgeCmd.Flags()
	flags.StringVar(&conf.MQTTURL, "mqtt", conf.MQTTURL, "MQTT broker URL, e.g. mqtt://localhost:1883/drone/.")
	flags.StringVar(&conf.WebSocketAddr, "ws", conf.WebSocketAddr, "WebSocket relay listen address, served at /msp.")
	flags.StringVar(&conf.MetricsAddr, "metrics", conf.MetricsAddr, "Prometheus listen address, served at /metrics.")
	flags.StringVar(&conf.CaptureFile, "capture", conf.CaptureFile, "Append received packets to this file.")
	rootCmd.AddCommand(bridgeCmd)
}

func serveHTTP(name, addr string, handler http.Handler) fx.Runnable {
	return fx.NamedRun(name, fx.RunFunc(func(ctx context.Context) error {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		glog.Infof("%s listening on %s", name, ln.Addr())
		srv := &http.Server{Handler: handler}
		return fx.RunWithContextCloser(ctx, srv, func() error {
			return srv.Serve(ln)
		})
	}))
}
