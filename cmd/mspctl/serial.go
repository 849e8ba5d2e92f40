package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/golang/glog"
	"go.bug.st/serial"

	"github.com/robotalks/msp.go/pkg/config"
	"github.com/robotalks/msp.go/pkg/msp"
)

var errNoPorts = errors.New("no serial ports found")

// openLink opens the serial port in conf and wraps it in a Link.
func openLink(conf *config.Config) (*msp.Link, io.Closer, error) {
	portName := conf.Port
	if portName == "" {
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, nil, err
		}
		if len(ports) == 0 {
			return nil, nil, errNoPorts
		}
		// the most recently connected device is listed last.
		portName = ports[len(ports)-1]
	}
	port, err := serial.Open(portName, &serial.Mode{BaudRate: conf.Baud})
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", portName, err)
	}
	glog.Infof("opened %s at %d baud", portName, conf.Baud)
	link := msp.NewLink(port)
	link.Parser.Strict = conf.Strict
	link.Parser.MaxPayloadSize = conf.MaxPayloadSize
	return link, port, nil
}
