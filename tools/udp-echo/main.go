// udp-echo answers every datagram it receives, for trying udpsender by hand.
//
//   Terminal 1: go run ./tools/udp-echo -addr 0.0.0.0:9000
//   Terminal 2: go run ./cmd/udpsender send 127.0.0.1 9000 hello
//
// -repeat makes replies longer than the sender's 255-byte receive buffer.

package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/MdSadiqMd/udp-sender/pkg/constants"
	"github.com/MdSadiqMd/udp-sender/pkg/echo"
	"github.com/MdSadiqMd/udp-sender/pkg/logging"
)

func main() {
	var (
		addr   = flag.String("addr", constants.DefaultEchoAddr, "UDP address to listen on")
		repeat = flag.Int("repeat", 1, "echo the payload this many times")
		prefix = flag.String("prefix", "", "text prepended to every reply")
		silent = flag.Bool("silent", false, "receive but never reply")
	)
	flag.Parse()

	responder := echo.NewResponder(&echo.Config{
		Addr:   *addr,
		Repeat: *repeat,
		Prefix: *prefix,
		Silent: *silent,
	})
	if err := responder.Start(); err != nil {
		logging.LogError("%v", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		responder.Close()
	}()

	responder.Serve()
	logging.LogSuccess("Summary: %s", responder.Stats().Summary())
}
