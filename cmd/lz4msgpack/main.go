package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	natsio "github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/transcodekit/lz4msgpack"
	natstransport "github.com/transcodekit/lz4msgpack/transports/nats"
)

func main() {
	var (
		in        = flag.String("in", "-", "Input file, or - for stdin")
		format    = flag.String("format", "json", "Output format: json, hex, binary, human")
		transcode = flag.Bool("transcode", false, "Transcode a JSON document instead of inspecting an envelope")
		serve     = flag.Bool("serve", false, "Serve transcode requests over NATS")
		natsURL   = flag.String("nats-url", natsio.DefaultURL, "NATS server URL (serve mode)")
		service   = flag.String("service", "transcoder", "Service name (serve mode)")
	)
	flag.Parse()

	if *serve {
		if err := runServe(*natsURL, *service); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	input, err := readInput(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var output []byte
	if *transcode {
		output, err = runTranscode(input, lz4msgpack.ParseFormat(*format))
	} else {
		output, err = runInspect(input, lz4msgpack.ParseFormat(*format))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if lz4msgpack.ParseFormat(*format) == lz4msgpack.FormatBinary {
		os.Stdout.Write(output)
	} else {
		fmt.Println(string(output))
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// runInspect decodes an envelope JSON document and renders a report of its
// MessagePack form and payload.
func runInspect(input []byte, format lz4msgpack.Format) ([]byte, error) {
	report, err := lz4msgpack.New().Inspect(input)
	if err != nil {
		return nil, err
	}
	return report.Render(format)
}

// runTranscode converts a JSON document into an envelope.
func runTranscode(input []byte, format lz4msgpack.Format) ([]byte, error) {
	switch format {
	case lz4msgpack.FormatBinary:
		return lz4msgpack.Transcode(input)
	case lz4msgpack.FormatHex:
		envelope, err := lz4msgpack.Transcode(input)
		if err != nil {
			return nil, err
		}
		return []byte(hex.EncodeToString(envelope)), nil
	default:
		return lz4msgpack.TranscodeToJSON(input)
	}
}

// runServe exposes the transcoder over NATS until interrupted.
func runServe(natsURL, serviceName string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	conn, err := natsio.Connect(natsURL)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer conn.Close()

	transport := natstransport.NewNatsTransport(conn, serviceName, natstransport.WithLogger(logger))
	svc := lz4msgpack.NewService(lz4msgpack.New(), transport)
	if transport.SubscriptionErr != nil {
		return fmt.Errorf("subscribe: %w", transport.SubscriptionErr)
	}

	logger.Info("serving transcode requests",
		zap.String("url", natsURL),
		zap.String("service", serviceName))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	return svc.Close()
}
