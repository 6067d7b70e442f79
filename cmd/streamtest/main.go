// streamtest connects to a running relay (or directly to the feed), sends an
// auth and a subscribe frame, and prints received frames to the console.
// Usage: go run ./cmd/streamtest --url ws://localhost:8080/ws --subscribe T.AAPL,T.TSLA
//
// When connecting through the relay the credential is replaced server-side,
// so any value works. A direct feed connection needs the real key:
//
//	POLYGON_API_KEY - feed credential for the auth frame
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Jrooker06/orb-scanner-api-Realtime/internal/upstream"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "relay or feed WebSocket URL")
	subscribe := flag.String("subscribe", "T.AAPL", "comma-separated channel list")
	apiKey := flag.String("api-key", os.Getenv("POLYGON_API_KEY"), "credential for the auth frame")
	verbose := flag.Bool("verbose", false, "pretty-print frame JSON")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(*url, nil)
	if err != nil {
		logger.Error("dial failed", "url", *url, "error", err)
		os.Exit(1)
	}
	defer conn.Close()
	logger.Info("connected", "url", *url)

	if err := conn.WriteMessage(websocket.TextMessage, upstream.AuthFrame(*apiKey)); err != nil {
		logger.Error("failed to send auth frame", "error", err)
		os.Exit(1)
	}

	subFrame, _ := json.Marshal(map[string]string{
		"action": "subscribe",
		"params": *subscribe,
	})
	if err := conn.WriteMessage(websocket.TextMessage, subFrame); err != nil {
		logger.Error("failed to send subscribe frame", "error", err)
		os.Exit(1)
	}
	logger.Info("subscribed", "params", *subscribe)

	var frames atomic.Int64

	// Console printer
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				logger.Error("read failed", "error", err)
				cancel()
				return
			}
			frames.Add(1)

			if *verbose {
				var buf []byte
				if pretty, err := prettyJSON(data); err == nil {
					buf = pretty
				} else {
					buf = data
				}
				fmt.Printf("[FRAME] %s\n", buf)
			} else {
				fmt.Printf("[FRAME] %s\n", truncate(data, 160))
			}
		}
	}()

	// Stats printer
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logger.Info("stats", "frames_received", frames.Load())
			}
		}
	}()

	logger.Info("streaming started - press Ctrl+C to stop")

	// Wait for shutdown
	<-ctx.Done()

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	logger.Info("shutdown complete", "frames_received", frames.Load())
}

func prettyJSON(data []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.MarshalIndent(v, "", "  ")
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
