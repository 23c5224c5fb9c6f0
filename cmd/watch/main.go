// Command watch connects to a feed stream and logs every decoded event.
package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/protocol"
	"github.com/shubham-shewale/stock-market-feed/pkg/config"
)

func main() {
	fs := pflag.NewFlagSet("watch", pflag.ExitOnError)
	base := fs.String("url", "ws://localhost:8080", "Base URL of the feed server")
	stream := fs.String("stream", "instruments", "Stream to follow (instruments or quotes)")
	level := fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.Parse(os.Args[1:])

	logger, err := config.NewLogger(config.LoggerConfig{Level: *level, Encoding: "console", Development: true})
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	target, err := streamURL(*base, *stream)
	if err != nil {
		logger.Fatal("Invalid target", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		logger.Fatal("Dial failed", zap.String("url", target), zap.Error(err))
	}
	defer conn.Close()
	logger.Info("Connected", zap.String("url", target))

	go func() {
		<-ctx.Done()
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("Connection lost", zap.Error(err))
			}
			return
		}

		msg, data, err := protocol.Decode(raw)
		if err != nil {
			logger.Warn("Undecodable frame", zap.ByteString("frame", raw), zap.Error(err))
			continue
		}
		switch d := data.(type) {
		case protocol.InstrumentData:
			logger.Info(string(msg.Type), zap.String("isin", d.ISIN), zap.String("description", d.Description))
		case protocol.QuoteData:
			logger.Info(string(msg.Type), zap.String("isin", d.ISIN), zap.String("price", d.Price.String()))
		}
	}
}

func streamURL(base, stream string) (string, error) {
	if stream != "instruments" && stream != "quotes" {
		return "", fmt.Errorf("unknown stream %q", stream)
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + stream
	return u.String(), nil
}
