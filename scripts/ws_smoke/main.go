package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/pairchat-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	token := flag.String("token", "", "JWT from /api/register or /api/login")
	receiver := flag.String("to", "", "recipient user id")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	if *token == "" || *receiver == "" {
		return fmt.Errorf("both -token and -to are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr+"?token="+*token, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	payload, err := json.Marshal(proto.SendMessageData{
		ReceiverID: *receiver,
		Message:    *text,
		Timestamp:  time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal send_message: %w", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeSendMessage, Data: payload}); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	var reply proto.Outbound
	if err := wsjson.Read(ctx, conn, &reply); err != nil {
		return fmt.Errorf("read reply: %w", err)
	}
	if reply.Error != nil {
		return fmt.Errorf("server error: %s (%s)", reply.Error.Msg, reply.Error.Code)
	}

	out, _ := json.Marshal(reply)
	fmt.Printf("reply: %s\n", out)
	return nil
}
