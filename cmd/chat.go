package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v2"

	"github.com/miru4128/gaayatri-project/internal/transport/ws"
)

// ChatCommand is an interactive terminal client for the chat socket.
func ChatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Chat with a running server over WebSocket",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "WebSocket server address",
				Value: "ws://localhost:8080/v1/chat/ws",
			},
			&cli.StringFlag{
				Name:     "token",
				Usage:    "Bearer token (see the token command)",
				Required: true,
				EnvVars:  []string{"GAAYATRI_TOKEN"},
			},
		},
		Action: func(c *cli.Context) error {
			client, err := dialChat(c.String("addr"), c.String("token"))
			if err != nil {
				return err
			}
			defer client.Close()

			out := c.App.Writer
			fmt.Fprintln(out, "Connected. Type a question and press Enter.")
			fmt.Fprintln(out, "Commands: /context {json}, /feedback <message_id> <-1|0|1>, /quit")

			go client.readFrames(out)
			return client.run(c.App.Reader, out)
		},
	}
}

type chatClient struct {
	conn    *websocket.Conn
	context json.RawMessage
	nextID  int
}

func dialChat(addr, token string) (*chatClient, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, _, err := websocket.DefaultDialer.Dial(addr, header)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return &chatClient{conn: conn}, nil
}

func (c *chatClient) Close() error {
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

func (c *chatClient) requestID() string {
	c.nextID++
	return "req_" + strconv.Itoa(c.nextID)
}

func (c *chatClient) run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		var err error
		switch {
		case input == "/quit":
			fmt.Fprintln(out, "Bye!")
			return nil
		case strings.HasPrefix(input, "/context"):
			err = c.setContext(strings.TrimSpace(strings.TrimPrefix(input, "/context")))
		case strings.HasPrefix(input, "/feedback"):
			err = c.sendFeedback(strings.Fields(strings.TrimPrefix(input, "/feedback")))
		default:
			err = c.sendChat(input)
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func (c *chatClient) setContext(raw string) error {
	if raw == "" {
		c.context = nil
		return nil
	}
	if !json.Valid([]byte(raw)) {
		return fmt.Errorf("context must be a JSON object")
	}
	c.context = json.RawMessage(raw)
	return nil
}

func (c *chatClient) sendChat(text string) error {
	return c.conn.WriteJSON(ws.ChatFrame{
		BaseFrame: ws.BaseFrame{
			Type:      ws.TypeChat,
			Ts:        time.Now().UnixMilli(),
			RequestID: c.requestID(),
		},
		Message: text,
		Context: c.context,
	})
}

func (c *chatClient) sendFeedback(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: /feedback <message_id> <-1|0|1>")
	}
	score, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("feedback must be a number: %w", err)
	}
	return c.conn.WriteJSON(ws.FeedbackFrame{
		BaseFrame: ws.BaseFrame{
			Type:      ws.TypeFeedback,
			Ts:        time.Now().UnixMilli(),
			RequestID: c.requestID(),
		},
		MessageID: args[0],
		Feedback:  &score,
	})
}

func (c *chatClient) readFrames(out io.Writer) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				fmt.Fprintf(out, "\nconnection closed: %v\n", err)
			}
			return
		}
		fmt.Fprintf(out, "\n%s\n> ", formatFrame(data))
	}
}

func formatFrame(data []byte) string {
	var base ws.BaseFrame
	if err := json.Unmarshal(data, &base); err != nil {
		return string(data)
	}

	switch base.Type {
	case ws.TypeReply:
		var frame ws.ReplyFrame
		json.Unmarshal(data, &frame)
		return fmt.Sprintf("[%s] %s\n(message %s, session %s)", frame.Decision, frame.Reply, frame.BotMessageID, frame.SessionID)
	case ws.TypeFeedbackAck:
		var frame ws.FeedbackAckFrame
		json.Unmarshal(data, &frame)
		return "feedback saved for " + frame.MessageID
	case ws.TypeError:
		var frame ws.ErrorFrame
		json.Unmarshal(data, &frame)
		if frame.ModelCode != "" {
			return fmt.Sprintf("error %s (%s): %s", frame.Code, frame.ModelCode, frame.Message)
		}
		return fmt.Sprintf("error %s: %s", frame.Code, frame.Message)
	}
	return string(data)
}
