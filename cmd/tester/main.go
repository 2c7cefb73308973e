// Command tester is a manual smoke client for the notification channel.
// It logs in, opens the websocket, subscribes to the caller's mailbox
// and prints every push until interrupted.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stage-link/channel"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BaseURL  string `envconfig:"TESTER_BASE_URL" default:"http://localhost:8080"`
	WsURL    string `envconfig:"TESTER_WS_URL" default:"ws://localhost:8080/ws"`
	Email    string `envconfig:"TESTER_EMAIL"`
	Password string `envconfig:"TESTER_PASSWORD"`
	// TESTER_TOKEN skips the login call when set
	Token       string `envconfig:"TESTER_TOKEN"`
	Destination string `envconfig:"TESTER_DESTINATION"`
	Colours     bool   `envconfig:"TESTER_COLOURS" default:"true"`
}

func main() {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Obtain a token (login unless one was provided)
	token := config.Token
	if token == "" {
		var err error
		if token, err = login(ctx, config); err != nil {
			log.Fatalf("Login failed: %v", err)
		}
	}

	// 2. Open the channel with the bearer header
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, _, err := websocket.Dial(ctx, config.WsURL, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		log.Fatalf("Connection failed: %v", err)
	}
	defer conn.CloseNow()

	// 3. Subscribe to the requested mailbox
	if config.Destination != "" {
		subscribe := channel.ControlFrame{Type: channel.FrameSubscribe, Destination: config.Destination}
		if err := wsjson.Write(ctx, conn, subscribe); err != nil {
			log.Fatalf("Subscribe failed: %v", err)
		}
	}

	// 4. Print everything the server sends
	for {
		var frame channel.ServerFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			if ctx.Err() != nil {
				fmt.Println("Bye.")
				return
			}
			log.Fatalf("Connection lost: %v", err)
		}
		printFrame(config, frame)
	}
}

func login(ctx context.Context, config Config) (string, error) {
	body, _ := json.Marshal(map[string]string{"email": config.Email, "password": config.Password})
	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		config.BaseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := (&http.Client{Timeout: 10 * time.Second}).Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", response.StatusCode)
	}

	var reply struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(response.Body).Decode(&reply); err != nil {
		return "", err
	}
	return reply.Token, nil
}

func printFrame(config Config, frame channel.ServerFrame) {
	render := func(c color.Color, s string) string {
		if config.Colours {
			return c.Render(s)
		}
		return s
	}

	switch frame.Type {
	case channel.FrameConnected:
		fmt.Println(render(color.FgGreen, "Connected."))
	case channel.FrameSubscribed:
		fmt.Println(render(color.FgGreen, "Subscribed to "+frame.Destination))
	case channel.FrameError:
		fmt.Println(render(color.FgRed, fmt.Sprintf("Error [%s]: %s", frame.Code, frame.Reason)))
	case channel.FrameNotification:
		if frame.Payload == nil {
			return
		}
		fmt.Printf("%s %s\n  %s\n  %s\n",
			render(color.FgYellow, "["+frame.Payload.SenderType+"]"),
			render(color.FgCyan, frame.Payload.Title),
			frame.Payload.Message,
			frame.Payload.CreatedAt.Format(time.RFC822),
		)
	default:
		fmt.Printf("Unknown frame: %+v\n", frame)
	}
}
