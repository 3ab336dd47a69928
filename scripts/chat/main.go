// Command chat is a terminal chat client for a running staffhub
// server, mainly useful for manual testing.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/staffhub/staffhub-server/internal/proto"
	"github.com/staffhub/staffhub-server/pkg/client"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, client.ErrClosed) {
		log.Printf("chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	token := flag.String("token", "", "JWT from /api/auth/login")
	userID := flag.Int64("user-id", 0, "user id matching the token")
	firstName := flag.String("first-name", "cli", "first name")
	lastName := flag.String("last-name", "user", "last name")
	role := flag.String("role", "employee", "role matching the token")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(client.Config{
		URL:   *addr,
		Token: *token,
		Identity: client.Identity{
			UserID:    *userID,
			FirstName: *firstName,
			LastName:  *lastName,
			Role:      *role,
		},
	})

	c.Subscribe(proto.EventChatHistory, func(data json.RawMessage) {
		var messages []proto.Message
		if err := json.Unmarshal(data, &messages); err != nil {
			return
		}
		for _, m := range messages {
			fmt.Printf("%s %s: %s\n", m.FirstName, m.LastName, m.Content)
		}
	})
	c.Subscribe(proto.EventNewMessage, func(data json.RawMessage) {
		var m proto.Message
		if err := json.Unmarshal(data, &m); err != nil {
			return
		}
		fmt.Printf("%s %s: %s\n", m.FirstName, m.LastName, m.Content)
	})
	c.Subscribe(proto.EventUsersOnline, func(data json.RawMessage) {
		var users []proto.User
		if err := json.Unmarshal(data, &users); err != nil {
			return
		}
		names := make([]string, 0, len(users))
		for _, u := range users {
			names = append(names, u.FirstName)
		}
		fmt.Printf("online: %s\n", strings.Join(names, ", "))
	})
	c.Subscribe(proto.EventUserTyping, func(data json.RawMessage) {
		var ev proto.TypingEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return
		}
		if ev.IsTyping {
			fmt.Printf("%s is typing...\n", ev.User.FirstName)
		}
	})

	runErr := make(chan error, 1)
	go func() { runErr <- c.Run(ctx) }()

	fmt.Printf("Connecting to %s. Type messages and press Enter. Ctrl+C to exit.\n", *addr)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			if err := c.SendMessage(ctx, text); err != nil {
				log.Printf("send: %v", err)
			}
		}
		c.Close()
	}()

	return <-runErr
}
