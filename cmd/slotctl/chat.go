package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wolfman30/flight-intent/internal/conversation"
	"github.com/wolfman30/flight-intent/pkg/logging"
)

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Plan a flight interactively; type \"restart\" to begin again or \"quit\" to leave",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, cleanup, err := buildExtractor(cmd.Context())
			defer cleanup()
			if err != nil {
				return err
			}
			svc := conversation.NewService(e, conversation.NewMemoryStore(time.Hour),
				conversation.WithServiceLogger(logging.Discard()),
			)
			return runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), svc)
		},
	}
}

func runChat(ctx context.Context, in io.Reader, out io.Writer, svc conversation.Service) error {
	reply, err := svc.Start(ctx)
	if err != nil {
		return err
	}
	sessionID := reply.SessionID
	printReply(out, reply)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "bye":
			fmt.Fprintln(out, "Safe travels!")
			return nil
		}

		reply, err := svc.Turn(ctx, sessionID, line)
		if err != nil {
			return err
		}
		printReply(out, reply)
	}
}

func printReply(w io.Writer, r *conversation.Reply) {
	fmt.Fprintf(w, "[%s] %s\n", r.Type, r.Message)
}
