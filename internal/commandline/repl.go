// Package commandline runs a concierge conversation over a terminal
package commandline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ethanbaker/concierge/internal/concierge"
	"github.com/ethanbaker/concierge/pkg/conversation"
	"github.com/pkg/errors"
)

const (
	exitCommand  = "exit"
	resetCommand = "/reset"
)

// Run reads guest input line by line until EOF or "exit". A line "/N" presses the
// N-th quick reply and "/reset" clears the conversation
func Run(ctx context.Context, svc *concierge.Service, in io.Reader, out io.Writer) error {
	persona := svc.Persona()

	sess, err := svc.NewSession(ctx)
	if err != nil {
		return err
	}
	id := sess.ID.String()

	fmt.Fprintf(out, "%s\n%s\n", persona.Title, persona.Subtitle)
	printHelp(out, svc.QuickReplies())
	printTurn(out, persona, conversation.AssistantTurn(persona.Greeting))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		switch {
		case input == exitCommand:
			return nil

		case input == "":
			continue

		case input == resetCommand:
			if _, err := svc.Reset(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(out, "Conversation cleared.")
			printTurn(out, persona, conversation.AssistantTurn(persona.Greeting))

		case strings.HasPrefix(input, "/"):
			replyID, ok := quickReplyID(svc.QuickReplies(), input[1:])
			if !ok {
				fmt.Fprintf(out, "Unknown command %q\n", input)
				printHelp(out, svc.QuickReplies())
				continue
			}
			if err := exchange(ctx, out, persona, func() (*concierge.Outcome, error) {
				return svc.QuickReply(ctx, id, replyID)
			}); err != nil {
				return err
			}

		default:
			if err := exchange(ctx, out, persona, func() (*concierge.Outcome, error) {
				return svc.Submit(ctx, id, input)
			}); err != nil {
				return err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "error reading input")
	}

	return nil
}

func exchange(ctx context.Context, out io.Writer, persona *conversation.Persona, event func() (*concierge.Outcome, error)) error {
	fmt.Fprintf(out, "%s is typing...\n", persona.Name)

	outcome, err := event()
	if err != nil {
		return err
	}
	if outcome.Ignored {
		return nil
	}

	printTurn(out, persona, outcome.Reply)
	if outcome.Notice != "" {
		fmt.Fprintf(out, "! %s\n", outcome.Notice)
	}

	return ctx.Err()
}

func quickReplyID(replies []conversation.QuickReply, arg string) (string, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(replies) {
		return "", false
	}
	return replies[n-1].ID, true
}

func printTurn(out io.Writer, persona *conversation.Persona, turn conversation.Turn) {
	speaker := "You"
	if turn.Role == conversation.RoleAssistant {
		speaker = persona.Name
	}
	fmt.Fprintf(out, "%s: %s\n", speaker, turn.Content)
}

func printHelp(out io.Writer, replies []conversation.QuickReply) {
	fmt.Fprintln(out, "Type a question, 'exit' to quit, /reset to clear the conversation, or a quick reply:")
	for i, r := range replies {
		fmt.Fprintf(out, "  /%d  %s\n", i+1, r.Label)
	}
}
