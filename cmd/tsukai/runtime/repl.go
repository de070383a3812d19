package runtime

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/shlex"

	"github.com/harunnryd/tsukai/internal/logger"
	"github.com/harunnryd/tsukai/internal/session"
	"github.com/harunnryd/tsukai/internal/tool/formatter"
)

// REPL is the interactive front end. Each submitted line runs one full
// orchestration; slash commands are handled locally.
type REPL struct {
	components *Components
	reader     *bufio.Reader
	out        io.Writer
	formatter  *formatter.TableFormatter
	sessionID  string
}

func NewREPL(components *Components) *REPL {
	return &REPL{
		components: components,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		formatter:  formatter.NewTableFormatter(),
		sessionID:  session.NewSessionID(),
	}
}

func (r *REPL) Start() error {
	fmt.Fprintf(r.out, "tsukai interactive session: %s\n", r.sessionID)
	fmt.Fprintln(r.out, "Type a question, or /tools, /session, /reset, /exit.")

	for {
		select {
		case <-r.components.Ctx.Done():
			return nil
		default:
			if err := r.readLine(); err != nil {
				if err == io.EOF {
					return nil
				}
				fmt.Fprintf(r.out, "error: %v\n", err)
			}
		}
	}
}

func (r *REPL) readLine() error {
	fmt.Fprint(r.out, "> ")
	text, err := r.reader.ReadString('\n')
	if err != nil {
		return err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if strings.HasPrefix(text, "/") {
		return r.handleCommand(text)
	}
	return r.ask(text)
}

func (r *REPL) handleCommand(input string) error {
	parts, err := shlex.Split(input)
	if err != nil {
		return fmt.Errorf("parse command: %w", err)
	}
	if len(parts) == 0 {
		return nil
	}

	switch parts[0] {
	case "/exit", "/quit":
		return io.EOF
	case "/tools":
		fmt.Fprintln(r.out, r.formatter.FormatCatalog(r.components.Runner.Catalog()))
		return nil
	case "/session":
		fmt.Fprintf(r.out, "session: %s\n", r.sessionID)
		return nil
	case "/reset":
		if err := r.components.Sessions.Reset(r.sessionID); err != nil {
			return err
		}
		r.sessionID = session.NewSessionID()
		fmt.Fprintf(r.out, "new session: %s\n", r.sessionID)
		return nil
	default:
		fmt.Fprintf(r.out, "unknown command %s\n", parts[0])
		return nil
	}
}

func (r *REPL) ask(question string) error {
	ctx := logger.WithSessionID(r.components.Ctx, r.sessionID)

	result, err := r.components.Orchestrator.Run(ctx, question)
	if err != nil {
		if context.Cause(ctx) != nil {
			return io.EOF
		}
		return err
	}

	for _, entry := range session.EntriesFromConversation(result.Conversation) {
		if err := r.components.Sessions.Append(r.sessionID, entry); err != nil {
			return fmt.Errorf("record transcript: %w", err)
		}
	}

	if result.Incomplete() {
		fmt.Fprintf(r.out, "(incomplete after %d model calls)\n", result.ModelCalls)
	}
	fmt.Fprintln(r.out, result.Answer)
	return nil
}
