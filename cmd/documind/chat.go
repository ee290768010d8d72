package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/documind/cli/internal/config"
	"github.com/documind/cli/internal/gateway"
	"github.com/documind/cli/internal/render"
	"github.com/documind/cli/internal/scope"
	"github.com/documind/cli/internal/session"
	"github.com/documind/cli/internal/summary"
	"github.com/documind/cli/internal/transcript"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question answering over your documents",
	Long: `Interactive question answering over your documents.

Type a question and get an answer with cited sources and a confidence
rating. Slash commands control the session:

  /docs             list documents
  /scope <id>       restrict questions to one document
  /scope            clear the scope back to the whole corpus
  /summary [id]     summarize the scoped (or given) document
  /quick [n]        list canned prompts, or ask prompt n
  /history          show the server's view of this conversation
  /clear            start a fresh conversation
  /quit             leave the chat`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newGateway()
		if err != nil {
			return err
		}

		var store *transcript.Store
		if store, err = transcript.Open(cfg.Storage.DataDir); err != nil {
			printWarning("Transcript store unavailable, history will not be saved: %v", err)
			store = nil
		} else {
			defer store.Close()
		}

		repl := newChatREPL(client, cfg, store, cmd.InOrStdin(), os.Stdout)
		return repl.run(cmd.Context())
	},
}

// quickPrompts are the canned questions offered by /quick. They are plain
// submissions; nothing about them is special once sent.
var quickPrompts = []string{
	"Summarize the key points of the documents.",
	"What are the most important statistics or figures?",
	"List any dates, deadlines, or time-sensitive items.",
	"What contact information appears in the documents?",
}

// chatREPL wires the session state machine to a line-based terminal loop.
type chatREPL struct {
	client    *gateway.Client
	cfg       config.Config
	store     *transcript.Store
	scope     *scope.Store
	session   *session.Session
	summaries *summary.Coordinator
	sessionID string
	in        io.Reader
	out       io.Writer
}

func newChatREPL(client *gateway.Client, cfg config.Config, store *transcript.Store, in io.Reader, out io.Writer) *chatREPL {
	r := &chatREPL{
		client:    client,
		cfg:       cfg,
		store:     store,
		scope:     scope.NewStore(),
		summaries: summary.New(client, cfg.SummaryTTL()),
		sessionID: uuid.New().String(),
		in:        in,
		out:       out,
	}
	r.session = session.New(session.Config{
		Querier:    client,
		Scope:      r.scope,
		Sink:       r,
		Notifier:   r,
		MaxResults: cfg.Chat.MaxResults,
	})
	return r
}

// MessageAppended renders each log entry the moment it lands and mirrors it
// into the transcript store.
func (r *chatREPL) MessageAppended(m session.Message) {
	if m.Role == session.RoleAssistant {
		fmt.Fprintf(r.out, "\n%s\n", m.Content)
		for _, line := range render.FormatSources(m.Sources) {
			fmt.Fprintf(r.out, "  • %s\n", line)
		}
		fmt.Fprintf(r.out, "  confidence: %s\n\n", render.ConfidenceBucket(m.Confidence))
	}
	r.record(m)
}

// Notify surfaces transient failures without interrupting the loop.
func (r *chatREPL) Notify(message string) {
	printWarning("%s", message)
}

func (r *chatREPL) record(m session.Message) {
	if r.store == nil {
		return
	}
	sources := ""
	if len(m.Sources) > 0 {
		if b, err := json.Marshal(m.Sources); err == nil {
			sources = string(b)
		}
	}
	err := r.store.AppendMessage(transcript.Message{
		SessionID:  r.sessionID,
		Seq:        m.ID,
		Role:       string(m.Role),
		Content:    m.Content,
		Sources:    sources,
		Confidence: m.Confidence,
		CreatedAt:  m.Timestamp,
	})
	if err != nil {
		printWarning("Could not record message: %v", err)
	}
}

// startTranscriptSession upserts the session row for the current id and
// scope. Messages reference it by foreign key, so it must run before the
// first append of any session id, and again whenever the scope changes.
func (r *chatREPL) startTranscriptSession() {
	if r.store == nil {
		return
	}
	docID, _ := r.scope.Selected()
	if err := r.store.StartSession(r.sessionID, time.Now().UTC(), docID); err != nil {
		printWarning("Could not start transcript session: %v", err)
	}
}

func (r *chatREPL) run(ctx context.Context) error {
	r.startTranscriptSession()

	if err := r.refreshDocuments(ctx); err != nil {
		printWarning("Could not load document list: %v", err)
	}

	fmt.Fprintln(r.out, "Connected. Ask a question, or /quit to leave.")
	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := r.dispatch(ctx, line)
			if err != nil {
				printError("%v", err)
			}
			if quit {
				return nil
			}
			continue
		}

		if err := r.ask(ctx, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (r *chatREPL) ask(ctx context.Context, question string) error {
	err := r.session.Submit(ctx, question)
	if errors.Is(err, session.ErrEmptyQuestion) || errors.Is(err, session.ErrSubmitInFlight) {
		printWarning("%v", err)
		return nil
	}
	// AuthError (or a dead context) is the only thing Submit lets escape;
	// the loop cannot continue without a valid credential.
	return err
}

func (r *chatREPL) dispatch(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	cmd, rest := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/exit":
		return true, nil

	case "/docs":
		if err := r.refreshDocuments(ctx); err != nil {
			return false, err
		}
		docs := r.scope.Documents()
		if len(docs) == 0 {
			fmt.Fprintln(r.out, "No documents uploaded yet.")
			return false, nil
		}
		fmt.Fprint(r.out, render.DocumentTable(docs))
		return false, nil

	case "/scope":
		if len(rest) == 0 || rest[0] == "all" {
			r.scope.Clear()
			r.startTranscriptSession()
			fmt.Fprintln(r.out, "Scope cleared; searching the whole corpus.")
			return false, nil
		}
		if err := r.scope.Select(rest[0]); err != nil {
			return false, err
		}
		r.startTranscriptSession()
		doc, _ := r.scope.Lookup(rest[0])
		fmt.Fprintf(r.out, "Scoped to %s.\n", doc.Filename)
		return false, nil

	case "/summary":
		docID := ""
		if len(rest) > 0 {
			docID = rest[0]
		} else if id, ok := r.scope.Selected(); ok {
			docID = id
		}
		if docID == "" {
			return false, fmt.Errorf("no document scoped; use /summary <id> or /scope first")
		}
		return false, r.showSummary(ctx, docID)

	case "/quick":
		if len(rest) == 0 {
			for i, p := range quickPrompts {
				fmt.Fprintf(r.out, "  %d. %s\n", i+1, p)
			}
			return false, nil
		}
		n, convErr := strconv.Atoi(rest[0])
		if convErr != nil || n < 1 || n > len(quickPrompts) {
			return false, fmt.Errorf("pick a prompt between 1 and %d", len(quickPrompts))
		}
		question := quickPrompts[n-1]
		fmt.Fprintf(r.out, "> %s\n", question)
		return false, r.ask(ctx, question)

	case "/history":
		history, err := r.client.Conversation(ctx, r.sessionID)
		if err != nil {
			return false, err
		}
		if len(history) == 0 {
			fmt.Fprintln(r.out, "The server has no history for this conversation yet.")
			return false, nil
		}
		for _, m := range history {
			fmt.Fprintf(r.out, "[%s] %s\n", m.Role, m.Content)
		}
		return false, nil

	case "/clear":
		r.session.Clear()
		if err := r.client.ClearConversation(ctx, r.sessionID); err != nil {
			printWarning("Server-side history not cleared: %v", err)
		}
		r.sessionID = uuid.New().String()
		r.startTranscriptSession()
		fmt.Fprintln(r.out, "Conversation cleared.")
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s", cmd)
	}
}

func (r *chatREPL) showSummary(ctx context.Context, docID string) error {
	rec := r.summaries.Open(ctx, docID)
	if rec.State == summary.StateLoading {
		printStep("Summarizing...")
		var err error
		rec, err = r.summaries.Await(ctx, docID)
		if err != nil {
			return err
		}
	}

	switch rec.State {
	case summary.StateReady:
		fmt.Fprint(r.out, render.Summary(*rec.Response))
		return nil
	case summary.StateError:
		return fmt.Errorf("summary failed: %s (re-run /summary to retry)", rec.Err)
	default:
		return fmt.Errorf("summary unavailable")
	}
}

func (r *chatREPL) refreshDocuments(ctx context.Context) error {
	docs, err := r.client.Documents(ctx)
	if err != nil {
		return err
	}
	r.scope.Replace(docs)
	return nil
}
