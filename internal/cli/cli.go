package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"time"

	"github.com/davidhbaek/voiso/internal/voiso"
	"github.com/davidhbaek/voiso/internal/wire"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const usage = `usage: voiso [flags] <command>

commands:
  balance                     show the contact center balance
  conversations               list conversations
  send -to <phone> -m <text>  send a WhatsApp message (-m may be a .txt or .pdf file)
  summary                     show balance and conversations together

flags:
`

// Commands
const (
	cmdBalance       = "balance"
	cmdConversations = "conversations"
	cmdSend          = "send"
	cmdSummary       = "summary"
)

type env struct {
	client      *voiso.Client
	command     string
	phoneNumber string
	message     string
	metrics     *prometheus.Registry
	stdout      io.Writer
	stderr      io.Writer
	logger      zerolog.Logger
}

// CLI runs the voiso command with os.Args-style arguments and returns the exit code.
func CLI(args []string) int {
	return Run(args, os.Stdout, os.Stderr)
}

// Run is CLI with explicit output streams.
func Run(args []string, stdout, stderr io.Writer) int {
	app := env{
		stdout: stdout,
		stderr: stderr,
		logger: zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
			Level(zerolog.InfoLevel).
			With().Timestamp().Logger(),
	}

	err := app.fromArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "parsing args: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.run(ctx); err != nil {
		fmt.Fprintf(stderr, "runtime error: %v\n", err)
		return 1
	}
	return 0
}

func (app *env) fromArgs(args []string) error {
	fl := flag.NewFlagSet("voiso", flag.ContinueOnError)
	fl.SetOutput(app.stderr)
	fl.Usage = func() {
		fmt.Fprint(app.stderr, usage)
		fl.PrintDefaults()
	}

	var envFile string
	fl.StringVar(&envFile, "env", ".env", "dotenv file to load before reading VOISO_* variables")

	var apiKey string
	fl.StringVar(&apiKey, "k", "", "Voiso API key (default $VOISO_API_KEY)")
	fl.StringVar(&apiKey, "key", "", "Voiso API key (default $VOISO_API_KEY)")

	var baseURL string
	fl.StringVar(&baseURL, "base-url", "", "Voiso API base URL (default $VOISO_BASE_URL or "+voiso.DefaultBaseURL+")")

	var timeout time.Duration
	fl.DurationVar(&timeout, "timeout", 0, "per-request timeout, 0 waits indefinitely")

	var debug bool
	fl.BoolVar(&debug, "debug", false, "log every HTTP request and response")

	var dumpMetrics bool
	fl.BoolVar(&dumpMetrics, "metrics", false, "print client metrics to stderr when done")

	if err := fl.Parse(args); err != nil {
		return fmt.Errorf("parsing command line arguments: %w", err)
	}

	if debug {
		app.logger = app.logger.Level(zerolog.DebugLevel)
	}

	envFileSet := false
	fl.Visit(func(f *flag.Flag) {
		if f.Name == "env" {
			envFileSet = true
		}
	})

	// godotenv never overrides variables that are already set
	if err := godotenv.Load(envFile); err != nil {
		if envFileSet || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	} else {
		app.logger.Debug().Str("path", envFile).Msg("loaded env file")
	}

	if fl.NArg() == 0 {
		fl.Usage()
		return errors.New("a command is required")
	}

	app.command = fl.Arg(0)
	if err := app.commandArgs(fl.Args()[1:]); err != nil {
		return err
	}

	opts := []voiso.Option{voiso.WithLogger(app.logger)}
	if baseURL != "" {
		opts = append(opts, voiso.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, voiso.WithTimeout(timeout))
	}
	if debug {
		opts = append(opts, voiso.WithDebugLogging(true))
	}
	if dumpMetrics {
		app.metrics = prometheus.NewRegistry()
		opts = append(opts, voiso.WithMetrics(app.metrics))
	}

	client, err := voiso.NewClient(apiKey, opts...)
	if err != nil {
		return err
	}
	app.client = client

	return nil
}

// commandArgs parses the arguments that follow the command name.
func (app *env) commandArgs(args []string) error {
	switch app.command {
	case cmdBalance, cmdConversations, cmdSummary:
		if len(args) > 0 {
			return fmt.Errorf("%s takes no arguments, got %v", app.command, args)
		}
		return nil

	case cmdSend:
		fl := flag.NewFlagSet(cmdSend, flag.ContinueOnError)
		fl.SetOutput(app.stderr)

		var to string
		fl.StringVar(&to, "to", "", "recipient phone number, e.g. +15551234567")

		var message string
		fl.StringVar(&message, "m", "", "message text, or path to a .txt or .pdf file")
		fl.StringVar(&message, "message", "", "message text, or path to a .txt or .pdf file")

		if err := fl.Parse(args); err != nil {
			return fmt.Errorf("parsing %s arguments: %w", cmdSend, err)
		}

		if to == "" {
			return errors.New("send requires -to")
		}
		if message == "" {
			return errors.New("send requires -m")
		}

		text, err := app.readMessage(message)
		if err != nil {
			return err
		}

		app.phoneNumber = to
		app.message = text
		return nil

	default:
		return fmt.Errorf("unknown command %q, must be one of [%s, %s, %s, %s]",
			app.command, cmdBalance, cmdConversations, cmdSend, cmdSummary)
	}
}

func (app *env) run(ctx context.Context) error {
	var payload wire.Payload
	var err error

	switch app.command {
	case cmdBalance:
		payload, err = app.client.GetBalance(ctx)
	case cmdConversations:
		payload, err = app.client.GetConversations(ctx)
	case cmdSend:
		app.logger.Info().Str("to", app.phoneNumber).Int("length", len(app.message)).Msg("sending WhatsApp message")
		payload, err = app.client.SendWhatsAppMessage(ctx, app.phoneNumber, app.message)
	case cmdSummary:
		payload, err = app.summary(ctx)
	}

	if app.metrics != nil {
		if mErr := app.writeMetrics(); mErr != nil {
			app.logger.Warn().Err(mErr).Msg("writing metrics")
		}
	}

	if err != nil {
		return fmt.Errorf("%s: %w", app.command, err)
	}

	return app.print(payload)
}

// summary fetches the balance and conversations concurrently.
func (app *env) summary(ctx context.Context) (wire.Payload, error) {
	var balance, conversations wire.Payload

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balance, err = app.client.GetBalance(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		conversations, err = app.client.GetConversations(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return wire.Payload{
		cmdBalance:       balance,
		cmdConversations: conversations,
	}, nil
}

func (app *env) print(payload wire.Payload) error {
	enc := json.NewEncoder(app.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

func (app *env) writeMetrics() error {
	families, err := app.metrics.Gather()
	if err != nil {
		return err
	}

	enc := expfmt.NewEncoder(app.stderr, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := enc.Encode(family); err != nil {
			return err
		}
	}
	return nil
}
