package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"

	"duckai/internal/infra/config"
	"duckai/internal/infra/logger"
	"duckai/internal/infra/tracer"
	"duckai/pkg/duckai"
)

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		showUsage()
	case "send":
		if err := runSend(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "send: %v\n", err)
			os.Exit(1)
		}
	case "listen":
		if err := runListen(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "listen: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\nRun 'duckai --help' for usage information.\n", os.Args[1])
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`duckai - StartDuck AI messaging CLI

USAGE:
    duckai COMMAND [FLAGS]

COMMANDS:
    send      Send a text message to the configured chatbot
    listen    Run a local webhook listener and print incoming replies

Credentials come from the config file (-config, default duckai.yaml) or
DUCKAI_API_KEY / DUCKAI_CHATBOT_UUID / DUCKAI_WEBHOOK environment variables.`)
}

// setup loads config and builds the logger, tracer shutdown, and client
// shared by both subcommands.
func setup(configPath string) (*config.Config, *slog.Logger, func() error, func(context.Context) error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	shutdownTracer, err := tracer.Setup(context.Background(), cfg.Tracer)
	if err != nil {
		closeLog()
		return nil, nil, nil, nil, err
	}

	return cfg, log, closeLog, shutdownTracer, nil
}

func runSend(args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	configPath := fs.String("config", "duckai.yaml", "config file path")
	clientID := fs.String("client", "", "client ID (generated when empty)")
	text := fs.String("text", "", "message text to send")
	viaCRM := fs.Bool("crm", false, "route through the CRM pipeline")
	fs.Parse(args)

	if *text == "" {
		return errors.New("-text is required")
	}

	cfg, log, closeLog, shutdownTracer, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer closeLog()
	defer shutdownTracer(context.Background())

	client := duckai.New(cfg.API.Key, cfg.API.ChatbotUUID, cfg.API.Webhook,
		duckai.WithAPIURL(cfg.API.URL),
		duckai.WithTimeout(cfg.API.Timeout),
		duckai.WithLogger(log),
	)

	id := *clientID
	if id == "" {
		id = duckai.NewClientID()
		log.Info("generated client ID", "client_id", id)
	}

	var opts []duckai.SendOption
	if *viaCRM {
		opts = append(opts, duckai.ViaCRM())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	msg := duckai.NewTextMessage(*text)
	if err := client.SendMessagesContext(ctx, id, []duckai.Message{msg}, opts...); err != nil {
		return err
	}

	fmt.Printf("sent; reply will arrive at %s (client_id=%s)\n", cfg.API.Webhook, id)
	return nil
}

func runListen(args []string) error {
	fs := flag.NewFlagSet("listen", flag.ExitOnError)
	configPath := fs.String("config", "duckai.yaml", "config file path")
	plain := fs.Bool("plain", false, "print raw text instead of rendered markdown")
	fs.Parse(args)

	cfg, log, closeLog, shutdownTracer, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer closeLog()
	defer shutdownTracer(context.Background())

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}

	handler := duckai.NewReplyHandler(func(_ context.Context, reply *duckai.ReplyMessage) {
		fmt.Printf("reply for client %s:\n", reply.ClientID)
		if *plain {
			fmt.Println(reply.Text)
			return
		}
		rendered, err := renderer.Render(reply.TextMarkdown)
		if err != nil {
			fmt.Println(reply.Text)
			return
		}
		fmt.Print(rendered)
	}, log)

	mux := http.NewServeMux()
	mux.Handle(cfg.Listen.Path, handler)

	srv := &http.Server{
		Addr:              cfg.Listen.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("webhook listener starting", "addr", cfg.Listen.Addr, "path", cfg.Listen.Path)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("webhook listener shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("webhook listener: %w", err)
	}
}
