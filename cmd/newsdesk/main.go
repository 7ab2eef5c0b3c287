package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/eringen/newsdesk"
	"github.com/eringen/newsdesk/logger"
	"github.com/eringen/newsdesk/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "create-user":
		if len(os.Args) < 5 {
			fmt.Fprintln(os.Stderr, "Usage: newsdesk create-user <email> <first-name> <last-name>")
			os.Exit(1)
		}
		if err := runCreateUser(os.Args[2], os.Args[3], os.Args[4]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("newsdesk %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	cfg, err := newsdesk.LoadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel)

	app := newsdesk.New(cfg, views.Default())
	defer app.Close()
	if err := app.Init(context.Background()); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("newsdesk %s listening on %s", version, cfg.Addr)
		errCh <- app.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Log.Infof("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Shutdown(ctx)
}

// runCreateUser adds an account from the command line. The password is read
// from NEWSDESK_PASSWORD, or from the first line of stdin.
func runCreateUser(email, first, last string) error {
	cfg, err := newsdesk.LoadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel)

	password := os.Getenv("NEWSDESK_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	ctx := context.Background()
	repo, err := newsdesk.OpenRepository(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer repo.Close()

	u, err := newsdesk.RegisterUser(ctx, repo, newsdesk.SignUpInput{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  password,
		Repeat:    password,
	})
	if newsdesk.IsValidation(err) {
		var msgs []string
		for field, msg := range newsdesk.FieldErrors(err) {
			msgs = append(msgs, field+": "+msg)
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	if err != nil {
		return err
	}
	fmt.Printf("Created user %s (%s)\n", u.Email, u.ID)
	return nil
}

func printUsage() {
	fmt.Println(`newsdesk - A publishing site for student associations

Usage:
  newsdesk <command> [arguments]

Commands:
  serve                                  Start the web server
  create-user <email> <first> <last>     Add a member account
  version                                Print the newsdesk version
  help                                   Show this help message

Configuration is read from the environment and an optional .env file.
SESSION_SECRET and JWT_SECRET are required.

Examples:
  newsdesk serve
  NEWSDESK_PASSWORD=secret123 newsdesk create-user ana@example.org Ana Horvat`)
}
