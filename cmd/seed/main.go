package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-crud/config"
	"github.com/oksasatya/go-user-crud/internal/application"
	"github.com/oksasatya/go-user-crud/internal/container"
	"github.com/oksasatya/go-user-crud/pkg/helpers"
)

var demoUsers = []struct {
	Name  string
	Email string
	Age   int
}{
	{"Test One", "test1@example.com", 21},
	{"Test Two", "test2@example.com", 32},
	{"Test Three", "test3@example.com", 43},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel, os.Stderr)

	ctx := context.Background()
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer c.Close()

	_, err = seed(ctx, c.Users, os.Stdout)
	return err
}

// seed creates the demo users whose email is not taken yet and returns how many it created.
func seed(ctx context.Context, svc application.UserService, out io.Writer) (int, error) {
	existing, err := svc.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, u := range existing {
		seen[u.Email] = true
	}

	created := 0
	for _, d := range demoUsers {
		if seen[d.Email] {
			fmt.Fprintf(out, "skipped existing user: email=%s\n", d.Email)
			continue
		}
		u, err := svc.Create(ctx, d.Name, d.Email, d.Age)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", d.Email, err)
		}
		created++
		fmt.Fprintf(out, "seeded user: %s\n", u)
	}
	return created, nil
}
