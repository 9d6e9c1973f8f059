package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"

	"github.com/ipvault/ipvault/internal/cache"
	"github.com/ipvault/ipvault/internal/config"
	"github.com/ipvault/ipvault/internal/model"
	"github.com/ipvault/ipvault/internal/repository"
)

type output struct {
	Backend string   `json:"backend"`
	Seeded  int      `json:"seeded"`
	IDs     []string `json:"ids"`
}

// storeOpener returns the configured item store and a func releasing it.
type storeOpener func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.ItemRepository, func(), error)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}

	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, openStore); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, open storeOpener) error {
	fset := flag.NewFlagSet("seed-items", flag.ContinueOnError)
	input := fset.String("input", "-", `JSON file of {"items": [...]} or a bare array; "-" reads stdin`)
	format := fset.String("format", "plain", "Output format: plain or json")
	if err := fset.Parse(args); err != nil {
		return err
	}

	*format = strings.ToLower(*format)
	if *format != "plain" && *format != "json" {
		return errors.New("invalid format; use plain or json")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	items, err := readItems(*input, stdin)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	repo, cleanup, err := open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer cleanup()

	out := output{Backend: cfg.StoreBackend, IDs: make([]string, 0, len(items))}
	now := time.Now()
	for i := range items {
		item := &items[i]
		if item.ID == "" {
			item.ID = ulid.Make().String()
		}
		if !item.HasRequiredFields() {
			return fmt.Errorf("item %d (%s) has no owner", i, item.ID)
		}
		item.EnsureCreatedAt(now)
		if err := repo.Append(ctx, item); err != nil {
			return fmt.Errorf("append item: %w", err)
		}
		out.Seeded++
		out.IDs = append(out.IDs, item.ID)
	}

	if *format == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	_, err = fmt.Fprintf(stdout, "seeded %d items into %s\n", out.Seeded, out.Backend)
	return err
}

func readItems(path string, stdin io.Reader) ([]model.MintedItem, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var doc struct {
		Items []model.MintedItem `json:"items"`
	}
	if err := json.Unmarshal(data, &doc); err == nil && doc.Items != nil {
		return doc.Items, nil
	}

	var items []model.MintedItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("input is neither {\"items\": [...]} nor an array: %w", err)
	}
	return items, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.ItemRepository, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreFile:
		repo := repository.NewFileItemRepository(cfg.DataFile, logger)
		return repo, func() {}, nil
	case config.StorePostgres:
		repo, err := repository.NewPostgresItemRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	case config.StoreRedis:
		c, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewRedisItemRepository(c.Client(), repository.DefaultItemsKey, logger)
		return repo, func() { _ = c.Close() }, nil
	default:
		return nil, nil, repository.ErrUnknownBackend
	}
}
