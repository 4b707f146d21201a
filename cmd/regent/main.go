// Copyright 2025 GCN Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	regent "github.com/gcnlabs/regent"
	"github.com/gcnlabs/regent/ai"
	"github.com/gcnlabs/regent/core"
	"github.com/gcnlabs/regent/orchestrator"
	"github.com/gcnlabs/regent/search"
)

func main() {
	app := &cli.App{
		Name:  "regent",
		Usage: "Compliance document retrieval and question answering",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides config)",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest PDF documents into the corpus",
				ArgsUsage: "<file.pdf> [file.pdf ...]",
				Action:    ingestCommand,
			},
			{
				Name:      "query",
				Usage:     "Answer a question against the corpus",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "chat",
						Usage: "Chat ID to continue, or \"new\" to start a conversation",
					},
					&cli.StringSliceFlag{
						Name:  "docs",
						Usage: "Restrict retrieval to the named documents",
					},
					&cli.BoolFlag{
						Name:  "no-database",
						Usage: "Skip corpus-wide document ranking",
					},
					&cli.BoolFlag{
						Name:  "online",
						Usage: "Include online search context (requires SerpAPI key)",
					},
				},
			},
			{
				Name:      "documents",
				Usage:     "List documents, optionally filtered by name or summary",
				ArgsUsage: "[filter]",
				Action:    documentsCommand,
			},
			{
				Name:      "delete",
				Usage:     "Delete a document from the corpus",
				ArgsUsage: "<name>",
				Action:    deleteCommand,
			},
			{
				Name:      "set-info",
				Usage:     "Replace a document's free-text summary",
				ArgsUsage: "<name> <summary>",
				Action:    setInfoCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openEngine builds an engine from the resolved configuration.
func openEngine(c *cli.Context) (*regent.Engine, error) {
	cfg, err := LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	dbPath := c.String("db")
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	aiOpts := []ai.ConfigOption{}
	if cfg.AI.EmbeddingHost != "" {
		aiOpts = append(aiOpts, ai.WithEmbeddingHost(cfg.AI.EmbeddingHost))
	}
	if cfg.AI.ChatHost != "" {
		aiOpts = append(aiOpts, ai.WithChatHost(cfg.AI.ChatHost))
	}
	if cfg.AI.EmbeddingModel != "" {
		aiOpts = append(aiOpts, ai.WithEmbeddingModel(cfg.AI.EmbeddingModel))
	}
	if cfg.AI.ChatModel != "" {
		aiOpts = append(aiOpts, ai.WithChatModel(cfg.AI.ChatModel))
	}

	engineOpts := []regent.EngineOption{
		regent.WithAIConfig(ai.NewConfig(aiOpts...)),
	}
	if cfg.Web.SerpAPIKey != "" {
		engineOpts = append(engineOpts, regent.WithWebSearch(cfg.Web.SerpAPIKey))
	}
	if searchCfg, ok := searchConfigFrom(cfg); ok {
		engineOpts = append(engineOpts, regent.WithSearchConfig(searchCfg))
	}

	return regent.NewEngine(dbPath, engineOpts...)
}

// searchConfigFrom overlays configured retrieval settings on the defaults.
// Returns false when nothing was configured.
func searchConfigFrom(cfg *AppConfig) (search.Config, bool) {
	out := search.DefaultConfig()
	changed := false

	if cfg.Search.DocThreshold > 0 {
		out.DocThreshold = cfg.Search.DocThreshold
		changed = true
	}
	if cfg.Search.ChunkThreshold > 0 {
		out.ChunkThreshold = cfg.Search.ChunkThreshold
		changed = true
	}
	if cfg.Search.MaxDocuments > 0 {
		out.MaxDocuments = cfg.Search.MaxDocuments
		changed = true
	}
	if cfg.Search.MaxChunksPerDocument > 0 {
		out.MaxChunksPerDocument = cfg.Search.MaxChunksPerDocument
		changed = true
	}
	if cfg.Search.MaxChunks > 0 {
		out.MaxChunks = cfg.Search.MaxChunks
		changed = true
	}

	return out, changed
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one PDF file is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := context.Background()
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		name := filepath.Base(path)
		doc, err := engine.IngestPDF(ctx, name, data)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
		fmt.Fprintf(os.Stderr, "Ingested %s: %d chunks\n", doc.Name, len(doc.Chunks))
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one question is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	chatID := c.String("chat")
	if chatID == "new" {
		chatID = uuid.NewString()
		fmt.Fprintf(os.Stderr, "Chat ID: %s\n", chatID)
	}

	resp, err := engine.HandleQuery(context.Background(), orchestrator.Request{
		Query:     c.Args().First(),
		ChatID:    chatID,
		Documents: c.StringSlice("docs"),
		Settings: core.QuerySettings{
			UseDatabase:      !c.Bool("no-database"),
			UseOnlineContext: c.Bool("online"),
		},
	})
	if err != nil {
		return err
	}

	printResponse(resp)
	return nil
}

func printResponse(resp *core.Response) {
	fmt.Println(resp.Answer)

	if len(resp.References) > 0 {
		fmt.Println("\nReferences:")
		for _, ref := range resp.References {
			fmt.Printf("  %s (pages %s, score %.2f)\n", ref.Name, formatPages(ref.Pages), ref.Score)
		}
	}

	if len(resp.OnlineLinks) > 0 {
		fmt.Println("\nLinks:")
		for _, link := range resp.OnlineLinks {
			fmt.Printf("  %s (%s)\n", link.Title, link.URL)
		}
	}

	if len(resp.RelatedQueries) > 0 {
		fmt.Println("\nRelated:")
		for _, q := range resp.RelatedQueries {
			fmt.Printf("  %s\n", q)
		}
	}
}

func formatPages(pages []int) string {
	if len(pages) == 0 {
		return "-"
	}
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ",")
}

func documentsCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	docs, err := engine.SearchDocuments(context.Background(), c.Args().First())
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if doc.Info != "" {
			fmt.Printf("%s\t%s\n", doc.Name, doc.Info)
		} else {
			fmt.Println(doc.Name)
		}
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one document name is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	return engine.DeleteDocument(context.Background(), c.Args().First())
}

func setInfoCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("a document name and a summary are required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	return engine.UpdateDocumentInfo(context.Background(), c.Args().Get(0), c.Args().Get(1))
}

func setup(c *cli.Context) error {
	// Optional .env for SERPAPI_KEY and friends
	_ = godotenv.Load()

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
