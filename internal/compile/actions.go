package compile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/urfave/cli/v2"

	"github.com/protocontext/compiler/models"
	"github.com/protocontext/compiler/pkg/compiler"
	"github.com/protocontext/compiler/pkg/store"
)

// Job is one document to compile during a bulk run.
type Job struct {
	Item     *models.ContentItem
	Children []*models.ContentItem
}

// Result reports the outcome of one compiled document.
type Result struct {
	Slug     string
	FilePath string
	Bytes    int
	Error    error
}

func newLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// CompileAction compiles one document, the site index, or the whole site.
func CompileAction(c *cli.Context) error {
	logger := newLogger(c)

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		// The default config path is optional; an explicit one is not.
		if c.IsSet("config") || !errors.Is(err, os.ErrNotExist) {
			logger.Error("failed to load site config", "error", err)
			os.Exit(2)
		}
		cfg = models.SiteConfig{}
		cfg.ApplyDefaults()
	}

	items, err := loadItems(c, logger)
	if err != nil {
		logger.Error("failed to load content", "error", err)
		os.Exit(2)
	}
	if len(items) == 0 {
		logger.Warn("content source is empty")
	}

	comp := compiler.New(cfg)

	switch {
	case c.Bool("all"):
		return compileAll(c, logger, comp, items)
	case c.Bool("index"):
		doc := comp.CompileIndex(items)
		return writeDocument(c.String("out"), compiler.Render(doc))
	case c.IsSet("slug"):
		slug := c.String("slug")
		item := findItem(items, slug)
		doc := comp.Compile(item, childrenOf(items, slug))
		if doc == nil {
			fmt.Fprintf(os.Stderr, "Error: no content item with slug %q\n", slug)
			os.Exit(1)
		}
		return writeDocument(c.String("out"), compiler.Render(doc))
	default:
		fmt.Fprintln(os.Stderr, "Error: pick a compile target")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  protocontext compile --snapshot content.yaml --slug about`)
		fmt.Fprintln(os.Stderr, `  protocontext compile --db snapshot.db --index`)
		fmt.Fprintln(os.Stderr, `  protocontext compile --db snapshot.db --all --output-dir dist`)
		os.Exit(1)
	}
	return nil
}

// compileAll fans documents out to a worker pool and writes one
// context.txt per item plus the site index.
func compileAll(c *cli.Context, logger *slog.Logger, comp *compiler.Compiler, items []*models.ContentItem) error {
	outputDir := c.String("output-dir")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	workerCount := c.Int("workers")
	if workerCount <= 0 {
		workerCount = 4
	}

	var wg sync.WaitGroup
	jobs := make(chan Job, len(items))
	results := make(chan Result, len(items))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(w, logger, comp, outputDir, &wg, jobs, results)
	}

	for _, item := range items {
		jobs <- Job{Item: item, Children: childrenOf(items, item.Slug)}
	}
	close(jobs)

	wg.Wait()
	close(results)

	var done, failed int
	for result := range results {
		if result.Error != nil {
			failed++
			logger.Error("compile failed", "slug", result.Slug, "error", result.Error)
			continue
		}
		done++
	}

	// The index is cheap and depends on every item, so it stays out of
	// the pool.
	indexPath := filepath.Join(outputDir, "context.txt")
	if err := os.WriteFile(indexPath, []byte(compiler.Render(comp.CompileIndex(items))), 0o644); err != nil {
		return fmt.Errorf("failed to write site index: %w", err)
	}

	fmt.Printf("Compiled %d/%d documents to %s\n", done, len(items), outputDir)
	if failed > 0 {
		os.Exit(1)
	}
	return nil
}

// worker compiles jobs from the jobs channel and reports each outcome
// on the results channel.
func worker(id int, logger *slog.Logger, comp *compiler.Compiler, outputDir string, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		result := Result{Slug: job.Item.Slug}

		doc := comp.Compile(job.Item, job.Children)
		if doc == nil {
			result.Error = fmt.Errorf("item %q produced no document", job.Item.Slug)
			results <- result
			continue
		}

		rendered := compiler.Render(doc)
		path := filepath.Join(outputDir, filepath.FromSlash(job.Item.RelPath()), "context.txt")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			result.Error = err
			results <- result
			continue
		}
		if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
			result.Error = err
			results <- result
			continue
		}

		result.FilePath = path
		result.Bytes = len(rendered)
		results <- result
		logger.Info("compiled document", "worker", id, "slug", job.Item.Slug, "bytes", result.Bytes)
	}
}

// loadItems reads content from whichever source flag was given. The
// SQLite store wins when both are set.
func loadItems(c *cli.Context, logger *slog.Logger) ([]*models.ContentItem, error) {
	if c.IsSet("db") {
		db, err := store.Open(c.String("db"))
		if err != nil {
			return nil, err
		}
		defer db.Close()
		logger.Info("loading content from database", "path", c.String("db"))
		return db.AllItems()
	}
	if c.IsSet("snapshot") {
		logger.Info("loading content from snapshot", "path", c.String("snapshot"))
		return store.LoadSnapshot(c.String("snapshot"))
	}
	return nil, fmt.Errorf("no content source: pass --db or --snapshot")
}

func findItem(items []*models.ContentItem, slug string) *models.ContentItem {
	for _, it := range items {
		if it.Slug == slug {
			return it
		}
	}
	return nil
}

func childrenOf(items []*models.ContentItem, slug string) []*models.ContentItem {
	var children []*models.ContentItem
	for _, it := range items {
		if it.ParentSlug == slug {
			children = append(children, it)
		}
	}
	return children
}

// writeDocument sends the rendered document to a file, or stdout when
// no output path was given.
func writeDocument(out, rendered string) error {
	if out == "" || out == "-" {
		fmt.Print(rendered)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(out, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
	return nil
}

// ImportAction loads a YAML snapshot into the SQLite store so later
// compiles can read from it.
func ImportAction(c *cli.Context) error {
	logger := newLogger(c)

	items, err := store.LoadSnapshot(c.String("snapshot"))
	if err != nil {
		logger.Error("failed to load snapshot", "error", err)
		os.Exit(2)
	}

	db, err := store.Open(c.String("db"))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer db.Close()

	if err := db.Import(items); err != nil {
		logger.Error("failed to import snapshot", "error", err)
		os.Exit(2)
	}

	fmt.Printf("Imported %d items into %s\n", len(items), c.String("db"))
	return nil
}
