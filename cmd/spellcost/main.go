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
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/udisondev/spellcost/internal/config"
	"github.com/udisondev/spellcost/internal/data"
	"github.com/udisondev/spellcost/internal/magic"
	"github.com/udisondev/spellcost/internal/spellbook"
)

const DefaultConfigPath = "config/spellcost.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fset := flag.NewFlagSet("spellcost", flag.ContinueOnError)
	fset.SetOutput(stderr)
	cfgPath := fset.String("config", "", "config file (default $SPELLCOST_CONFIG or "+DefaultConfigPath+")")
	envFile := fset.String("env", ".env", "dotenv file with SPELLCOST_* overrides")
	asJSON := fset.Bool("json", false, "print results as JSON")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() != 1 {
		return fmt.Errorf("usage: spellcost [flags] <spellbook.yaml>")
	}
	bookPath := fset.Arg(0)

	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", *envFile, err)
	}

	path := *cfgPath
	if path == "" {
		path = DefaultConfigPath
		if p := os.Getenv(config.EnvConfigPath); p != "" {
			path = p
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(tint.NewHandler(stderr, &tint.Options{
		Level:      cfg.SlogLevel(),
		TimeFormat: time.TimeOnly,
	})))
	slog.Debug("config loaded",
		"path", path,
		"default_gold_cost", cfg.DefaultEffectGoldCost,
		"workers", cfg.Workers,
		"catalog", cfg.CatalogPath)

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	book, err := spellbook.LoadBookFile(bookPath)
	if err != nil {
		return err
	}
	spells, err := book.Resolve(catalog)
	if err != nil {
		return fmt.Errorf("resolving spellbook: %w", err)
	}

	opts := []magic.Option{magic.WithDefaultGoldCost(cfg.DefaultEffectGoldCost)}
	if cfg.HasPlayer() {
		player := cfg.Player.Sheet()
		opts = append(opts, magic.WithDefaultCaster(func() (magic.Caster, bool) {
			return player, true
		}))
	}
	calc := magic.NewCalculator(opts...)

	var caster magic.Caster
	if sheet := book.CasterSheet(); sheet != nil {
		caster = sheet
	}

	results, err := spellbook.NewPricer(calc, cfg.Workers).PriceAll(ctx, spells, caster)
	if err != nil {
		return err
	}
	slog.Info("spellbook priced", "book", bookPath, "spells", len(results))

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	return writeTable(stdout, results)
}

func loadCatalog(path string) (*data.Catalog, error) {
	if path == "" {
		cat, err := data.DefaultCatalog()
		if err != nil {
			return nil, fmt.Errorf("loading default effect catalog: %w", err)
		}
		return cat, nil
	}
	return data.LoadCatalogFile(path)
}

func writeTable(w io.Writer, results []spellbook.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SPELL\tGOLD\tSPELL POINTS\t")
	var total magic.SpellCost
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t\n", r.Spell, r.Cost.GoldCost, r.Cost.SpellPointCost)
		total = total.Add(r.Cost)
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t%d\t\n", total.GoldCost, total.SpellPointCost)
	return tw.Flush()
}
