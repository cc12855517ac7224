// Package main provides worldgen, which prints a generated World Bible for a
// style without starting a server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/worldbible/internal/config"
	"github.com/cory-johannsen/worldbible/internal/game/bible"
	"github.com/cory-johannsen/worldbible/internal/game/genesis"
	"github.com/cory-johannsen/worldbible/internal/observability"
)

func main() {
	style := flag.String("style", string(bible.StyleFantasy), "world style")
	format := flag.String("format", "yaml", "output format: yaml or json")
	stylesDir := flag.String("styles-dir", "", "directory of style templates overriding the built-in ones")
	strict := flag.Bool("strict", false, "apply the strict consistency rules")
	list := flag.Bool("list", false, "list the available styles and exit")
	flag.Parse()

	logger, err := observability.NewLogger(config.LoggingConfig{Level: "warn", Format: "console"})
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	catalog, err := genesis.LoadCatalog(*stylesDir)
	if err != nil {
		logger.Fatal("loading style templates", zap.Error(err))
	}

	if *list {
		for _, s := range catalog.Styles() {
			fmt.Println(s)
		}
		return
	}

	w, err := generate(catalog, *style, *strict)
	if err != nil {
		logger.Error("generating world", zap.String("style", *style), zap.Error(err))
		fmt.Fprintln(os.Stderr, bible.Describe(err))
		logger.Sync()
		os.Exit(1)
	}
	if err := write(os.Stdout, w, *format); err != nil {
		logger.Fatal("writing world", zap.Error(err))
	}
}

func generate(catalog *genesis.Catalog, style string, strict bool) (*bible.WorldBible, error) {
	parsed, err := bible.ParseStyle(style)
	if err != nil {
		return nil, err
	}
	in, err := catalog.WorldInput(parsed)
	if err != nil {
		return nil, err
	}
	rules := bible.DefaultRules
	if strict {
		rules = bible.StrictRules
	}
	return bible.ValidateWorldWithRules(in, rules)
}

func write(out io.Writer, w *bible.WorldBible, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(w)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(w); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q: must be yaml or json", format)
	}
}
