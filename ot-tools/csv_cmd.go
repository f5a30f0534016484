package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/npillmayer/otname"
	"github.com/npillmayer/otname/batch"
	"github.com/npillmayer/otname/internal/fontload"
	"github.com/npillmayer/otname/ot"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

const csvFileName = "fonts.csv"

// batchEngine creates the engine for a directory and returns it along with
// the path of its CSV file.
func batchEngine(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) (*batch.Engine, string) {
	setVerbosity(flags)
	dir := strings.TrimSpace(args["dir"].Value)
	if dir == "" {
		fatalf("dir is required")
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		fatalf("%s is not a directory", dir)
	}
	csvPath := optString(flags["csv"], "csv")
	if csvPath == "" {
		csvPath = filepath.Join(dir, csvFileName)
	}
	return batch.NewEngine(dir, loadDictionary(flags), otname.Open), csvPath
}

func loadRows(engine *batch.Engine, csvPath string) {
	if err := engine.LoadCSV(csvPath); err != nil {
		fatalf("%v (run csv-init first?)", err)
	}
	pterm.Info.Printf("%d rows loaded from %s\n", engine.Len(), csvPath)
}

func runCSVInitCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	engine, csvPath := batchEngine(args, flags)
	confirm := ot.Confirmation(mustFlagBool(flags["yes"], "yes"))
	if _, err := os.Stat(csvPath); os.IsNotExist(err) {
		confirm = ot.Confirmed
	}
	if !confirm {
		fatalf("%s exists; use --yes to replace it", csvPath)
	}
	files, err := fontload.List(engine.Dir)
	if err != nil {
		fatalf("%v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	report, err := engine.Init(ctx, files, confirm)
	if err != nil {
		fatalf("%v", err)
	}
	if err = engine.SaveCSV(csvPath); err != nil {
		fatalf("%v", err)
	}
	pterm.Success.Printf("%d rows written to %s\n", engine.Len(), csvPath)
	printCollisions(engine.Collisions())
	finish(report)
}

func runCSVRecalcCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	engine, csvPath := batchEngine(args, flags)
	src, err := batch.ParseSource(mustFlagString(flags["source"], "source"))
	if err != nil {
		fatalf("%v", err)
	}
	loadRows(engine, csvPath)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	report, dups := engine.Recalc(ctx, src)
	if err = engine.SaveCSV(csvPath); err != nil {
		fatalf("%v", err)
	}
	pterm.Success.Printf("%d rows recalculated from %s\n", len(report.Succeeded), src)
	printCollisions(dups)
	finish(report)
}

func runCSVApplyCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	engine, csvPath := batchEngine(args, flags)
	loadRows(engine, csvPath)
	printCollisions(engine.Collisions())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	report := engine.Apply(ctx, outputFlags(flags).persister())
	pterm.Success.Printf("%d fonts saved\n", len(report.Succeeded))
	finish(report)
}

func printCollisions(warnings []batch.DuplicateNameWarning) {
	for _, w := range warnings {
		pterm.Warning.Println(w.String())
	}
}
