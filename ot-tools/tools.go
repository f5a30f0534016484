package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/npillmayer/otname"
	"github.com/npillmayer/otname/batch"
	"github.com/npillmayer/otname/internal/fontload"
	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/otname/wordlist"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'otname.cli'
func tracer() tracing.Trace {
	return tracing.Select("otname.cli")
}

// none is the default of optional string flags.
const none = "-"

func main() {
	initTracing()
	commando.
		SetExecutableName("ot-tools").
		SetVersion("v0.1.0").
		SetDescription("Edit the naming tables of OpenType fonts.\n" +
			"INPUT is a font file or a directory of font files.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	// --- name table --------------------------------------------------------

	writing(commando.
		Register("set-name").
		SetShortDescription("set a name record").
		SetDescription("Write a string to a name record, for Windows and Macintosh unless --platform is given.").
		AddArgument("input", "font file or directory", "").
		AddFlag("name-id,n", "name ID (0 … 32767)", commando.Int, nil).
		AddFlag("string,s", "the string to write", commando.String, nil).
		AddFlag("platform,p", "platform: win|mac|both", commando.String, "both").
		AddFlag("language,l", "language tag (BCP 47), see lang-help", commando.String, "en")).
		SetAction(runSetNameCommand)

	writing(commando.
		Register("del-name").
		SetShortDescription("delete name records").
		SetDescription("Delete the records of a name ID, in one language or in ALL languages.").
		AddArgument("input", "font file or directory", "").
		AddFlag("name-id,n", "name ID (0 … 32767)", commando.Int, nil).
		AddFlag("platform,p", "platform: win|mac|both", commando.String, "both").
		AddFlag("language,l", "language tag (BCP 47) or ALL", commando.String, "en")).
		SetAction(runDelNameCommand)

	writing(commando.
		Register("copy-name").
		SetShortDescription("copy a name record").
		SetDescription("Copy the English record of a name to another name, e.g. -s win:6 -d mac:6.").
		AddArgument("input", "font file or directory", "").
		AddFlag("source,s", "source name as <platform>:<name ID>", commando.String, nil).
		AddFlag("dest,d", "destination name as <platform>:<name ID>", commando.String, nil)).
		SetAction(runCopyNameCommand)

	writing(commando.
		Register("find-repl").
		SetShortDescription("find and replace in names").
		SetDescription("Replace a string in name records. Fonts are only saved if something changed.").
		AddArgument("input", "font file or directory", "").
		AddFlag("old", "string to find", commando.String, nil).
		AddFlag("new", "replacement string, may be empty", commando.String, "").
		AddFlag("name-id,n", "restrict to a name ID", commando.Int, -1).
		AddFlag("platform,p", "platform: win|mac|both", commando.String, "both").
		AddFlag("fix-cff", "replace in the CFF table as well", commando.Bool, nil)).
		SetAction(runFindReplaceCommand)

	writing(commando.
		Register("win2mac").
		SetShortDescription("copy Windows names to Macintosh").
		SetDescription("Create Macintosh records for Windows records which do not have one.").
		AddArgument("input", "font file or directory", "")).
		SetAction(runWin2MacCommand)

	writing(commando.
		Register("del-mac-names").
		SetShortDescription("delete Macintosh names").
		SetDescription("Delete all Macintosh records, except for the name IDs given with --exclude.").
		AddArgument("input", "font file or directory", "").
		AddFlag("exclude,x", "name IDs to keep, e.g. 1,2,4", commando.String, none)).
		SetAction(runDelMacNamesCommand)

	commando.
		Register("lang-help").
		SetShortDescription("list languages").
		SetDescription("List the languages name records may be written in.").
		SetAction(runLangHelpCommand)

	// --- inspection --------------------------------------------------------

	readOnly(commando.
		Register("names").
		SetShortDescription("print name records").
		SetDescription("Print the name records of fonts, and the names in the CFF table.").
		AddArgument("input", "font file or directory", "").
		AddFlag("name-id,n", "restrict to a name ID", commando.Int, -1).
		AddFlag("platform,p", "platform: win|mac|both", commando.String, "both")).
		SetAction(runNamesCommand)

	readOnly(commando.
		Register("info").
		SetShortDescription("font summary").
		SetDescription("Print a summary of the tables and style fields of fonts.").
		AddArgument("input", "font file or directory", "").
		AddFlag("errors,e", "print parse errors and warnings", commando.Bool, nil)).
		SetAction(runInfoCommand)

	// --- batch -------------------------------------------------------------

	readOnly(batchCmd(commando.
		Register("csv-init").
		SetShortDescription("create the batch CSV").
		SetDescription("Create the CSV file of a directory of fonts from the fonts' names and style bits.\n" +
			"An existing CSV file is only replaced with --yes.").
		AddArgument("dir", "directory of font files", "").
		AddFlag("yes,y", "replace an existing CSV file", commando.Bool, nil))).
		SetAction(runCSVInitCommand)

	readOnly(batchCmd(commando.
		Register("csv-recalc").
		SetShortDescription("recalculate the batch CSV").
		SetDescription("Recalculate style attributes and names of all rows from a source: "+
			strings.Join(batch.SourceNames, ", ")).
		AddArgument("dir", "directory of font files", "").
		AddFlag("source,s", "source of the style words", commando.String, "fname"))).
		SetAction(runCSVRecalcCommand)

	writing(batchCmd(commando.
		Register("csv-apply").
		SetShortDescription("apply the batch CSV").
		SetDescription("Write the names and style attributes of the CSV rows to the fonts.").
		AddArgument("dir", "directory of font files", ""))).
		SetAction(runCSVApplyCommand)

	commando.Parse(nil)
}

// writing adds the flags of commands which save fonts.
func writing(cmd *commando.Command) *commando.Command {
	return cmd.
		AddFlag("output-dir", "directory for saved fonts, default is next to the input", commando.String, none).
		AddFlag("no-overwrite", "do not replace existing files, number them instead", commando.Bool, nil).
		AddFlag("recalc-timestamp", "set the modification time of saved fonts", commando.Bool, nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)
}

// readOnly adds the flags of commands which do not save fonts.
func readOnly(cmd *commando.Command) *commando.Command {
	return cmd.AddFlag("verbose,V", "display additional output", commando.Bool, nil)
}

func batchCmd(cmd *commando.Command) *commando.Command {
	return cmd.
		AddFlag("config,c", "word dictionary (YAML or JSON), default is built-in", commando.String, none).
		AddFlag("csv", "CSV file, default is "+csvFileName+" in dir", commando.String, none)
}

func initTracing() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":    "go",
		"trace.otname.cli":   "Error",
		"trace.otname.font":  "Error",
		"trace.otname.names": "Error",
		"trace.otname.batch": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

func setVerbosity(flags map[string]commando.FlagValue) {
	if fv, ok := flags["verbose"]; ok && mustFlagBool(fv, "verbose") {
		for _, key := range []string{"otname.cli", "otname.font", "otname.names", "otname.batch"} {
			tracing.Select(key).SetTraceLevel(tracing.LevelInfo)
		}
	}
}

// --- Running commands on fonts ---------------------------------------------

type output struct {
	dir             string
	overwrite       bool
	recalcTimestamp bool
}

func outputFlags(flags map[string]commando.FlagValue) output {
	return output{
		dir:             optString(flags["output-dir"], "output-dir"),
		overwrite:       !mustFlagBool(flags["no-overwrite"], "no-overwrite"),
		recalcTimestamp: mustFlagBool(flags["recalc-timestamp"], "recalc-timestamp"),
	}
}

func (out output) persister() otname.Persister {
	return otname.Persister{
		OutputDir:       out.dir,
		Overwrite:       out.overwrite,
		RecalcTimestamp: out.recalcTimestamp,
	}
}

// fontFiles lists the fonts of an input argument.
func fontFiles(args map[string]commando.ArgValue, name string) []string {
	input := strings.TrimSpace(args[name].Value)
	if input == "" {
		fatalf("%s is required", name)
	}
	paths, err := fontload.List(input)
	if err != nil {
		fatalf("%v", err)
	}
	if len(paths) == 0 {
		fatalf("no font files in %s", input)
	}
	return paths
}

// editFonts loads every font of the input, calls edit and saves the fonts
// edit reports as changed.
func editFonts(args map[string]commando.ArgValue, flags map[string]commando.FlagValue,
	edit func(f *otname.Font) (bool, error)) {
	//
	setVerbosity(flags)
	paths := fontFiles(args, "input")
	out := outputFlags(flags)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	report := batch.Run(ctx, paths, func(ctx context.Context, path string) error {
		f, err := otname.Load(path)
		if err != nil {
			return err
		}
		changed, err := edit(f)
		if err != nil {
			return err
		}
		if !changed {
			pterm.Info.Printf("%s: no changes\n", path)
			return nil
		}
		dest, err := fontload.OutputPath(path, out.dir, out.overwrite)
		if err != nil {
			return err
		}
		if err = f.Save(dest, ot.RecalcTimestamp(out.recalcTimestamp)); err != nil {
			return err
		}
		pterm.Success.Printf("%s saved\n", dest)
		return nil
	})
	finish(report)
}

// readFonts loads every font of the input and calls show.
func readFonts(args map[string]commando.ArgValue, flags map[string]commando.FlagValue,
	show func(path string, f *otname.Font) error) {
	//
	setVerbosity(flags)
	paths := fontFiles(args, "input")
	report := batch.Run(context.Background(), paths, func(_ context.Context, path string) error {
		f, err := otname.Load(path)
		if err != nil {
			return err
		}
		return show(path, f)
	})
	finish(report)
}

// finish prints the failures of a run and exits with status 1 if there
// were any.
func finish(report batch.Report) {
	for _, f := range report.Failed {
		pterm.Error.Println(f.Error())
	}
	for _, path := range report.Skipped {
		pterm.Warning.Printf("%s: skipped\n", path)
	}
	if err := report.Err(); err != nil {
		fatalf("%v", err)
	}
}

func loadDictionary(flags map[string]commando.FlagValue) *wordlist.Dictionary {
	path := optString(flags["config"], "config")
	if path == "" {
		return wordlist.Default()
	}
	dict, err := wordlist.Load(path)
	if err != nil {
		fatalf("%v", err)
	}
	tracer().Infof("word dictionary loaded from %s", path)
	return dict
}

// --- Flags -----------------------------------------------------------------

func optString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	if s = strings.TrimSpace(s); s == none {
		return ""
	}
	return s
}

func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return s
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func mustNameID(flag commando.FlagValue, name string) sfnt.NameID {
	n := mustFlagInt(flag, name)
	if n < 0 || n > 32767 {
		fatalf("--%s must be in 0 … 32767", name)
	}
	return sfnt.NameID(n)
}

// optNameID reads a name ID flag with default -1.
func optNameID(flag commando.FlagValue, name string) ot.Option[sfnt.NameID] {
	if mustFlagInt(flag, name) < 0 {
		return ot.None[sfnt.NameID]()
	}
	return ot.Some(mustNameID(flag, name))
}

func splitCSVSpace(spec string) []string {
	return strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func parseNameIDs(spec string) ([]sfnt.NameID, error) {
	var ids []sfnt.NameID
	for _, s := range splitCSVSpace(spec) {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > 32767 {
			return nil, fmt.Errorf("bad name ID %q", s)
		}
		ids = append(ids, sfnt.NameID(n))
	}
	return ids, nil
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "ot-tools: "+format+"\n", args...)
	os.Exit(1)
}
