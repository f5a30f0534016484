package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/otname"
	"github.com/npillmayer/otname/batch"
	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/otname/wordlist"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'otname.cli'
func tracer() tracing.Trace {
	return tracing.Select("otname.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":    "go",
		"trace.otname.cli":   "Info",
		"trace.otname.batch": "Error",
		"trace.otname.font":  "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	dir := flag.String("dir", ".", "Directory of font files")
	config := flag.String("config", "", "Word dictionary (YAML or JSON)")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)               // will set the correct level later
	pterm.Info.Println("Welcome to the OpenType naming CLI") // colored welcome message
	//
	// set up REPL
	repl, err := readline.New("otname > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	intp := &Intp{repl: repl}
	//
	// load dictionary and batch
	if err := intp.loadDictionary(*config); err != nil {
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	if err := intp.openBatch(*dir); err != nil {
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Type 'help' for a list of commands, quit with <ctrl>D") // inform user how to stop the CLI
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	repl     *readline.Instance
	engine   *batch.Engine
	csvPath  string
	dict     *wordlist.Dictionary
	dictPath string
	dirty    bool // rows changed since last save
}

func (intp *Intp) String() string {
	if intp == nil || intp.engine == nil {
		return "()"
	}
	s := fmt.Sprintf("( dir=%s rows=%d", intp.engine.Dir, intp.engine.Len())
	if intp.dirty {
		s += " modified"
	}
	return s + " )"
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	if intp.dirty {
		pterm.Warning.Println("rows have not been saved")
	}
	pterm.Info.Println("Good bye!")
}

// Op is a parsed command line: an op-code and its arguments.
type Op struct {
	code int
	name string
	args []string
}

const (
	QUIT int = iota
	HELP
	OPEN
	INIT
	ROWS
	NAMES
	RECALC
	FAMILY
	EDIT
	SAVE
	APPLY
	RESET
	DICT
	WEIGHT
	WIDTH
	ITALIC
	OBLIQUE
	DELWEIGHT
	DELWIDTH
	DICTRESET
	DICTSAVE
	DICTLOAD
	COLLISIONS
)

var opMap = map[string]int{
	"quit":       QUIT,
	"exit":       QUIT,
	"help":       HELP,
	"open":       OPEN,
	"init":       INIT,
	"rows":       ROWS,
	"names":      NAMES,
	"recalc":     RECALC,
	"family":     FAMILY,
	"edit":       EDIT,
	"save":       SAVE,
	"apply":      APPLY,
	"reset":      RESET,
	"dict":       DICT,
	"weight":     WEIGHT,
	"width":      WIDTH,
	"italic":     ITALIC,
	"oblique":    OBLIQUE,
	"delweight":  DELWEIGHT,
	"delwidth":   DELWIDTH,
	"dictreset":  DICTRESET,
	"dictsave":   DICTSAVE,
	"dictload":   DICTLOAD,
	"collisions": COLLISIONS,
}

// parseCommand splits a line into words, honoring double quotes, and looks
// up the op-code of the first word.
func parseCommand(line string) (*Op, error) {
	words, err := splitWords(line)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, errors.New("empty command")
	}
	name := strings.ToLower(words[0])
	code, ok := opMap[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q, try 'help'", words[0])
	}
	tracer().Debugf("parsed command: %s %v", name, words[1:])
	return &Op{code: code, name: name, args: words[1:]}, nil
}

func splitWords(line string) ([]string, error) {
	var words []string
	var b strings.Builder
	inQuotes, inWord := false, false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes, inWord = !inQuotes, true
		case !inQuotes && (r == ' ' || r == '\t'):
			if inWord {
				words = append(words, b.String())
				b.Reset()
				inWord = false
			}
		default:
			b.WriteRune(r)
			inWord = true
		}
	}
	if inQuotes {
		return nil, errors.New("unbalanced quotes")
	}
	if inWord {
		words = append(words, b.String())
	}
	return words, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:       quitOp,
	HELP:       helpOp,
	OPEN:       openOp,
	INIT:       initOp,
	ROWS:       rowsOp,
	NAMES:      namesOp,
	RECALC:     recalcOp,
	FAMILY:     familyOp,
	EDIT:       editOp,
	SAVE:       saveOp,
	APPLY:      applyOp,
	RESET:      resetOp,
	DICT:       dictOp,
	WEIGHT:     weightOp,
	WIDTH:      widthOp,
	ITALIC:     italicOp,
	OBLIQUE:    obliqueOp,
	DELWEIGHT:  delWeightOp,
	DELWIDTH:   delWidthOp,
	DICTRESET:  dictResetOp,
	DICTSAVE:   dictSaveOp,
	DICTLOAD:   dictLoadOp,
	COLLISIONS: collisionsOp,
}

func (intp *Intp) execute(op *Op) (err error, stop bool) {
	f, ok := commandFn[op.code]
	if !ok {
		return fmt.Errorf("unknown command code: %d", op.code), false
	}
	return f(intp, op)
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	return nil, true
}

// confirm asks a yes/no question.
func (intp *Intp) confirm(question string) ot.Confirmation {
	intp.repl.SetPrompt(question + " [y/N] ")
	defer intp.repl.SetPrompt("otname > ")
	line, err := intp.repl.Readline()
	if err != nil {
		return ot.Unconfirmed
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return ot.Confirmed
	}
	return ot.Unconfirmed
}

// --- Batch and dictionary loading ------------------------------------------

func (intp *Intp) loadDictionary(path string) error {
	if path == "" {
		intp.dict = wordlist.Default()
		return nil
	}
	dict, err := wordlist.Load(path)
	if err != nil {
		return err
	}
	intp.dict, intp.dictPath = dict, path
	tracer().Infof("word dictionary loaded from %s", path)
	return nil
}

// openBatch sets up a batch for a directory and loads its CSV file, if
// present.
func (intp *Intp) openBatch(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	intp.engine = batch.NewEngine(dir, intp.dict, otname.Open)
	intp.csvPath = filepath.Join(dir, csvFileName)
	intp.dirty = false
	if _, err := os.Stat(intp.csvPath); err != nil {
		pterm.Info.Printf("no %s in %s yet, use 'init' to create it\n", csvFileName, dir)
		return nil
	}
	if err := intp.engine.LoadCSV(intp.csvPath); err != nil {
		return err
	}
	pterm.Info.Printf("%d rows loaded from %s\n", intp.engine.Len(), intp.csvPath)
	return nil
}

const csvFileName = "fonts.csv"

func (op *Op) arg(i int) (string, bool) {
	if i < len(op.args) {
		return op.args[i], true
	}
	return "", false
}

func (op *Op) needArgs(n int, usage string) error {
	if len(op.args) < n {
		return fmt.Errorf("usage: %s %s", op.name, usage)
	}
	return nil
}
