/*
Command otcli is an interactive explorer for the tables of a font.

	otcli -font Garamond.ttf

Commands are entered at the prompt, several of them separated by blanks.
Arguments follow a command, separated by colons, e.g. "glyph:A:3/1".
Enter "help" for a list of commands.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/xtf"
	"github.com/npillmayer/xtf/ot"
	"github.com/pterm/pterm"
)

// tracer traces with key 'xtf.cli'
func tracer() tracing.Trace {
	return tracing.Select("xtf.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":   "go",
		"trace.xtf.cli":     "Info",
		"trace.xtf":         "Error",
		"trace.xtf.ot":      "Error",
		"trace.xtf.otquery": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load (file path or system font)")
	order := flag.String("order", "post", "Glyph name lookup order [post|registry]")
	verify := flag.Bool("checksums", false, "Verify table checksums")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)  // will set the correct level later
	pterm.Info.Println("Welcome to the XTF CLI") // colored welcome message
	//
	// set up REPL
	repl, err := readline.New("xtf > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl}
	//
	// load font to use
	opts := []xtf.Option{xtf.WithLookupOrder(xtf.PostTableFirst)}
	if *order == "registry" {
		opts = []xtf.Option{xtf.WithLookupOrder(xtf.RegistryFirst)}
	}
	if *verify {
		opts = append(opts, xtf.WithChecksumVerification())
	}
	if err := intp.loadFont(*fontname, opts...); err != nil { // font name provided by flag
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
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
	reader   *xtf.FontReader
	font     *ot.Font
	repl     *readline.Instance
	table    ot.Table
	encoding ot.EncodingKey // default platform/encoding for glyph lookups
}

func (intp *Intp) String() string {
	if intp == nil {
		return "()"
	}
	if intp.table == nil {
		return fmt.Sprintf("( encoding=%s )", intp.encoding)
	}
	return fmt.Sprintf("( table=%s encoding=%s )", intp.table.Self().NameTag(), intp.encoding)
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
		cmd, err := intp.parseCommand(line)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type Op struct {
	code   int
	arg    string
	format string
}

type Command struct {
	count int
	op    [32]Op
}

const NOOP = -1
const (
	// op-code QUIT will not have arguments
	QUIT int = iota
	// op-codes below may have arguments
	HELP
	INFO
	TABLES
	TABLE
	CMAP
	ENCODING
	MAP
	GLYPH
	WIDTH
	NAME
	ERRORS
)

var opMap = map[string]int{
	"quit":     QUIT,
	"help":     HELP,
	"info":     INFO,
	"tables":   TABLES,
	"table":    TABLE,
	"cmap":     CMAP,
	"encoding": ENCODING,
	"map":      MAP,
	"glyph":    GLYPH,
	"width":    WIDTH,
	"name":     NAME,
	"errors":   ERRORS,
}

var opNames = []string{
	"quit",
	"help",
	"info",
	"tables",
	"table",
	"cmap",
	"encoding",
	"map",
	"glyph",
	"width",
	"name",
	"errors",
}

var command = Command{}

func resetCommand() {
	command.count = 0
	for i := range command.op {
		command.op[i].code = NOOP
		command.op[i].arg = ""
		command.op[i].format = ""
	}
}

func (intp *Intp) parseCommand(line string) (*Command, error) {
	resetCommand()
	steps := strings.Fields(line)
	if len(steps) > len(command.op) {
		return nil, fmt.Errorf("too many commands in one line: %d", len(steps))
	}
	command.count = len(steps)
	for i, step := range steps {
		c := strings.Split(step, ":") // e.g.  "glyph:A:3/1" or "width:36" or "help:cmap" or "tables"
		code, ok := opMap[strings.ToLower(c[0])]
		if !ok {
			code = HELP
		}
		command.op[i].code = code
		command.op[i].arg = ""
		if command.op[i].code == QUIT {
			return &command, nil
		}
		command.op[i].arg = getOptArg(c, 1)
		command.op[i].format = getOptArg(c, 2)
		if command.op[i].arg == "" {
			tracer().Debugf("%s", opNames[command.op[i].code])
		} else {
			tracer().Debugf("%s: looking for '%s'", opNames[command.op[i].code], command.op[i].arg)
		}
	}
	return &command, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:     quitOp,
	HELP:     helpOp,
	INFO:     infoOp,
	TABLES:   tablesOp,
	TABLE:    tableOp,
	CMAP:     cmapOp,
	ENCODING: encodingOp,
	MAP:      mapOp,
	GLYPH:    glyphOp,
	WIDTH:    widthOp,
	NAME:     nameOp,
	ERRORS:   errorsOp,
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	tracer().Debugf("cmd = %v", cmd.op[:cmd.count])
	for _, c := range cmd.op {
		if c.code == NOOP {
			break
		}
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		err, stop = f(intp, &c)
		if err != nil {
			pterm.Error.Println(err)
			return
		}
		if stop {
			return
		}
	}
	return
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

// --- Font Loading -----------------------------------------------------

func (intp *Intp) loadFont(fontname string, opts ...xtf.Option) (err error) {
	if fontname == "" {
		return errors.New("no font given, use flag -font")
	}
	if intp.reader, err = xtf.LoadFont(fontname, opts...); err != nil {
		return err
	}
	if intp.font, err = intp.reader.Font(); err != nil {
		return err
	}
	intp.encoding = defaultEncoding(intp.font)
	pterm.Printf("font tables: %v\n", intp.font.TableTags())
	return nil
}

// defaultEncoding selects Windows Unicode BMP if present, otherwise the
// first encoding of the font's cmap.
func defaultEncoding(otf *ot.Font) ot.EncodingKey {
	key := ot.EncodingKey{PlatformID: ot.PlatformWindows, EncodingID: 1}
	if otf.CMap.HasEncoding(key.PlatformID, key.EncodingID) || len(otf.CMap.Records) == 0 {
		return key
	}
	return otf.CMap.Records[0].EncodingKey
}

// ----------------------------------------------------------------------

var ErrNoTable = errors.New("no table set")

// parseEncoding parses a platform/encoding pair of the form "3/1". An empty
// string selects the interpreter's default encoding.
func (intp *Intp) parseEncoding(s string) (ot.EncodingKey, error) {
	if s == "" {
		return intp.encoding, nil
	}
	p, e, ok := strings.Cut(s, "/")
	if !ok {
		return ot.EncodingKey{}, fmt.Errorf("encoding must be given as platform/encoding, is %q", s)
	}
	pid, err1 := strconv.ParseUint(p, 10, 16)
	eid, err2 := strconv.ParseUint(e, 10, 16)
	if err1 != nil || err2 != nil {
		return ot.EncodingKey{}, fmt.Errorf("encoding not numeric: %q", s)
	}
	return ot.EncodingKey{PlatformID: uint16(pid), EncodingID: uint16(eid)}, nil
}

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}

func (op *Op) noArg() bool {
	return op.arg == ""
}

func (op *Op) hasArg() (string, bool) {
	if op.arg == "" {
		return "", false
	}
	return op.arg, true
}
