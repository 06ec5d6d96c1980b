package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsontree/errors"
	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/parser"
	"github.com/mcncl/jsontree/value"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string `help:"Path to config file. If not specified, searches for .jsontree.yml upwards." short:"c" type:"path"`
	KeyCase     string `help:"Rewrite object keys: camel, snake, kebab or pascal." short:"k"`
	Check       bool   `help:"Validate the input and exit without printing the document."`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug bool
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	kongParser := kong.Must(&CLI,
		kong.Name("jsontree"),
		kong.Description("Validate and re-emit JSON as a compact document"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	_, err := kongParser.Parse(os.Args[1:])
	if err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("jsontree version %s\n", Version)
		return
	}

	err = run(&Context{Debug: CLI.Debug})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))

		// Show help on error
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsontree --help\n")

		os.Exit(1)
	}
}

// run executes the main program logic
func run(ctx *Context) error {
	// 1. Resolve configuration
	cfg, err := loadConfig()
	if err != nil {
		return errors.NewInputError("failed to load configuration", err)
	}

	if ctx.Debug {
		fmt.Fprintf(os.Stderr, "config: key_case=%q check=%v mappings=%d\n",
			cfg.KeyCase, cfg.Check, len(cfg.FieldMappings))
	}

	// 2. Parse JSON input
	doc, err := parseInput()
	if err != nil {
		// Error is already wrapped by parseInput
		return err
	}

	// 3. Validation-only mode prints nothing on success
	if cfg.Check {
		return nil
	}

	// 4. Rewrite object keys if configured
	doc = rewriteKeys(doc, cfg)

	// 5. Output the compact rendering
	return writeOutput(doc.JSON())
}

// loadConfig resolves the config file and applies CLI overrides
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}

	cfg := config.NewConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// CLI flags take precedence over file values
	if CLI.KeyCase != "" {
		cfg.KeyCase = CLI.KeyCase
	}
	if CLI.Check {
		cfg.Check = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// rewriteKeys rebuilds the tree with every object key renamed per the
// configuration. Arrays keep their order; scalars pass through.
func rewriteKeys(v value.Value, cfg *config.Config) value.Value {
	if cfg.KeyCase == config.CaseNone && len(cfg.FieldMappings) == 0 {
		return v
	}

	switch {
	case v.IsObject():
		members, _ := v.AsObject()
		out := make(map[string]value.Value, len(members))
		for k, e := range members {
			out[cfg.RenameKey(k)] = rewriteKeys(e, cfg)
		}
		return value.Object(out)
	case v.IsArray():
		elems, _ := v.AsArray()
		for i := range elems {
			elems[i] = rewriteKeys(elems[i], cfg)
		}
		return value.Array(elems...)
	default:
		return v
	}
}

// parseInput reads JSON from file or stdin
func parseInput() (value.Value, error) {
	if CLI.Input != "" {
		// Parse from file
		return parser.ParseFile(CLI.Input)
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return value.Null(), errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput()
		}
		// No data provided on stdin and not in interactive mode
		return value.Null(), errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return value.Null(), errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return value.Null(), errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// writeOutput writes the rendered document to file or stdout
func writeOutput(text string) error {
	if CLI.Output != "" {
		// Write to file
		err := os.WriteFile(CLI.Output, []byte(text+"\n"), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Compact JSON written to %s\n", CLI.Output)
		return nil
	}

	// Write to stdout
	_, err := fmt.Println(text)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (value.Value, error) {
	fmt.Fprintln(os.Stderr, "jsontree Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	// Read all input until EOF (Ctrl+D)
	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			// End of input
			break
		}
		if err != nil {
			return value.Null(), errors.NewInputError("error reading input", err)
		}
		jsonBuilder.WriteString(line)
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return value.Null(), errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
