package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sergev/symlex/lexer"
	"github.com/sergev/symlex/symbol"
)

var defaultOperators = []string{
	"+", "-", "*", "/", "%", "=", "==", "!=", "<", "<=", ">", ">=",
	"&&", "||", "!", "++", "--", "+=", "-=",
	"(", ")", "{", "}", "[", "]", ",", ";", ":", ".",
}

func main() {
	opsList := flag.String("ops", "", "comma separated operator spellings (replaces the default set)")
	opsFile := flag.String("ops-file", "", "file with one operator spelling per line")
	format := flag.String("format", "text", "output format: text or json")
	trivia := flag.Bool("trivia", true, "print whitespace and comment tokens")
	verbose := flag.Bool("v", false, "enable debug logging")
	logJSON := flag.Bool("log-json", false, "log as JSON")
	flag.Parse()

	configureLogging(*verbose, *logJSON)

	ops, err := loadOperators(*opsList, *opsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "symlex: %v\n", err)
		os.Exit(2)
	}
	out, err := newPrinter(os.Stdout, *format, *trivia)
	if err != nil {
		fmt.Fprintf(os.Stderr, "symlex: %v\n", err)
		os.Exit(2)
	}
	s := &session{
		table:  symbol.NewTable(),
		ops:    ops,
		out:    out,
		errOut: os.Stderr,
		log:    log.StandardLogger(),
	}

	if args := flag.Args(); len(args) > 0 {
		failed := false
		for _, path := range args {
			if err := s.tokenizeFile(path); err != nil {
				fmt.Fprintf(os.Stderr, "symlex: %v\n", err)
				failed = true
			}
		}
		if failed {
			os.Exit(1)
		}
		return
	}

	if !isInteractive() {
		s.runBufferedREPL(bufio.NewReader(os.Stdin))
		return
	}
	s.runInteractiveREPL()
}

func configureLogging(verbose, asJSON bool) {
	if asJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	}
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

// loadOperators builds the registry from the -ops list (or the defaults when
// empty) plus the spellings found in path.
func loadOperators(list, path string) (*lexer.Operators, error) {
	ops := lexer.NewOperators()
	if list == "" {
		for _, op := range defaultOperators {
			ops.Register(op)
		}
	} else {
		for _, op := range strings.Split(list, ",") {
			ops.Register(strings.TrimSpace(op))
		}
	}
	if path == "" {
		return ops, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "operators")
	}
	defer f.Close()
	if err := readOperators(f, ops); err != nil {
		return nil, errors.Wrapf(err, "operators: %s", path)
	}
	return ops, nil
}

func readOperators(r io.Reader, ops *lexer.Operators) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ops.Register(line)
	}
	return scanner.Err()
}

type session struct {
	table  *symbol.Table
	ops    *lexer.Operators
	out    *printer
	errOut io.Writer
	log    log.FieldLogger
}

func (s *session) tokenizeFile(path string) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "tokenize")
		}
		defer f.Close()
		r = f
	}
	src, tokens, scanErr := lexer.ScanReader(r, s.table, s.ops, lexer.WithLogger(s.log))
	if src == "" && scanErr != nil {
		return errors.Wrap(scanErr, path)
	}
	if err := s.out.print(src, tokens); err != nil {
		return errors.Wrap(err, "write tokens")
	}
	malformed := s.reportMalformed(path, tokens)
	s.log.WithFields(log.Fields{
		"file":      path,
		"tokens":    len(tokens),
		"malformed": malformed,
		"symbols":   s.table.Len(),
	}).Info("tokenized")
	if scanErr != nil {
		return errors.Wrap(scanErr, path)
	}
	return nil
}

func (s *session) reportMalformed(name string, tokens []lexer.Token) int {
	count := 0
	for _, tok := range tokens {
		if !tok.Kind.Malformed() {
			continue
		}
		count++
		s.log.WithFields(log.Fields{
			"file":   name,
			"line":   tok.Pos.Line,
			"column": tok.Pos.Column,
			"kind":   tok.Kind.String(),
		}).Warn(lexer.TokenError(tok).Error())
	}
	return count
}

// eval tokenizes one chunk of REPL input and prints the result. It returns
// false without printing when the chunk ends inside a string or comment and
// more input may complete it.
func (s *session) eval(src string, final bool) bool {
	if cmd, ok := strings.CutPrefix(strings.TrimSpace(src), ":"); ok {
		s.command(strings.Fields(cmd))
		return true
	}
	tokens, err := lexer.Scan(src, s.table, s.ops, lexer.WithLogger(s.log))
	if len(tokens) > 0 && !final && lexer.IsIncomplete(lexer.TokenError(tokens[len(tokens)-1])) {
		return false
	}
	if perr := s.out.print(src, tokens); perr != nil {
		fmt.Fprintf(s.errOut, "write error: %v\n", perr)
	}
	if err != nil {
		fmt.Fprintf(s.errOut, "error: %v\n", err)
	}
	return true
}

func (s *session) command(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.errOut, "commands: :op SPELLING..., :ops, :syms")
		return
	}
	switch args[0] {
	case "op":
		for _, spelling := range args[1:] {
			s.ops.Register(spelling)
		}
	case "ops":
		fmt.Fprintln(s.out.w, strings.Join(s.ops.Spellings(), " "))
	case "syms":
		fmt.Fprintf(s.out.w, "%d symbols\n", s.table.Len())
	default:
		fmt.Fprintf(s.errOut, "unknown command :%s\n", args[0])
	}
}

func (s *session) runBufferedREPL(reader *bufio.Reader) {
	var buffer strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(s.errOut, "read error: %v\n", err)
			return
		}
		buffer.WriteString(line)
		atEOF := err != nil
		if buffer.Len() > 0 && s.eval(buffer.String(), atEOF) {
			buffer.Reset()
		}
		if atEOF {
			return
		}
	}
}

func (s *session) runInteractiveREPL() {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	var buffer strings.Builder

	for {
		prompt := "symlex> "
		if buffer.Len() > 0 {
			prompt = ".... "
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Println()
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Println()
				if buffer.Len() > 0 {
					s.eval(buffer.String(), true)
				}
				return
			default:
				fmt.Fprintf(s.errOut, "read error: %v\n", err)
				return
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		if !s.eval(src, false) {
			continue
		}
		buffer.Reset()
		if trimmed := strings.TrimSpace(src); trimmed != "" {
			state.AppendHistory(trimmed)
		}
	}
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".symlex_history")
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
