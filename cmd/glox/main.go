// Command glox runs Lox source files or starts an interactive REPL.
package main

import (
	"fmt"
	"os"

	"github.com/loxrun/glox/pkg/config"
	"github.com/loxrun/glox/pkg/diagnostics"
	"github.com/loxrun/glox/pkg/glox"
	"github.com/peterh/liner"
)

// Run the file at the given path. Exit code 65 on a compile error (scan,
// parse, or resolve), 70 on a runtime error, per spec §6.
func runFile(path string, cfg *config.Config) int {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 64
	}

	sink := diagnostics.NewSink(os.Stdout, os.Stderr)
	runner := glox.NewRunner(sink)
	runner.DumpAST = cfg.DumpAST
	runner.Run(string(content))

	if sink.HadError {
		return 65
	}
	if sink.HadRuntimeError {
		return 70
	}
	return 0
}

// runRepl reads one line at a time via liner, feeding each to the same
// Runner so declarations and state persist across lines, resetting the
// sink's error flags between lines so one bad line doesn't poison the
// session.
func runRepl(cfg *config.Config) int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(cfg.HistoryFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	sink := diagnostics.NewSink(os.Stdout, os.Stderr)
	runner := glox.NewRunner(sink)
	runner.DumpAST = cfg.DumpAST

	for {
		input, err := line.Prompt(cfg.Prompt)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil || input == ":quit" {
			break
		}
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		sink.Reset()
		runner.Run(input)
	}

	if f, err := os.Create(cfg.HistoryFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
	return 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "glox: invalid config:", err)
		os.Exit(64)
	}

	args := os.Args[1:]
	switch len(args) {
	case 0:
		os.Exit(runRepl(cfg))
	case 1:
		os.Exit(runFile(args[0], cfg))
	default:
		fmt.Println("usage: glox [script]")
		os.Exit(64)
	}
}
