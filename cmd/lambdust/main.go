// Command lambdust runs a Scheme REPL, or a single source file given as
// an argument, wiring together every installed package: internal/config
// for session settings, internal/env + internal/eval for the evaluation
// engine, internal/stdlib/internal/bytevector/internal/strval for the
// global primitive set, internal/reader for parsing, and
// internal/repl/internal/trace for interactive use — the same
// flag-driven entry point shape as the teacher's main.go, minus the
// terminal-editing flags that have no analogue here.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/akasaka-miraina/lambdust-sub003/internal/bytevector"
	"github.com/akasaka-miraina/lambdust-sub003/internal/config"
	"github.com/akasaka-miraina/lambdust-sub003/internal/env"
	"github.com/akasaka-miraina/lambdust-sub003/internal/eval"
	"github.com/akasaka-miraina/lambdust-sub003/internal/lprint"
	"github.com/akasaka-miraina/lambdust-sub003/internal/reader"
	"github.com/akasaka-miraina/lambdust-sub003/internal/repl"
	"github.com/akasaka-miraina/lambdust-sub003/internal/strval"
	"github.com/akasaka-miraina/lambdust-sub003/internal/stdlib"
	"github.com/akasaka-miraina/lambdust-sub003/internal/trace"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

var (
	noconfig    = flag.Bool("noconfig", false, "force default configuration")
	traceFlag   = flag.Bool("trace", false, "open the frame/continuation debugger after evaluation")
	versionFlag = flag.Bool("version", false, "print version")
)

var version = "dev"

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if *versionFlag {
		fmt.Println(version)
		return
	}

	cfg, err := config.LoadOrCreate(*noconfig)
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	global := env.New("global")
	ev := eval.New(global)
	eval.InstallCore(global)
	stdlib.Install(global)
	bytevector.Install(global)
	strval.Install(global)
	global.Define(value.NewSymbol("*max-recursion-depth*").ID, value.NewInteger(int64(cfg.MaxRecursionDepth)))

	var session *repl.Session
	if *traceFlag {
		ev.AttachGCRoots()
	}

	args := flag.Args()
	if len(args) == 0 {
		session = repl.New(ev)
		if err := session.Run(); err != nil {
			log.Fatalf("repl: %v", err)
		}
	} else {
		if err := runFile(ev, args[0]); err != nil {
			log.Fatalf("%s: %v", args[0], err)
		}
	}

	if *traceFlag {
		if roots := ev.GCRoots(); roots != nil {
			view, err := trace.Open(roots)
			if err != nil {
				log.Fatalf("trace: %v", err)
			}
			defer view.Close()
			if err := view.Run(); err != nil {
				log.Fatalf("trace: %v", err)
			}
		}
	}
}

func runFile(ev *eval.Evaluator, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	datums, err := reader.ReadAll(string(data))
	if err != nil {
		return err
	}
	for _, d := range datums {
		expr, err := reader.FromDatum(d)
		if err != nil {
			return err
		}
		result, err := ev.Eval(expr, ev.Global())
		if err != nil {
			return err
		}
		if _, isUnspecified := result.(value.Unspecified); !isUnspecified {
			fmt.Println(lprint.Write(result))
		}
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: lambdust [flags] [file.scm]\n\n")
	flag.PrintDefaults()
}
