package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kr/pretty"

	"github.com/Morphological-Source-Code/torus"
	"github.com/Morphological-Source-Code/torus/server"
)

func main() {
	lspMode := flag.Bool("lsp", false, "Start the language server on stdio")
	replMode := flag.Bool("repl", false, "Start the interactive prompt (default)")
	configPath := flag.String("config", "", "Path to a torus.toml configuration file")
	interval := flag.Duration("breed", time.Second, "Population breeding interval")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: torus [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  torus --repl             # interactive prompt\n")
		fmt.Fprintf(os.Stderr, "  torus --lsp              # language server on stdio\n")
		fmt.Fprintf(os.Stderr, "  torus --config torus.toml --breed 250ms\n")
	}
	flag.Parse()

	// load configuration
	config := torus.Config{}
	breed := *interval
	if *configPath != "" {
		fc, err := torus.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		config = fc.EngineConfig()

		breed, err = fc.BreederInterval()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	// create engine
	engine := torus.NewEngine(config)

	// run breeder
	breeder := torus.NewBreeder(engine, torus.BreederConfig{
		Interval: breed,
	})
	defer breeder.Close()

	// dispatch mode
	switch {
	case *lspMode:
		err := server.New(engine).Run()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case *replMode:
		repl(engine)
	default:
		repl(engine)
	}
}

func repl(engine *torus.Engine) {
	fmt.Println("torus 0.1 (type 'exit' to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		// prompt
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		// get input
		text := scanner.Text()
		if text == "exit" {
			break
		}

		// dump population statistics
		if text == `\dump` {
			_, _ = pretty.Println(engine.Summary())
			continue
		}

		// push an operand
		if rest, ok := strings.CutPrefix(text, "push "); ok {
			x, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
			if err != nil {
				fmt.Printf("bad operand: %v\n", err)
				continue
			}

			engine.Push(x)
			continue
		}

		// append, compile and execute the line
		slot := engine.Append(text)
		engine.CompileIfChanged(slot)
		execution, err := engine.Execute(slot)
		if err != nil {
			fmt.Printf("fault: %v\n", err)
		}

		// print result
		fmt.Printf("top=%.3f toll=%d\n", execution.Top, execution.LedgerTotal)
	}
}
