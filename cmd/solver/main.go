package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	solver "github.com/AntoineSebert/scheduling-solver"
	"github.com/AntoineSebert/scheduling-solver/model"
	"github.com/AntoineSebert/scheduling-solver/progress"
	"github.com/AntoineSebert/scheduling-solver/service/builder"
	"github.com/AntoineSebert/scheduling-solver/service/format"
	"github.com/AntoineSebert/scheduling-solver/tracing"
)

const version = "0.2.0"

func main() {
	var (
		taskFile   = flag.String("task", "data/case_1.tsk", "import the problem description from this TASK file")
		confFile   = flag.String("conf", "data/case_1.cfg", "import the system configuration from this CONFIGURATION file")
		casesDir   = flag.String("cases", "", "solve every *.tsk/*.cfg pair in this directory as a batch")
		formatName = flag.String("format", "raw", "output format: json, xml or raw")
		configFile = flag.String("config", "", "YAML runtime configuration file")
		traceFile  = flag.String("trace", "", "write OpenTelemetry spans to this file")
		quiet      = flag.Bool("quiet", false, "suppress progress reporting")
		printVer   = flag.Bool("version", false, "print the version and exit")
	)
	flag.Parse()

	if *printVer {
		fmt.Println("solver " + version)
		return
	}
	logger := log.New(os.Stderr, "solver: ", log.LstdFlags)
	if err := run(logger, *taskFile, *confFile, *casesDir, *formatName, *configFile, *traceFile, *quiet); err != nil {
		logger.Fatal(err)
	}
}

func run(logger *log.Logger, taskFile, confFile, casesDir, formatName, configFile, traceFile string, quiet bool) error {
	outputFormat, err := format.Parse(formatName)
	if err != nil {
		return err
	}
	config := solver.DefaultConfig()
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return err
		}
		if config, err = solver.ParseConfig(data); err != nil {
			return err
		}
	}
	if traceFile != "" {
		if err := tracing.Init("scheduling-solver", version, traceFile); err != nil {
			return err
		}
	}

	pairs, err := collectCases(taskFile, confFile, casesDir)
	if err != nil {
		return err
	}

	options := []solver.Option{solver.WithConfig(config), solver.WithLogger(logger)}
	if !quiet {
		options = append(options, solver.WithProgressCallback(func(p progress.Progress) {
			logger.Printf("progress: %d solved, %d failed, %d pending",
				p.SolvedCases, p.FailedCases, p.SubmittedCases-p.SolvedCases-p.FailedCases)
		}))
	}
	rt, err := solver.New(options...)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := rt.Start(ctx); err != nil {
		return err
	}
	defer rt.Shutdown()

	b := builder.New()
	var ids []string
	failed := 0
	for _, pair := range pairs {
		problem, err := b.Build(ctx, pair)
		if err != nil {
			logger.Printf("case %s failed: %v", pair.Tsk, err)
			failed++
			continue
		}
		id, err := rt.Submit(ctx, problem)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	if err := rt.Drain(ctx); err != nil {
		return err
	}

	for _, id := range ids {
		result, err := rt.Result(ctx, id)
		if err != nil {
			return err
		}
		if result.Err != nil {
			// Already logged by the worker; keep siblings going.
			failed++
			continue
		}
		rendered, err := outputFormat.Render(result.Solution)
		if err != nil {
			return err
		}
		fmt.Println(rendered)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d cases failed", failed, len(pairs))
	}
	return nil
}

// collectCases resolves the case list: every *.tsk with a matching *.cfg in
// the batch directory, or the single pair from the flags.
func collectCases(taskFile, confFile, casesDir string) ([]model.FilepathPair, error) {
	if casesDir == "" {
		return []model.FilepathPair{{Tsk: taskFile, Cfg: confFile}}, nil
	}
	matches, err := filepath.Glob(filepath.Join(casesDir, "*.tsk"))
	if err != nil {
		return nil, err
	}
	var pairs []model.FilepathPair
	for _, tsk := range matches {
		cfg := strings.TrimSuffix(tsk, ".tsk") + ".cfg"
		if _, err := os.Stat(cfg); err != nil {
			continue
		}
		pairs = append(pairs, model.FilepathPair{Tsk: tsk, Cfg: cfg})
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no *.tsk/*.cfg pairs found in %s", casesDir)
	}
	return pairs, nil
}
