package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"tech-envelope/internal/analysis"
	"tech-envelope/internal/config"
	"tech-envelope/internal/data"
	"tech-envelope/internal/envelope"
	"tech-envelope/internal/fit"
	"tech-envelope/internal/model"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "build":
		cmdBuild(os.Args[2:])
	case "fit":
		cmdFit(os.Args[2:])
	case "analyze":
		cmdAnalyze(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli build --config examples/boiler.yaml [--data perf.csv] [--bigm] --out fragment.json")
	fmt.Println("  cli fit --config examples/boiler.yaml [--data perf.csv] [--out coefficients.csv]")
	fmt.Println("  cli analyze --config examples/boiler.yaml [--data perf.csv]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - build synthesizes the technology's variables and constraints as JSON")
	fmt.Println("  - --data overrides the document's inline performance samples; it takes a")
	fmt.Println("    .csv or .json file, or a sample-service base URL (http://...)")
	fmt.Println("  - --bigm compiles the disjunctions into big-M rows before writing")
	fmt.Println("  - analyze ranks the function types the document could use")
}

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML technology document")
	dataSrc := fs.String("data", "", "Optional performance samples (.csv, .json or service URL)")
	outPath := fs.String("out", "fragment.json", "Output JSON path")
	bigM := fs.Bool("bigm", false, "Apply the big-M transformation")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, p, ft, samples := load(*cfgPath, *dataSrc)
	frag, _, err := envelope.Synthesize(p, ft, samples, cfg.TimeSettings(), logrus.StandardLogger())
	if err != nil {
		fatal(err)
	}
	if *bigM {
		if err := frag.TransformBigM(); err != nil {
			fatal(err)
		}
	}

	raw, err := json.MarshalIndent(frag, "", "  ")
	if err != nil {
		fatal(err)
	}
	if err := os.WriteFile(*outPath, raw, 0o644); err != nil {
		fatal(err)
	}

	st := frag.Stats()
	fmt.Printf("built %s (build %s)\n", frag.Tech, frag.BuildID)
	fmt.Printf("  variables:    %d (%d binary)\n", st.Variables, st.Binaries)
	fmt.Printf("  constraints:  %d\n", st.Constraints)
	fmt.Printf("  disjunctions: %d (%d branches)\n", st.Disjunctions, st.Branches)
	fmt.Printf("  wrote %s\n", *outPath)
}

func cmdFit(args []string) {
	fs := flag.NewFlagSet("fit", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML technology document")
	dataSrc := fs.String("data", "", "Optional performance samples (.csv, .json or service URL)")
	outPath := fs.String("out", "", "Optional CSV path for the fitted coefficients")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	_, p, ft, samples := load(*cfgPath, *dataSrc)
	coeffs, err := fit.Performance(p, ft, samples)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("%s (%s)\n", p.Name, ft)
	if coeffs.Breakpoints != nil {
		fmt.Printf("  breakpoints: %v\n", []float64(coeffs.Breakpoints))
	}
	for _, car := range p.OutputCarriers {
		fmt.Printf("  %s: alpha1=%v alpha2=%v\n", car, coeffs.Alpha1[car], coeffs.Alpha2[car])
	}
	if *outPath != "" {
		if err := data.WriteCoefficientsCSV(*outPath, coeffs); err != nil {
			fatal(err)
		}
		fmt.Printf("  wrote %s\n", *outPath)
	}
}

func cmdAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML technology document")
	dataSrc := fs.String("data", "", "Optional performance samples (.csv, .json or service URL)")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, p, _, samples := load(*cfgPath, *dataSrc)
	candidates := analysis.RankFunctionTypes(p, samples, cfg.TimeSettings(), logrus.StandardLogger())
	if len(candidates) == 0 {
		fatal(fmt.Errorf("no function type could be fitted from the samples"))
	}

	fmt.Printf("%s: %d candidate function type(s), best fit first\n", p.Name, len(candidates))
	for i, c := range candidates {
		fmt.Printf("%d. %s\n", i+1, c.FunctionType)
		fmt.Printf("   rmse: %.6g\n", c.RMSE)
		fmt.Printf("   model: %d vars (%d binary), %d constraints\n",
			c.Model.Variables, c.Model.Binaries, c.Model.Constraints)
	}
}

func load(cfgPath, dataSrc string) (*config.Config, *model.Parameters, model.FunctionType, []model.Sample) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatal(err)
	}
	p, ft, err := cfg.Parameters()
	if err != nil {
		fatal(err)
	}
	var samples []model.Sample
	switch {
	case strings.HasPrefix(dataSrc, "http://"), strings.HasPrefix(dataSrc, "https://"):
		samples, err = data.NewSampleClient(dataSrc).FetchSamples(context.Background(), cfg.Name)
	case dataSrc != "":
		samples, err = data.LoadSamples(dataSrc)
	default:
		samples, err = cfg.Samples()
	}
	if err != nil {
		fatal(err)
	}
	return cfg, p, ft, samples
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
