// Command graphed applies a curve edit to a YAML scene file.
//
//	graphed -scene walk.yaml [-config opts.yaml] [-out result.yaml] <operation> [value]
//
// Operations are crop-cycle, reverse, match-first, match-last,
// scale-tangent V, angle-tangent V, tangents P (spline, linear, flat, auto
// or stepped), weight-lock, weight-free, tangent-lock, tangent-free,
// infinity-cycle and time-to-selected. Without -out the edited scene is
// written to stdout.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/npillmayer/graphed"
	"github.com/npillmayer/graphed/config"
	"github.com/npillmayer/graphed/curve"
	"github.com/npillmayer/graphed/cycle"
	"github.com/npillmayer/graphed/edit"
	"github.com/npillmayer/schuko/tracing"
)

var traceKeys = []string{"graphed", "graphed.tangent", "graphed.curve", "graphed.edit", "graphed.cycle"}

func main() {
	scenePtr := flag.String("scene", "", "scene file to edit (YAML)")
	configPtr := flag.String("config", "", "options file (YAML), defaults apply if empty")
	outPtr := flag.String("out", "", "output scene file, stdout if empty")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s -scene file [flags] <operation> [value]\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(),
			"operations: crop-cycle, reverse, match-first, match-last, scale-tangent V, angle-tangent V,")
		fmt.Fprintln(flag.CommandLine.Output(),
			"  tangents P, weight-lock, weight-free, tangent-lock, tangent-free, infinity-cycle, time-to-selected")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *scenePtr == "" || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	opts := config.Default()
	if *configPtr != "" {
		var err error
		if opts, err = config.LoadFile(*configPtr); err != nil {
			log.Fatalf("[-] %v", err)
		}
	}
	level, err := opts.Level()
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}

	store, err := loadScene(*scenePtr, opts)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	err = run(store, opts, flag.Args(), os.Stderr)
	if errors.Is(err, graphed.ErrEmptySelection) {
		fmt.Fprintf(os.Stderr, "[!] nothing to do: %v\n", err)
	} else if err != nil {
		log.Fatalf("[-] %v", err)
	}
	if err = saveScene(*outPtr, store); err != nil {
		log.Fatalf("[-] %v", err)
	}
}

// run applies the operation named by args[0] to store and writes a report
// to w.
func run(store *curve.MemStore, opts config.Options, args []string, w io.Writer) error {
	op := args[0]
	value := func() (float64, error) {
		if len(args) < 2 {
			return 0, fmt.Errorf("%w: %s needs a value", graphed.ErrInvalidArgument, op)
		}
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s value %q", graphed.ErrInvalidArgument, op, args[1])
		}
		return v, nil
	}
	ed := edit.NewEditor(store, opts)
	switch op {
	case "crop-cycle":
		r, err := cycle.NewNormalizer(store, opts).CropCycle()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "[*] %s\n", r)
		return nil
	case "reverse":
		return ed.ReverseKeysHorizontal()
	case "match-first":
		return ed.MatchKeys(edit.PivotFirst)
	case "match-last":
		return ed.MatchKeys(edit.PivotLast)
	case "scale-tangent":
		v, err := value()
		if err != nil {
			return err
		}
		return ed.ScaleTangentToValue(v)
	case "angle-tangent":
		v, err := value()
		if err != nil {
			return err
		}
		return ed.AngleTangentToValue(v)
	case "tangents":
		if len(args) < 2 {
			return fmt.Errorf("%w: %s needs a preset", graphed.ErrInvalidArgument, op)
		}
		return ed.ApplyTangentPreset(edit.Preset(args[1]))
	case "weight-lock", "weight-free":
		return ed.SetWeightLock(op == "weight-lock")
	case "tangent-lock":
		return ed.SetTangentLock(true)
	case "tangent-free":
		return ed.FreeTangents()
	case "infinity-cycle":
		inf, err := ed.CycleInfinity()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "[*] infinity %s\n", inf)
		return nil
	case "time-to-selected":
		now, err := ed.SetTimeToSelected()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "[*] current time %g\n", now)
		return nil
	}
	return fmt.Errorf("%w: unknown operation %q", graphed.ErrInvalidArgument, op)
}

func loadScene(path string, opts config.Options) (*curve.MemStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return curve.ReadScene(f, opts.DefaultTangent)
}

func saveScene(path string, store *curve.MemStore) error {
	if path == "" {
		return curve.WriteScene(os.Stdout, store)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = curve.WriteScene(f, store); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
