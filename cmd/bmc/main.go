// Command bmc reads a transition-system file (internal/parse's s-expression format), runs the
// selected bounded model checking algorithm against its property, and prints the verdict and, on
// a falsifying result, the counterexample trace.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/cnfio"
	"github.com/boundedmc/bmc/internal/diagnostic"
	"github.com/boundedmc/bmc/internal/driver"
	"github.com/boundedmc/bmc/internal/model"
	"github.com/boundedmc/bmc/internal/parse"
	"github.com/boundedmc/bmc/internal/trace"
	"github.com/boundedmc/bmc/util/orderedmap"
)

var (
	_extraStep  bool
	_growLength bool
	_dump       string
	_replay     string
)

func main() {
	flag.BoolVar(&_extraStep, "extra-step", false, "add the Een-Sorensson extra-step strengthening hypothesis")
	flag.BoolVar(&_growLength, "grow-length", true, "for the ltl algorithm, try every bound from 0 up to the file's bound instead of only the bound itself")
	flag.StringVar(&_dump, "dump", "", "write the run's CNF (invariant properties only) and falsifying trace, if any, to this path via internal/cnfio")
	flag.StringVar(&_replay, "replay", "", "skip running; decode a file written by -dump and print its stored trace instead")
	flag.Parse()

	if _replay != "" {
		if err := replay(_replay); err != nil {
			fmt.Fprintf(os.Stderr, "bmc: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bmc <transition-system-file>")
		os.Exit(2)
	}

	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "bmc: %v\n", err)
		os.Exit(1)
	}

	if err := run(string(src)); err != nil {
		fmt.Fprintf(os.Stderr, "bmc: %v\n", err)
		os.Exit(1)
	}
}

// replay decodes a dump written by run's -dump handling and prints whatever it holds, without
// re-running any algorithm -- the later trace inspection without re-running the pipeline that
// internal/cnfio's package comment describes.
func replay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	d, err := cnfio.Decode(data)
	if err != nil {
		return err
	}
	fmt.Printf("-- replay: %d clauses over %d variables, root literal %d\n", len(d.Clauses), d.NumVars, d.RootLit)
	if d.Trace == nil {
		fmt.Println("-- no trace stored in this dump")
		return nil
	}
	printTrace(d.Trace)
	return nil
}

// dumpRun encodes sys's checked CNF (when the property is an invariant, since only then is there
// a single untimed be.Ref to hand to ToCNF -- an ltlspec's tableau CNF is built fresh per bound
// inside internal/driver and isn't exposed) alongside result's trace, in the format -replay reads
// back.
func dumpRun(sys *parse.System, result driver.Result) ([]byte, error) {
	var d cnfio.Dump
	if sys.PropertyKind == parse.PropertyInvar {
		mgr := sys.Enc.Manager()
		cnf, root := mgr.ToCNF(sys.Invar, be.PolarityMixed)
		var numVars int32
		for _, c := range cnf.Clauses {
			for _, lit := range c {
				if v := absInt32(lit); v > numVars {
					numVars = v
				}
			}
		}
		if v := absInt32(root); v > numVars {
			numVars = v
		}
		d = cnfio.FromCNF(cnf, root, numVars)
	}
	d.Trace = result.Trace
	return cnfio.Encode(d)
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func run(src string) error {
	mgr := be.NewManager()
	sys, err := parse.Build(mgr, src)
	if err != nil {
		return err
	}

	u := model.NewUnroller(sys.Enc, sys.Sys)
	ctx := context.Background()
	log := &diagnostic.Log{}

	var (
		result driver.Result
		runErr error
	)
	switch sys.PropertyKind {
	case parse.PropertyLTL:
		result, runErr = runLTL(ctx, sys, u)
	default:
		result, runErr = runInvar(ctx, sys, u)
	}
	if runErr != nil {
		log.Record(diagnostic.Conflict{Kind: diagnostic.KindBackendFailure, K: sys.K, Detail: runErr.Error()})
		printLog(log)
		return nil
	}

	recordResult(log, sys, result)
	printLog(log)
	if result.Verdict == driver.False && result.Trace != nil {
		printTrace(result.Trace)
	}

	if _dump != "" {
		data, err := dumpRun(sys, result)
		if err != nil {
			return err
		}
		if err := os.WriteFile(_dump, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func runInvar(ctx context.Context, sys *parse.System, u *model.Unroller) (driver.Result, error) {
	prop := driver.NewProperty(sys.Enc, sys.Invar)
	switch sys.Algorithm {
	case parse.AlgoClassic:
		return driver.Classic(ctx, sys.Enc, u, prop)
	case parse.AlgoEenSorensson:
		opt := driver.EenSorensson{KMax: sys.K, ExtraStep: _extraStep}
		return opt.Run(ctx, sys.Enc, u, prop)
	case parse.AlgoZigZag:
		return driver.ZigZag(ctx, sys.Enc, u, prop, sys.K)
	case parse.AlgoDualForward:
		opt := driver.Dual{KMax: sys.K, Direction: driver.DualForward}
		return opt.Run(ctx, sys.Enc, u, prop)
	case parse.AlgoDualBackward:
		opt := driver.Dual{KMax: sys.K, Direction: driver.DualBackward}
		return opt.Run(ctx, sys.Enc, u, prop)
	case parse.AlgoFalsification:
		return driver.Falsification(ctx, sys.Enc, u, prop, sys.K)
	default:
		return driver.Result{}, fmt.Errorf("algorithm %q does not apply to an invariant property", sys.Algorithm)
	}
}

func runLTL(ctx context.Context, sys *parse.System, u *model.Unroller) (driver.Result, error) {
	if sys.PLTL != nil {
		if sys.Algorithm != parse.AlgoLTL {
			return driver.Result{}, fmt.Errorf("algorithm %q does not apply to a past-operator ltlspec property", sys.Algorithm)
		}
		negPhi := parse.NegatePLTL(sys.Enc, sys.PLTL)
		return driver.CheckPLTL(ctx, sys.Enc, u, negPhi, sys.LoopSpec, sys.K, _growLength)
	}
	switch sys.Algorithm {
	case parse.AlgoLTL:
		negPhi := parse.Negate(sys.Enc, sys.LTL)
		return driver.CheckLTL(ctx, sys.Enc, u, negPhi, sys.LoopSpec, sys.K, _growLength)
	case parse.AlgoSBMC:
		negPhi := parse.Negate(sys.Enc, sys.LTL)
		return driver.CheckSBMC(ctx, sys.Enc, u, negPhi, sys.LoopSpec, sys.K, _growLength)
	default:
		return driver.Result{}, fmt.Errorf("algorithm %q does not apply to an ltlspec property", sys.Algorithm)
	}
}

func recordResult(log *diagnostic.Log, sys *parse.System, result driver.Result) {
	switch result.Verdict {
	case driver.True:
		log.Record(diagnostic.Conflict{Kind: diagnostic.KindTrue, Property: propertyLabel(sys), K: result.K})
	case driver.False:
		log.Record(diagnostic.Conflict{Kind: diagnostic.KindFalse, Property: propertyLabel(sys), K: result.K, Loop: loopLabel(result.Loop)})
	default:
		log.Record(diagnostic.Conflict{Kind: diagnostic.KindNoCounterexample, K: result.K, Loop: loopLabel(result.Loop)})
	}
}

func propertyLabel(sys *parse.System) string {
	if sys.PropertyKind == parse.PropertyLTL {
		return "ltlspec"
	}
	return "invarspec"
}

func loopLabel(l int32) string {
	switch l {
	case model.NoLoop:
		return ""
	case model.AllLoops:
		return "*"
	default:
		return fmt.Sprintf("%d", l)
	}
}

func printLog(log *diagnostic.Log) {
	for _, line := range log.Render() {
		fmt.Println(line)
	}
}

func printTrace(tr *trace.Trace) {
	for t, step := range tr.Steps {
		fmt.Printf("-- step %d (%s)\n", t, step.Kind)
		printAssignment("state", step.State)
		printAssignment("input", step.Input)
		printAssignment("frozen", step.Frozen)
	}
	if tr.Loop != model.NoLoop && tr.Loop != model.AllLoops {
		fmt.Printf("-- loop back to step %d\n", tr.Loop)
	}
}

func printAssignment(label string, vals *orderedmap.OrderedMap[string, bool]) {
	for _, p := range vals.Pairs {
		fmt.Printf("    %s.%s = %t\n", label, p.Key, p.Value)
	}
}
