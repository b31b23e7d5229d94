package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fyerfyer/datpg/pkg/algorithm"
	"github.com/fyerfyer/datpg/pkg/logic"
	"github.com/fyerfyer/datpg/pkg/utils"
	"github.com/fyerfyer/datpg/pkg/writer"
)

type options struct {
	circuitFile string
	fault       string
	all         bool
	output      string
	diagram     string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "datpg",
		Short: "D-Algorithm test pattern generator for stuck-at faults",
		Long: "datpg reads a combinational circuit in BENCH format and searches for " +
			"a primary-input assignment that makes a stuck-at fault observable at a " +
			"primary output, or proves the fault undetectable.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.circuitFile, "circuit", "c", "", "circuit file in BENCH format")
	cmd.Flags().StringVarP(&opts.fault, "fault", "f", "", "fault to test, e.g. 'net42/1' for net42 stuck-at-1")
	cmd.Flags().BoolVar(&opts.all, "all", false, "generate tests for all stuck-at faults")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "tests.txt", "output file for test vectors")
	cmd.Flags().StringVar(&opts.diagram, "diagram", "", "write a circuitikz diagram of the final state to this file")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")
	cobra.CheckErr(cmd.MarkFlagRequired("circuit"))

	return cmd
}

func run(opts options) error {
	log := logrus.New()
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if !opts.all && opts.fault == "" {
		return errors.New("either specify a fault with --fault or use --all")
	}

	log.WithField("file", opts.circuitFile).Info("parsing circuit")
	net, err := utils.ParseBenchFile(opts.circuitFile)
	if err != nil {
		return errors.Wrap(err, "parsing circuit")
	}

	engine := algorithm.NewEngine(net, log)
	tests := make(map[string]map[string]logic.FiveValue)

	if opts.all {
		tests, err = engine.GenerateAllTests()
		if err != nil {
			return err
		}
	} else {
		faultLine, stuckAtOne, err := utils.ParseFaultString(opts.fault, net)
		if err != nil {
			return err
		}
		found, err := engine.Run(faultLine, stuckAtOne)
		if err != nil {
			return err
		}
		if !found {
			log.WithField("fault", opts.fault).Warn("fault is undetectable")
		} else {
			tests[opts.fault] = engine.TestVector()
			log.WithFields(logrus.Fields{
				"fault":  opts.fault,
				"vector": fmt.Sprintf("%v", engine.TestVector()),
			}).Info("test found")
		}
	}

	out, err := os.Create(opts.output)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	defer out.Close()
	if err := utils.WriteTestVectors(out, net, tests); err != nil {
		return err
	}

	if opts.diagram != "" {
		f, err := os.Create(opts.diagram)
		if err != nil {
			return errors.Wrap(err, "creating diagram file")
		}
		defer f.Close()
		if err := writer.NewTikzWriter(net).Write(f); err != nil {
			return err
		}
		log.WithField("file", opts.diagram).Info("diagram written")
	}

	log.WithFields(logrus.Fields{
		"circuit": net.Name,
		"gates":   len(net.Gates),
		"lines":   len(net.Lines),
		"inputs":  len(net.Inputs()),
		"outputs": len(net.Outputs()),
		"tests":   len(tests),
	}).Info("ATPG complete")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
