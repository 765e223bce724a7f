package main

import (
	"fmt"
	"os"

	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mepkit/ducttag/pkg/engine"
	"github.com/mepkit/ducttag/pkg/flow"
	"github.com/mepkit/ducttag/pkg/memmodel"
	"github.com/mepkit/ducttag/pkg/model"
	"github.com/mepkit/ducttag/pkg/shadow"
	"github.com/mepkit/ducttag/pkg/tag"
)

// Build information (set by goreleaser)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var logFlags = logger.Flags{
	Level:       "info",
	LogToStderr: true,
}

var modelPath string

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ducttag",
		Short: "Tag, measure, and shadow-cast duct runs in a model view",
		Long: `ducttag works against a YAML model snapshot: it resolves the inlet and
outlet of each duct element, projects runs into the active view, and
places size annotations on the horizontal ones.`,
		Example: `  ducttag tag --model plant.yaml --label "duct size"
  ducttag resolve --model plant.yaml duct-1
  ducttag shadow --model plant.yaml duct-1
  ducttag script --model plant.yaml tagging.zy`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Configure(logFlags)
		},
	}

	bindLoggerFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().StringVar(&modelPath, "model", "", "Path to a YAML model snapshot")

	rootCmd.AddCommand(newTagCommand())
	rootCmd.AddCommand(newResolveCommand())
	rootCmd.AddCommand(newShadowCommand())
	rootCmd.AddCommand(newScriptCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func bindLoggerFlags(flags *pflag.FlagSet) {
	flags.CountVarP(&logFlags.LevelCount, "loglevel", "v", "Increase logging level")
	flags.StringVar(&logFlags.Level, "log-level", "info", "Set the default log level")
	flags.BoolVar(&logFlags.JsonLogs, "json-logs", false, "Print logs in json format to stderr")
	flags.BoolVar(&logFlags.ReportCaller, "report-caller", false, "Report log caller info")
	flags.BoolVar(&logFlags.LogToStderr, "log-to-stderr", true, "Log to stderr instead of stdout")
}

func loadModel() (*memmodel.Model, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("--model flag is required")
	}
	m, err := memmodel.LoadFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", modelPath, err)
	}
	return m, nil
}

// sizeSpec reads an element's Size parameter and parses it, when both
// exist.
func sizeSpec(el model.Element) *flow.SizeSpec {
	pa, ok := el.(model.ParameterAccess)
	if !ok {
		return nil
	}
	raw, ok := pa.Parameter("Size")
	if !ok {
		return nil
	}
	spec := flow.ParseSize(raw)
	return &spec
}

func newTagCommand() *cobra.Command {
	var category, label string

	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag all horizontal ducts in the view",
		Long: `Tag runs one tagging pass over the snapshot's elements. Elements whose
location curve projects as horizontal in the view get an annotation
anchored at the bottom-left corner of their bounding volume; everything
else is skipped with a reason. The pass runs in a single transaction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel()
			if err != nil {
				return err
			}

			placer, err := tag.NewPlacer(m.Services())
			if err != nil {
				return err
			}
			outcomes, err := placer.TagHorizontal(m.Elements(), category, label)
			if err != nil {
				return err
			}

			for _, o := range outcomes {
				if o.Reason != "" {
					fmt.Printf("%-20s %-8s %s\n", o.ElementID, o.Status, o.Reason)
				} else {
					fmt.Printf("%-20s %-8s\n", o.ElementID, o.Status)
				}
			}

			counts := tag.Summarize(outcomes)
			fmt.Printf("tagged %d, skipped %d, failed %d\n",
				counts[tag.StatusTagged], counts[tag.StatusSkipped], counts[tag.StatusFailed])
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "Ducts", "Element category to tag")
	cmd.Flags().StringVar(&label, "label", "", "Substring of the label family or type name")
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

func newResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [element-id...]",
		Short: "Resolve the inlet and outlet of elements",
		Long: `Resolve reports each element's directional endpoints and, when the
element carries a parseable Size parameter, the offset classification
between its inlet and outlet cross sections.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel()
			if err != nil {
				return err
			}

			elements := m.Elements()
			if len(args) > 0 {
				elements = lo.FilterMap(args, func(id string, _ int) (model.Element, bool) {
					el, ok := m.Element(id)
					if !ok {
						logger.Warnf("no element %q in model", id)
					}
					return el, ok
				})
			}

			for _, el := range elements {
				spec := sizeSpec(el)
				pair := flow.Resolve(el, spec)
				if pair.Empty() {
					fmt.Printf("%-20s no endpoints\n", el.ID())
					continue
				}
				fmt.Printf("%-20s inlet (%.3f, %.3f, %.3f)  outlet (%.3f, %.3f, %.3f)\n",
					el.ID(),
					pair.Inlet.Origin.X, pair.Inlet.Origin.Y, pair.Inlet.Origin.Z,
					pair.Outlet.Origin.X, pair.Outlet.Origin.Y, pair.Outlet.Origin.Z)

				if spec == nil {
					continue
				}
				offsets, err := flow.ComputeOffsets(pair, *spec)
				if err != nil {
					logger.Warnf("element %s: offsets: %v", el.ID(), err)
					continue
				}
				if offsets != nil {
					fmt.Printf("%-20s size %s -> %s\n", "", spec.Raw, offsets.Classify())
				}
			}
			return nil
		},
	}
	return cmd
}

func newShadowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shadow <element-id>",
		Short: "Project an element's run footprint into the view",
		Long: `Shadow resolves the element's endpoints, builds the rectangular
openings at both ends from its inlet connector dimensions, and projects
all eight corners into the view plane. The reported anchor is the
bottom-left of the footprint.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel()
			if err != nil {
				return err
			}
			el, ok := m.Element(args[0])
			if !ok {
				return fmt.Errorf("no element %q in model", args[0])
			}

			pair := flow.Resolve(el, sizeSpec(el))
			if pair.Empty() {
				return fmt.Errorf("element %s has no resolvable endpoints", el.ID())
			}

			frame, err := tag.FrameFromView(m.View())
			if err != nil {
				return err
			}

			width, height := pair.Inlet.Width, pair.Inlet.Height
			if d := pair.Inlet.Diameter(); d > 0 {
				width, height = d, d
			}

			axis := pair.Axis()
			s, err := shadow.Cast(shadow.DuctRun{
				Start:  pair.Inlet.Origin,
				Axis:   axis,
				Width:  width,
				Height: height,
				Length: axis.Length(),
				Frame:  frame,
			})
			if err != nil {
				return err
			}

			for i, uv := range s.Projected {
				fmt.Printf("corner %d: (%.3f, %.3f)\n", i, uv.U, uv.V)
			}
			fmt.Printf("anchor: (%.3f, %.3f)\n", s.Anchor.X, s.Anchor.Y)
			return nil
		},
	}
	return cmd
}

func newScriptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script <file>",
		Short: "Run a tagging script against the model",
		Long: `Script evaluates a Lisp tagging script in a sandboxed interpreter with
builtins for resolving endpoints, casting shadows, and running tagging
passes over the snapshot's elements.`,
		Example: `  ducttag script --model plant.yaml tagging.zy`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel()
			if err != nil {
				return err
			}
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			session := &engine.Session{
				Elements: m.Elements(),
				Services: m.Services(),
			}
			result, evalErrs, err := engine.NewEngine().Run(string(source), session)
			if err != nil {
				return err
			}
			if len(evalErrs) > 0 {
				for _, e := range evalErrs {
					fmt.Fprintf(os.Stderr, "%s: %s\n", args[0], e.Error())
				}
				return fmt.Errorf("script failed with %d error(s)", len(evalErrs))
			}

			for _, line := range result.Output {
				fmt.Println(line)
			}
			if len(result.Outcomes) > 0 {
				counts := tag.Summarize(result.Outcomes)
				fmt.Printf("tagged %d, skipped %d, failed %d\n",
					counts[tag.StatusTagged], counts[tag.StatusSkipped], counts[tag.StatusFailed])
			}
			return nil
		},
	}
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ducttag %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
