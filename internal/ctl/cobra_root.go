// Package ctl implements neuronshimctl, the operator CLI for inspecting the
// resolved configuration, model path redirection and backend availability
// without loading the shim into an application.
package ctl

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the command tree with args, writing to out.
func Execute(args []string, out io.Writer) error {
	root := buildRootCmd(out)
	root.SetArgs(args)
	return root.Execute()
}

// buildRootCmd constructs the Cobra command tree wired to the fn* actions.
func buildRootCmd(out io.Writer) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "neuronshimctl",
		Short:         "Inspect and exercise the Neuron runtime shim",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(out)
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Shim log level: 0-4 or off|error|warn|info|debug (defaults to the resolved config)")
	root.PersistentFlags().StringVar(&opts.backend, "backend", "", "Override the configured backend: auto|onnx|tflite|stub")

	var format string
	configCmd := &cobra.Command{
		Use:     "config",
		Short:   "Print the resolved configuration and the sources that set it",
		Example: "  neuronshimctl config\n  neuronshimctl config --format yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnConfig(cmd.OutOrStdout(), opts, format)
		},
	}
	configCmd.Flags().StringVar(&format, "format", "conf", "Output format: conf|yaml|json|toml")

	resolveCmd := &cobra.Command{
		Use:     "resolve <model.dla>...",
		Short:   "Show where the shim would look for each model and whether it is readable",
		Example: "  neuronshimctl resolve /usr/share/models/detect.dla",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnResolve(cmd.OutOrStdout(), opts, args)
		},
	}

	var dir string
	modelsCmd := &cobra.Command{
		Use:     "models",
		Short:   "List converted models in the model directory and the names they answer to",
		Example: "  neuronshimctl models\n  neuronshimctl models --dir /opt/models",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnModels(cmd.OutOrStdout(), opts, dir)
		},
	}
	modelsCmd.Flags().StringVar(&dir, "dir", "", "Directory to scan (defaults to model_dir)")

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "List backends compiled into this build and whether their runtimes load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnProbe(cmd.OutOrStdout(), opts)
		},
	}

	smoke := &smokeOptions{}
	smokeCmd := &cobra.Command{
		Use:     "smoke <model.dla>",
		Short:   "Load a model through the dispatcher and run inference on zeroed inputs",
		Example: "  neuronshimctl smoke /usr/share/models/detect.dla --runs 10 --metrics",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnSmoke(cmd.OutOrStdout(), opts, smoke, args[0])
		},
	}
	smokeCmd.Flags().IntVar(&smoke.runs, "runs", 1, "Number of inference calls")
	smokeCmd.Flags().BoolVar(&smoke.metrics, "metrics", false, "Print the runtime metrics after the run")

	root.AddCommand(configCmd, resolveCmd, modelsCmd, probeCmd, smokeCmd)

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(os.Stdout, true) }})
	root.AddCommand(completionCmd)

	return root
}
