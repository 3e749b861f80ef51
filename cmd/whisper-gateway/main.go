// Command whisper-gateway serves speech-to-text over HTTP.
//
//	whisper-gateway serve [--config path] [--env path]
//	whisper-gateway version
//
// The default backend, whispercpp, runs the model in process and is only
// compiled with -tags whispercpp (cgo and libwhisper required). A plain
// go build refuses to start with BackendNotCompiled unless whisper.backend
// is set to sidecar or openai.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/whisper-gateway/gateway"
	"github.com/kbukum/whisper-gateway/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           gateway.ServiceName,
		Short:         "HTTP gateway for Whisper speech-to-text",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the model and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := serve(cmd.Context(), opts)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", gateway.ServiceName, err)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "path to config.yml")
	cmd.Flags().StringVar(&opts.envFile, "env", "", "path to .env file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	}
}
