package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Abraxas-365/intake/pkg/logx"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "intakectl",
		Short: "Offline identity and allocation checks for intake",
		Long: `intakectl validates tax IDs and phones the same way the intake API does,
and runs the capacity allocator over JSON exports of a project and its roster.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			v.SetEnvPrefix("INTAKE")
			v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			v.AutomaticEnv()

			logx.SetLevel(logx.ParseLevel(v.GetString("log-level")))
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("country", "CL", "ISO country code")
	_ = v.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("country", root.PersistentFlags().Lookup("country"))

	root.AddCommand(countriesCmd())
	root.AddCommand(taxIDCmd(v))
	root.AddCommand(phoneCmd(v))
	root.AddCommand(allocateCmd())
	root.AddCommand(tokenCmd())

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
