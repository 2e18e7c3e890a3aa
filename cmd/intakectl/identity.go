package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/recruitment/identity"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errInvalid makes the command exit non-zero after printing its result
var errInvalid = errors.New("invalid")

func countriesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List supported countries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				return printJSON(cmd.OutOrStdout(), identity.CountryListResponse{
					Countries: identity.Countries(),
					Default:   identity.DefaultCountry().Code,
				})
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tCOUNTRY\tPREFIX\tTAX ID\tEXAMPLE")
			for _, c := range identity.Countries() {
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\n", c.Code, c.FlagGlyph, c.DisplayName, c.CallingPrefix, c.TaxIDLabel, c.InputPlaceholder)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func taxIDCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "taxid <value>",
		Short:   "Validate a tax ID for --country",
		Example: "  intakectl taxid 12.345.678-5 --country CL",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := identity.CheckTaxID(identity.ValidateTaxIDRequest{
				CountryCode: kernel.CountryCode(v.GetString("country")).Upper(),
				TaxID:       args[0],
			})
			if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			if !resp.Valid {
				return fmt.Errorf("%w: %s", errInvalid, resp.Message)
			}
			return nil
		},
	}
}

func phoneCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "phone <value>",
		Short:   "Normalize a phone number for --country",
		Example: `  intakectl phone "9 1234 5678" --country CL`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := identity.CheckPhone(identity.NormalizePhoneRequest{
				CountryCode: kernel.CountryCode(v.GetString("country")).Upper(),
				Phone:       args[0],
			})
			if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			if !resp.Valid {
				return fmt.Errorf("%w: %s", errInvalid, resp.Message)
			}
			return nil
		},
	}
}
