package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/recruitment/allocation"
	"github.com/Abraxas-365/intake/recruitment/applicant"
	"github.com/Abraxas-365/intake/recruitment/project"
	"github.com/spf13/cobra"
)

type allocateOutput struct {
	ProjectID kernel.ProjectID               `json:"project_id"`
	Position  kernel.PositionName            `json:"position"`
	Result    allocation.Result              `json:"result"`
	Outcome   allocation.Outcome             `json:"outcome"`
	Locations []allocation.LocationOccupancy `json:"locations"`
}

func allocateCmd() *cobra.Command {
	var (
		projectFile string
		rosterFile  string
		position    string
	)

	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Run the allocator over a project and roster exported as JSON",
		Long: `allocate reads a project (as returned by GET /api/projects/:id) and a roster
(a JSON array of applicants; only project_id, position, assigned_location and status
are read) and prints the location the next applicant for --position would get.`,
		Example: "  intakectl allocate --project-file project.json --roster-file roster.json --position Picker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var p project.Project
			if err := readJSON(projectFile, &p); err != nil {
				return err
			}

			var applicants []applicant.Applicant
			if rosterFile != "" {
				if err := readJSON(rosterFile, &applicants); err != nil {
					return err
				}
			}
			roster := applicant.Snapshot(applicants)

			pos := kernel.PositionName(position)
			result := allocation.AllocateFor(p.Requirements, roster, p.ID, pos)

			return printJSON(cmd.OutOrStdout(), allocateOutput{
				ProjectID: p.ID,
				Position:  pos,
				Result:    result,
				Outcome:   result.Outcome(),
				Locations: allocation.Occupancy(p.Requirement(pos), roster, p.ID, pos),
			})
		},
	}

	cmd.Flags().StringVar(&projectFile, "project-file", "", "project JSON file")
	cmd.Flags().StringVar(&rosterFile, "roster-file", "", "roster JSON file")
	cmd.Flags().StringVar(&position, "position", "", "position to allocate")
	_ = cmd.MarkFlagRequired("project-file")
	_ = cmd.MarkFlagRequired("position")

	return cmd
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
