package applicantsrv

import (
	"bytes"
	"context"
	"encoding/csv"
	"time"

	"github.com/Abraxas-365/intake/pkg/errx"
	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/pkg/logx"
	"github.com/Abraxas-365/intake/recruitment/applicant"
	"github.com/Abraxas-365/intake/recruitment/identity"
	"github.com/Abraxas-365/intake/recruitment/project"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var rosterHeader = []string{
	"id", "position", "assigned_location", "status",
	"first_name", "last_name", "email", "phone",
	"country_code", "tax_id", "tax_id_display",
	"waitlisted_at", "created_at",
}

// ExportRoster writes the project's applicants as CSV to
// rosters/<project>/<timestamp>.csv and returns the storage key.
func (s *Service) ExportRoster(ctx context.Context, projectID kernel.ProjectID, tenantID kernel.TenantID) (resp *applicant.ExportRosterResponse, err error) {
	ctx, span := s.tracer.Start(ctx, "applicant.ExportRoster", trace.WithAttributes(
		attribute.String("project_id", projectID.String()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if _, err := s.projects.GetByID(ctx, projectID, tenantID); err != nil {
		if errx.IsCode(err, project.CodeProjectNotFound) {
			return nil, err
		}
		return nil, errx.Wrap(err, "failed to load project", errx.TypeInternal)
	}

	applicants, err := s.repo.ListAllByProject(ctx, projectID, tenantID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list applicants", errx.TypeInternal)
	}

	data, err := encodeRoster(applicants)
	if err != nil {
		return nil, applicant.ErrExportFailed().WithCause(err)
	}

	key := s.storage.Join("rosters", projectID.String(), time.Now().UTC().Format("20060102T150405Z")+".csv")
	if err := s.storage.WriteFile(ctx, key, data); err != nil {
		return nil, applicant.ErrExportFailed().
			WithDetail("key", key).
			WithCause(err)
	}

	logx.WithFields(logx.Fields{"project_id": projectID, "key": key, "rows": len(applicants)}).Info("roster exported")

	return &applicant.ExportRosterResponse{Key: key, Rows: len(applicants)}, nil
}

func encodeRoster(applicants []applicant.Applicant) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(rosterHeader); err != nil {
		return nil, err
	}

	for _, a := range applicants {
		display := a.TaxID
		if a.CountryCode == "CL" {
			if formatted, ok := identity.FormatRUT(a.TaxID); ok {
				display = formatted
			}
		}

		waitlistedAt := ""
		if a.WaitlistedAt != nil {
			waitlistedAt = a.WaitlistedAt.UTC().Format(time.RFC3339)
		}

		if err := w.Write([]string{
			a.ID.String(),
			string(a.Position),
			string(a.AssignedLocation),
			string(a.Status),
			string(a.FirstName),
			string(a.LastName),
			a.Email.String(),
			a.Phone.String(),
			a.CountryCode.String(),
			a.TaxID,
			display,
			waitlistedAt,
			a.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
