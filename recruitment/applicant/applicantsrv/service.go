package applicantsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/intake/pkg/errx"
	"github.com/Abraxas-365/intake/pkg/fsx"
	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/pkg/logx"
	"github.com/Abraxas-365/intake/pkg/metrics"
	"github.com/Abraxas-365/intake/pkg/validatex"
	"github.com/Abraxas-365/intake/recruitment/allocation"
	"github.com/Abraxas-365/intake/recruitment/applicant"
	"github.com/Abraxas-365/intake/recruitment/identity"
	"github.com/Abraxas-365/intake/recruitment/project"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/Abraxas-365/intake/recruitment/applicant"

// Service runs applicant intake: identity checks, seat allocation and the
// waitlist decision.
type Service struct {
	repo      applicant.Repository
	projects  project.Repository
	locker    applicant.Locker
	publisher applicant.EventPublisher
	storage   fsx.FileSystem
	validator *validatex.Validator
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

func NewService(
	repo applicant.Repository,
	projects project.Repository,
	locker applicant.Locker,
	publisher applicant.EventPublisher,
	storage fsx.FileSystem,
	validator *validatex.Validator,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:      repo,
		projects:  projects,
		locker:    locker,
		publisher: publisher,
		storage:   storage,
		validator: validator,
		metrics:   m,
		tracer:    otel.Tracer(tracerName),
	}
}

// ============================================================================
// Allocation
// ============================================================================

// PreviewAllocation computes where the next applicant would be seated, from a
// fresh roster on every call.
func (s *Service) PreviewAllocation(ctx context.Context, projectID kernel.ProjectID, position kernel.PositionName, tenantID kernel.TenantID) (*applicant.AllocationResponse, error) {
	if position == "" {
		return nil, applicant.ErrInvalidApplicantData().WithDetail("position", "required")
	}

	p, roster, err := s.loadSnapshot(ctx, projectID, position, tenantID)
	if err != nil {
		return nil, err
	}

	result := allocation.AllocateFor(p.Requirements, roster, projectID, position)
	resp := applicant.NewAllocationResponse(projectID, position, result)
	return &resp, nil
}

// Occupancy reports every location of a position with its remaining seats
func (s *Service) Occupancy(ctx context.Context, projectID kernel.ProjectID, position kernel.PositionName, tenantID kernel.TenantID) (*applicant.OccupancyResponse, error) {
	if position == "" {
		return nil, applicant.ErrInvalidApplicantData().WithDetail("position", "required")
	}

	p, roster, err := s.loadSnapshot(ctx, projectID, position, tenantID)
	if err != nil {
		return nil, err
	}

	req := p.Requirement(position)
	waitlisted := 0
	for _, r := range roster {
		if r.Status == string(applicant.ApplicantStatusWaitlisted) {
			waitlisted++
		}
	}

	return &applicant.OccupancyResponse{
		ProjectID:     projectID,
		Position:      position,
		Unconstrained: req == nil || len(req.LocationDistribution) == 0,
		Locations:     allocation.Occupancy(req, roster, projectID, position),
		Waitlisted:    waitlisted,
	}, nil
}

// loadSnapshot fetches the project and the position's roster concurrently
func (s *Service) loadSnapshot(ctx context.Context, projectID kernel.ProjectID, position kernel.PositionName, tenantID kernel.TenantID) (*project.Project, []allocation.ApplicantRecord, error) {
	var (
		p      *project.Project
		roster []allocation.ApplicantRecord
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		found, err := s.projects.GetByID(gctx, projectID, tenantID)
		if err != nil {
			if errx.IsCode(err, project.CodeProjectNotFound) {
				return err
			}
			return errx.Wrap(err, "failed to load project", errx.TypeInternal)
		}
		p = found
		return nil
	})

	g.Go(func() error {
		records, err := s.repo.Roster(gctx, projectID, position)
		if err != nil {
			return errx.Wrap(err, "failed to load roster", errx.TypeInternal)
		}
		roster = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return p, roster, nil
}

func lockKey(projectID kernel.ProjectID, position kernel.PositionName) string {
	return "alloc:" + projectID.String() + ":" + string(position)
}

func (s *Service) acquire(ctx context.Context, projectID kernel.ProjectID, position kernel.PositionName) (func(), error) {
	unlock, err := s.locker.Acquire(ctx, lockKey(projectID, position))
	if err != nil {
		if errx.IsCode(err, applicant.CodeAllocationBusy) {
			return nil, err
		}
		return nil, errx.Wrap(err, "failed to acquire allocation lock", errx.TypeExternal)
	}

	return func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			logx.WithError(err).Warnf("allocation lock for %s/%s not released", projectID, position)
		}
	}, nil
}

// ============================================================================
// Registration
// ============================================================================

// Register validates the applicant's identity and seats them. When every
// location is full the applicant must opt in to the waitlist, otherwise
// nothing is persisted.
func (s *Service) Register(ctx context.Context, req applicant.RegisterApplicantRequest, tenantID kernel.TenantID) (*applicant.RegisterApplicantResponse, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "applicant.Register", trace.WithAttributes(
		attribute.String("project_id", req.ProjectID.String()),
		attribute.String("position", string(req.Position)),
		attribute.String("country_code", req.CountryCode.String()),
	))
	defer span.End()

	resp, err := s.register(ctx, req, tenantID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("outcome", string(resp.Allocation.Outcome)))
	s.metrics.ObserveRegistration(string(resp.Applicant.Status), start)
	return resp, nil
}

func (s *Service) register(ctx context.Context, req applicant.RegisterApplicantRequest, tenantID kernel.TenantID) (*applicant.RegisterApplicantResponse, error) {
	req.CountryCode = req.CountryCode.Upper()
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	valid := identity.ValidateTaxID(req.TaxID, req.CountryCode)
	s.metrics.ObserveTaxIDValidation(req.CountryCode.String(), valid)
	if !valid {
		return nil, identity.TaxIDError(req.CountryCode)
	}

	var phone kernel.Phone
	if req.Phone != "" {
		normalized, ok := identity.NormalizePhone(req.Phone, req.CountryCode)
		if !ok {
			return nil, identity.ErrInvalidPhone(req.CountryCode)
		}
		phone = normalized
	}

	taxID := identity.NormalizeTaxID(req.TaxID)

	exists, err := s.repo.ExistsByTaxID(ctx, req.ProjectID, req.CountryCode, taxID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check duplicate applicant", errx.TypeInternal)
	}
	if exists {
		return nil, applicant.ErrDuplicateApplicant().
			WithDetail("project_id", req.ProjectID.String()).
			WithDetail("country_code", req.CountryCode)
	}

	release, err := s.acquire(ctx, req.ProjectID, req.Position)
	if err != nil {
		return nil, err
	}
	defer release()

	p, roster, err := s.loadSnapshot(ctx, req.ProjectID, req.Position, tenantID)
	if err != nil {
		return nil, err
	}

	if !p.IsActive() {
		return nil, project.ErrProjectNotActive().
			WithDetail("project_id", p.ID.String()).
			WithDetail("status", p.Status)
	}

	result := allocation.AllocateFor(p.Requirements, roster, req.ProjectID, req.Position)
	s.metrics.ObserveAllocation(string(result.Outcome()))

	if result.IsFullyOccupied && !req.AcceptWaitlist {
		return nil, applicant.ErrWaitlistConfirmationRequired().
			WithDetail("project_id", req.ProjectID.String()).
			WithDetail("position", req.Position)
	}

	now := time.Now()
	a := &applicant.Applicant{
		ID:          kernel.NewApplicantID(uuid.NewString()),
		TenantID:    tenantID,
		ProjectID:   req.ProjectID,
		Position:    req.Position,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       phone,
		CountryCode: req.CountryCode,
		TaxID:       taxID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if result.IsFullyOccupied {
		a.Status = applicant.ApplicantStatusWaitlisted
		a.WaitlistedAt = &now
	} else {
		a.Status = applicant.ApplicantStatusRegistered
		a.AssignedLocation = result.AssignedLocation
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if errx.IsCode(err, applicant.CodeDuplicateApplicant) {
			return nil, err
		}
		return nil, errx.Wrap(err, "failed to create applicant", errx.TypeInternal)
	}

	logx.WithFields(logx.Fields{
		"applicant_id": a.ID,
		"project_id":   a.ProjectID,
		"position":     a.Position,
		"location":     a.AssignedLocation,
		"status":       a.Status,
	}).Info("applicant registered")

	s.publish(ctx, applicant.NewEvent(applicant.EventTypeFor(a), a))

	return &applicant.RegisterApplicantResponse{
		Applicant:  a,
		Allocation: applicant.NewAllocationResponse(req.ProjectID, req.Position, result),
	}, nil
}

// publish never fails the caller; the applicant is already stored
func (s *Service) publish(ctx context.Context, event applicant.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logx.WithFields(logx.Fields{
			"event_id":   event.ID,
			"event_type": event.Type,
		}).Errorf("failed to publish event: %v", err)
		return
	}
	s.metrics.IncrementEventPublished(string(event.Type))
}

// ============================================================================
// Queries and status changes
// ============================================================================

func (s *Service) GetApplicant(ctx context.Context, id kernel.ApplicantID, tenantID kernel.TenantID) (*applicant.Applicant, error) {
	a, err := s.repo.GetByID(ctx, id, tenantID)
	if err != nil {
		if errx.IsCode(err, applicant.CodeApplicantNotFound) {
			return nil, err
		}
		return nil, errx.Wrap(err, "failed to get applicant", errx.TypeInternal)
	}
	return a, nil
}

func (s *Service) ListByProject(ctx context.Context, req applicant.ListApplicantsRequest, tenantID kernel.TenantID) (*kernel.Paginated[applicant.Applicant], error) {
	if req.Status != "" && !req.Status.IsValid() {
		return nil, applicant.ErrInvalidStatus().WithDetail("status", req.Status)
	}

	if _, err := s.projects.GetByID(ctx, req.ProjectID, tenantID); err != nil {
		if errx.IsCode(err, project.CodeProjectNotFound) {
			return nil, err
		}
		return nil, errx.Wrap(err, "failed to load project", errx.TypeInternal)
	}

	page, err := s.repo.ListByProject(ctx, applicant.ListFilter{
		TenantID:  tenantID,
		ProjectID: req.ProjectID,
		Position:  req.Position,
		Status:    req.Status,
	}, req.Pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list applicants", errx.TypeInternal)
	}
	return page, nil
}

// UpdateStatus changes an applicant's status. Moving a waitlisted applicant
// to Registered takes a seat and fails when none is left.
func (s *Service) UpdateStatus(ctx context.Context, id kernel.ApplicantID, req applicant.UpdateStatusRequest, tenantID kernel.TenantID) (*applicant.Applicant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if !req.Status.IsValid() {
		return nil, applicant.ErrInvalidStatus().WithDetail("status", req.Status)
	}

	a, err := s.GetApplicant(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}

	if req.Status == applicant.ApplicantStatusRegistered {
		if err := s.promote(ctx, a, tenantID); err != nil {
			return nil, err
		}
	} else {
		occupied := a.IsOccupying()
		if err := a.ChangeStatus(req.Status); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, a); err != nil {
			return nil, errx.Wrap(err, "failed to update applicant", errx.TypeInternal)
		}
		if occupied && !a.IsOccupying() {
			logx.WithFields(logx.Fields{
				"project_id": a.ProjectID,
				"position":   a.Position,
				"location":   a.AssignedLocation,
			}).Info("seat freed")
		}
	}

	logx.WithFields(logx.Fields{"applicant_id": a.ID, "status": a.Status}).Info("applicant status changed")
	s.publish(ctx, applicant.NewEvent(applicant.EventApplicantStatusChanged, a))
	return a, nil
}

func (s *Service) promote(ctx context.Context, a *applicant.Applicant, tenantID kernel.TenantID) (err error) {
	ctx, span := s.tracer.Start(ctx, "applicant.Promote", trace.WithAttributes(
		attribute.String("applicant_id", a.ID.String()),
		attribute.String("position", string(a.Position)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if !a.IsWaitlisted() {
		return applicant.ErrInvalidTransition().
			WithDetail("from", a.Status).
			WithDetail("to", applicant.ApplicantStatusRegistered)
	}

	release, err := s.acquire(ctx, a.ProjectID, a.Position)
	if err != nil {
		return err
	}
	defer release()

	p, roster, err := s.loadSnapshot(ctx, a.ProjectID, a.Position, tenantID)
	if err != nil {
		return err
	}
	if !p.IsActive() {
		return project.ErrProjectNotActive().WithDetail("project_id", p.ID.String())
	}

	result := allocation.AllocateFor(p.Requirements, roster, a.ProjectID, a.Position)
	s.metrics.ObserveAllocation(string(result.Outcome()))
	if result.IsFullyOccupied {
		return applicant.ErrNoCapacity().
			WithDetail("project_id", a.ProjectID.String()).
			WithDetail("position", a.Position)
	}

	if err := a.Promote(result.AssignedLocation); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return errx.Wrap(err, "failed to update applicant", errx.TypeInternal)
	}
	return nil
}
