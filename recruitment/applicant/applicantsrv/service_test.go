package applicantsrv

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/intake/pkg/errx"
	"github.com/Abraxas-365/intake/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/pkg/metrics"
	"github.com/Abraxas-365/intake/pkg/validatex"
	"github.com/Abraxas-365/intake/recruitment/allocation"
	"github.com/Abraxas-365/intake/recruitment/applicant"
	"github.com/Abraxas-365/intake/recruitment/applicant/mocks"
	"github.com/Abraxas-365/intake/recruitment/identity"
	"github.com/Abraxas-365/intake/recruitment/project"
	projectmocks "github.com/Abraxas-365/intake/recruitment/project/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const (
	tenant    = kernel.TenantID("tenant-1")
	projectID = kernel.ProjectID("p-1")
	position  = kernel.PositionName("Picker")
)

type ServiceSuite struct {
	suite.Suite
	repo      *mocks.MockRepository
	locker    *mocks.MockLocker
	publisher *mocks.MockEventPublisher
	projects  *projectmocks.MockRepository
	metrics   *metrics.Metrics
	storage   *fsxlocal.LocalFileSystem
	service   *Service
	released  int
}

func (s *ServiceSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.repo = mocks.NewMockRepository(ctrl)
	s.locker = mocks.NewMockLocker(ctrl)
	s.publisher = mocks.NewMockEventPublisher(ctrl)
	s.projects = projectmocks.NewMockRepository(ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.storage = fsxlocal.NewLocalFileSystem(s.T().TempDir())
	s.released = 0

	s.service = NewService(
		s.repo,
		s.projects,
		s.locker,
		s.publisher,
		s.storage,
		validatex.MustNew(identity.RegisterValidations),
		s.metrics,
	)
}

func (s *ServiceSuite) activeProject(quotas ...allocation.LocationQuota) *project.Project {
	return &project.Project{
		ID:       projectID,
		TenantID: tenant,
		Status:   project.ProjectStatusActive,
		Requirements: []allocation.PositionRequirement{
			{Position: position, LocationDistribution: quotas},
		},
	}
}

func (s *ServiceSuite) expectLock() {
	s.locker.EXPECT().Acquire(gomock.Any(), "alloc:p-1:Picker").Return(applicant.Unlock(func(context.Context) error {
		s.released++
		return nil
	}), nil)
}

func (s *ServiceSuite) expectSnapshot(p *project.Project, roster ...allocation.ApplicantRecord) {
	s.projects.EXPECT().GetByID(gomock.Any(), projectID, tenant).Return(p, nil)
	s.repo.EXPECT().Roster(gomock.Any(), projectID, position).Return(roster, nil)
}

func seat(location kernel.LocationName, status applicant.ApplicantStatus) allocation.ApplicantRecord {
	return allocation.ApplicantRecord{ProjectID: projectID, Position: position, AssignedLocation: location, Status: string(status)}
}

func registerRequest() applicant.RegisterApplicantRequest {
	return applicant.RegisterApplicantRequest{
		ProjectID:   projectID,
		Position:    position,
		FirstName:   "Ana",
		LastName:    "Rojas",
		Email:       "ana@example.cl",
		Phone:       "9 1234 5678",
		CountryCode: "cl",
		TaxID:       "12.345.678-5",
	}
}

func (s *ServiceSuite) TestRegisterAssignsFirstLocationWithRoom() {
	s.repo.EXPECT().ExistsByTaxID(gomock.Any(), projectID, kernel.CountryCode("CL"), "123456785").Return(false, nil)
	s.expectLock()
	s.expectSnapshot(
		s.activeProject(
			allocation.LocationQuota{Location: "Curico", Quantity: 1},
			allocation.LocationQuota{Location: "Talca", Quantity: 1},
		),
		seat("Curico", applicant.ApplicantStatusRegistered),
	)

	var stored *applicant.Applicant
	s.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *applicant.Applicant) error {
		stored = a
		return nil
	})
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e applicant.Event) error {
		s.Equal(applicant.EventApplicantRegistered, e.Type)
		return nil
	})

	resp, err := s.service.Register(context.Background(), registerRequest(), tenant)
	s.Require().NoError(err)

	s.Same(stored, resp.Applicant)
	s.Equal(applicant.ApplicantStatusRegistered, stored.Status)
	s.Equal(kernel.LocationName("Talca"), stored.AssignedLocation)
	s.Equal(kernel.Phone("+56912345678"), stored.Phone)
	s.Equal(kernel.CountryCode("CL"), stored.CountryCode)
	s.Equal("123456785", stored.TaxID)
	s.Equal(allocation.OutcomeAssigned, resp.Allocation.Outcome)
	s.Equal(1, s.released)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.Registrations.WithLabelValues("Registered")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.AllocationOutcomes.WithLabelValues("assigned")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.TaxIDValidations.WithLabelValues("CL", "valid")))
}

func (s *ServiceSuite) TestRegisterRejectedApplicantsFreeSeats() {
	s.repo.EXPECT().ExistsByTaxID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	s.expectLock()
	s.expectSnapshot(
		s.activeProject(allocation.LocationQuota{Location: "Curico", Quantity: 1}),
		seat("Curico", applicant.ApplicantStatusRejected),
	)
	s.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := s.service.Register(context.Background(), registerRequest(), tenant)
	s.Require().NoError(err)
	s.Equal(kernel.LocationName("Curico"), resp.Applicant.AssignedLocation)
}

func (s *ServiceSuite) TestRegisterSaturatedNeedsConfirmation() {
	s.repo.EXPECT().ExistsByTaxID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	s.expectLock()
	s.expectSnapshot(
		s.activeProject(allocation.LocationQuota{Location: "Curico", Quantity: 1}),
		seat("Curico", applicant.ApplicantStatusRegistered),
	)

	_, err := s.service.Register(context.Background(), registerRequest(), tenant)
	s.Require().Error(err)
	s.True(errx.IsCode(err, applicant.CodeWaitlistConfirmationRequired))
	s.Equal(1, s.released)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.AllocationOutcomes.WithLabelValues("saturated")))
}

func (s *ServiceSuite) TestRegisterSaturatedWithConfirmationWaitlists() {
	s.repo.EXPECT().ExistsByTaxID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	s.expectLock()
	s.expectSnapshot(
		s.activeProject(allocation.LocationQuota{Location: "Curico", Quantity: 0}),
	)
	s.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e applicant.Event) error {
		s.Equal(applicant.EventApplicantWaitlisted, e.Type)
		return nil
	})

	req := registerRequest()
	req.AcceptWaitlist = true

	resp, err := s.service.Register(context.Background(), req, tenant)
	s.Require().NoError(err)
	s.Equal(applicant.ApplicantStatusWaitlisted, resp.Applicant.Status)
	s.Empty(resp.Applicant.AssignedLocation)
	s.NotNil(resp.Applicant.WaitlistedAt)
	s.True(resp.Allocation.IsFullyOccupied)
}

func (s *ServiceSuite) TestRegisterUnconstrainedPosition() {
	s.repo.EXPECT().ExistsByTaxID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	s.expectLock()
	s.expectSnapshot(s.activeProject())
	s.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := s.service.Register(context.Background(), registerRequest(), tenant)
	s.Require().NoError(err)
	s.Equal(applicant.ApplicantStatusRegistered, resp.Applicant.Status)
	s.Empty(resp.Applicant.AssignedLocation)
	s.Equal(allocation.OutcomeUnconstrained, resp.Allocation.Outcome)
}

func (s *ServiceSuite) TestRegisterInvalidTaxID() {
	req := registerRequest()
	req.TaxID = "12.345.678-4"

	_, err := s.service.Register(context.Background(), req, tenant)
	s.Require().Error(err)
	s.True(errx.IsCode(err, identity.CodeInvalidTaxID))

	var e *errx.Error
	s.Require().True(errors.As(err, &e))
	s.Equal("RUT is invalid", e.Message)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.TaxIDValidations.WithLabelValues("CL", "invalid")))
}

func (s *ServiceSuite) TestRegisterRequestValidation() {
	req := registerRequest()
	req.Email = "not-an-email"
	req.CountryCode = "BR"

	_, err := s.service.Register(context.Background(), req, tenant)
	s.Require().Error(err)
	s.True(errx.IsCode(err, validatex.CodeInvalidRequest))
}

func (s *ServiceSuite) TestRegisterDuplicate() {
	s.repo.EXPECT().ExistsByTaxID(gomock.Any(), projectID, kernel.CountryCode("CL"), "123456785").Return(true, nil)

	_, err := s.service.Register(context.Background(), registerRequest(), tenant)
	s.True(errx.IsCode(err, applicant.CodeDuplicateApplicant))
}

func (s *ServiceSuite) TestRegisterClosedProject() {
	s.repo.EXPECT().ExistsByTaxID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	s.expectLock()
	p := s.activeProject()
	p.Status = project.ProjectStatusClosed
	s.expectSnapshot(p)

	_, err := s.service.Register(context.Background(), registerRequest(), tenant)
	s.True(errx.IsCode(err, project.CodeProjectNotActive))
}

func (s *ServiceSuite) TestUndeclaredPositionIsUnconstrained() {
	driver := kernel.PositionName("Driver")
	p := s.activeProject(allocation.LocationQuota{Location: "Curico", Quantity: 1})

	s.projects.EXPECT().GetByID(gomock.Any(), projectID, tenant).Return(p, nil).Times(2)
	s.repo.EXPECT().Roster(gomock.Any(), projectID, driver).Return(nil, nil).Times(2)
	s.repo.EXPECT().ExistsByTaxID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	s.locker.EXPECT().Acquire(gomock.Any(), "alloc:p-1:Driver").Return(applicant.Unlock(func(context.Context) error { return nil }), nil)
	s.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	preview, err := s.service.PreviewAllocation(context.Background(), projectID, driver, tenant)
	s.Require().NoError(err)
	s.Equal(allocation.OutcomeUnconstrained, preview.Outcome)

	req := registerRequest()
	req.Position = driver

	resp, err := s.service.Register(context.Background(), req, tenant)
	s.Require().NoError(err)
	s.Equal(preview.Outcome, resp.Allocation.Outcome)
	s.Equal(applicant.ApplicantStatusRegistered, resp.Applicant.Status)
	s.Empty(resp.Applicant.AssignedLocation)
}

func (s *ServiceSuite) TestRegisterLockBusy() {
	s.repo.EXPECT().ExistsByTaxID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	s.locker.EXPECT().Acquire(gomock.Any(), gomock.Any()).Return(nil, applicant.ErrAllocationBusy())

	_, err := s.service.Register(context.Background(), registerRequest(), tenant)
	s.True(errx.IsCode(err, applicant.CodeAllocationBusy))
}

func (s *ServiceSuite) TestRegisterPublishFailureIsNotFatal() {
	s.repo.EXPECT().ExistsByTaxID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	s.expectLock()
	s.expectSnapshot(s.activeProject(allocation.LocationQuota{Location: "Curico", Quantity: 5}))
	s.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	_, err := s.service.Register(context.Background(), registerRequest(), tenant)
	s.NoError(err)
}

func (s *ServiceSuite) TestPreviewAllocation() {
	s.expectSnapshot(
		s.activeProject(
			allocation.LocationQuota{Location: "Curico", Quantity: 1},
			allocation.LocationQuota{Location: "Talca", Quantity: 1},
		),
		seat("Curico", applicant.ApplicantStatusRegistered),
		seat("Talca", applicant.ApplicantStatusHired),
	)

	resp, err := s.service.PreviewAllocation(context.Background(), projectID, position, tenant)
	s.Require().NoError(err)
	s.True(resp.IsFullyOccupied)
	s.Empty(resp.AssignedLocation)
	s.Equal(allocation.OutcomeSaturated, resp.Outcome)
}

func (s *ServiceSuite) TestPreviewAllocationRequiresPosition() {
	_, err := s.service.PreviewAllocation(context.Background(), projectID, "", tenant)
	s.True(errx.IsCode(err, applicant.CodeInvalidApplicantData))
}

func (s *ServiceSuite) TestPreviewAllocationProjectNotFound() {
	s.projects.EXPECT().GetByID(gomock.Any(), projectID, tenant).Return(nil, project.ErrProjectNotFound())
	s.repo.EXPECT().Roster(gomock.Any(), projectID, position).Return(nil, nil).MaxTimes(1)

	_, err := s.service.PreviewAllocation(context.Background(), projectID, position, tenant)
	s.True(errx.IsCode(err, project.CodeProjectNotFound))
}

func (s *ServiceSuite) TestOccupancy() {
	s.expectSnapshot(
		s.activeProject(
			allocation.LocationQuota{Location: "Curico", Quantity: 2},
			allocation.LocationQuota{Location: "Talca", Quantity: 1},
		),
		seat("Curico", applicant.ApplicantStatusRegistered),
		seat("Curico", applicant.ApplicantStatusRejected),
		seat("", applicant.ApplicantStatusWaitlisted),
	)

	resp, err := s.service.Occupancy(context.Background(), projectID, position, tenant)
	s.Require().NoError(err)
	s.False(resp.Unconstrained)
	s.Equal(1, resp.Waitlisted)
	s.Equal([]allocation.LocationOccupancy{
		{Location: "Curico", Quantity: 2, Occupied: 1, Remaining: 1},
		{Location: "Talca", Quantity: 1, Occupied: 0, Remaining: 1},
	}, resp.Locations)
}

func (s *ServiceSuite) TestUpdateStatusReject() {
	a := &applicant.Applicant{ID: "a-1", TenantID: tenant, ProjectID: projectID, Position: position, Status: applicant.ApplicantStatusRegistered, AssignedLocation: "Curico"}
	s.repo.EXPECT().GetByID(gomock.Any(), a.ID, tenant).Return(a, nil)
	s.repo.EXPECT().Update(gomock.Any(), a).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e applicant.Event) error {
		s.Equal(applicant.EventApplicantStatusChanged, e.Type)
		s.Equal(applicant.ApplicantStatusRejected, e.Status)
		return nil
	})

	got, err := s.service.UpdateStatus(context.Background(), a.ID, applicant.UpdateStatusRequest{Status: applicant.ApplicantStatusRejected}, tenant)
	s.Require().NoError(err)
	s.Equal(applicant.ApplicantStatusRejected, got.Status)
	s.False(got.IsOccupying())
}

func (s *ServiceSuite) TestUpdateStatusInvalid() {
	_, err := s.service.UpdateStatus(context.Background(), "a-1", applicant.UpdateStatusRequest{Status: "Fired"}, tenant)
	s.True(errx.IsCode(err, applicant.CodeInvalidStatus))
}

func (s *ServiceSuite) TestPromoteFromWaitlist() {
	a := &applicant.Applicant{ID: "a-1", TenantID: tenant, ProjectID: projectID, Position: position, Status: applicant.ApplicantStatusWaitlisted}
	s.repo.EXPECT().GetByID(gomock.Any(), a.ID, tenant).Return(a, nil)
	s.expectLock()
	s.expectSnapshot(
		s.activeProject(allocation.LocationQuota{Location: "Curico", Quantity: 1}),
		seat("Curico", applicant.ApplicantStatusRejected),
		seat("", applicant.ApplicantStatusWaitlisted),
	)
	s.repo.EXPECT().Update(gomock.Any(), a).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	got, err := s.service.UpdateStatus(context.Background(), a.ID, applicant.UpdateStatusRequest{Status: applicant.ApplicantStatusRegistered}, tenant)
	s.Require().NoError(err)
	s.Equal(applicant.ApplicantStatusRegistered, got.Status)
	s.Equal(kernel.LocationName("Curico"), got.AssignedLocation)
	s.Equal(1, s.released)
}

func (s *ServiceSuite) TestPromoteWithoutCapacity() {
	a := &applicant.Applicant{ID: "a-1", TenantID: tenant, ProjectID: projectID, Position: position, Status: applicant.ApplicantStatusWaitlisted}
	s.repo.EXPECT().GetByID(gomock.Any(), a.ID, tenant).Return(a, nil)
	s.expectLock()
	s.expectSnapshot(
		s.activeProject(allocation.LocationQuota{Location: "Curico", Quantity: 1}),
		seat("Curico", applicant.ApplicantStatusRegistered),
	)

	_, err := s.service.UpdateStatus(context.Background(), a.ID, applicant.UpdateStatusRequest{Status: applicant.ApplicantStatusRegistered}, tenant)
	s.True(errx.IsCode(err, applicant.CodeNoCapacity))
	s.Equal(applicant.ApplicantStatusWaitlisted, a.Status)
}

func (s *ServiceSuite) TestListByProject() {
	s.projects.EXPECT().GetByID(gomock.Any(), projectID, tenant).Return(s.activeProject(), nil)
	page := kernel.NewPaginated([]applicant.Applicant{{ID: "a-1"}}, 1, 20, 1)
	s.repo.EXPECT().ListByProject(gomock.Any(), applicant.ListFilter{
		TenantID:  tenant,
		ProjectID: projectID,
		Status:    applicant.ApplicantStatusWaitlisted,
	}, kernel.PaginationOptions{Page: 1, PageSize: 20}).Return(&page, nil)

	got, err := s.service.ListByProject(context.Background(), applicant.ListApplicantsRequest{
		ProjectID:  projectID,
		Status:     applicant.ApplicantStatusWaitlisted,
		Pagination: kernel.PaginationOptions{Page: 1, PageSize: 20},
	}, tenant)
	s.Require().NoError(err)
	s.Len(got.Items, 1)
}

func (s *ServiceSuite) TestExportRoster() {
	waitlisted := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	s.projects.EXPECT().GetByID(gomock.Any(), projectID, tenant).Return(s.activeProject(), nil)
	s.repo.EXPECT().ListAllByProject(gomock.Any(), projectID, tenant).Return([]applicant.Applicant{
		{ID: "a-1", Position: position, AssignedLocation: "Curico", Status: applicant.ApplicantStatusRegistered, CountryCode: "CL", TaxID: "123456785"},
		{ID: "a-2", Position: position, Status: applicant.ApplicantStatusWaitlisted, CountryCode: "PE", TaxID: "12345678", WaitlistedAt: &waitlisted},
	}, nil)

	resp, err := s.service.ExportRoster(context.Background(), projectID, tenant)
	s.Require().NoError(err)
	s.Equal(2, resp.Rows)
	s.True(strings.HasPrefix(resp.Key, "rosters/p-1/"))
	s.True(strings.HasSuffix(resp.Key, ".csv"))

	data, err := s.storage.ReadFile(context.Background(), resp.Key)
	s.Require().NoError(err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal(rosterHeader, rows[0])
	s.Equal("12.345.678-5", rows[1][10])
	s.Equal("Curico", rows[1][2])
	s.Equal("", rows[2][2])
	s.Equal("2026-03-02T10:00:00Z", rows[2][11])
}

func (s *ServiceSuite) TestExportRosterProjectNotFound() {
	s.projects.EXPECT().GetByID(gomock.Any(), projectID, tenant).Return(nil, project.ErrProjectNotFound())

	_, err := s.service.ExportRoster(context.Background(), projectID, tenant)
	s.True(errx.IsCode(err, project.CodeProjectNotFound))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func TestLockKey(t *testing.T) {
	assert.Equal(t, "alloc:p-1:Picker", lockKey(projectID, position))
}

func TestEncodeRosterFormatsRUT(t *testing.T) {
	data, err := encodeRoster([]applicant.Applicant{
		{ID: "a-1", CountryCode: "CL", TaxID: "123456785", Status: applicant.ApplicantStatusRegistered},
		{ID: "a-2", CountryCode: "PE", TaxID: "12345678", Status: applicant.ApplicantStatusWaitlisted},
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), "123456785,12.345.678-5")
	assert.Contains(t, string(data), "12345678,12345678")
}
