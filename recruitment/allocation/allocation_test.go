package allocation

import (
	"testing"

	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	project kernel.ProjectID    = "p1"
	cashier kernel.PositionName = "Cashier"
	stgo    kernel.LocationName = "Santiago"
	valpo   kernel.LocationName = "Valparaiso"
	other   kernel.ProjectID    = "p2"
	stocker kernel.PositionName = "Stocker"
)

func record(loc kernel.LocationName, status string) ApplicantRecord {
	return ApplicantRecord{ProjectID: project, Position: cashier, AssignedLocation: loc, Status: status}
}

func twoBuckets() *PositionRequirement {
	return &PositionRequirement{
		Position: cashier,
		LocationDistribution: []LocationQuota{
			{Location: stgo, Quantity: 1},
			{Location: valpo, Quantity: 1},
		},
	}
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name     string
		req      *PositionRequirement
		snapshot []ApplicantRecord
		want     Result
	}{
		{
			name: "first bucket when empty",
			req:  twoBuckets(),
			want: Result{AssignedLocation: stgo},
		},
		{
			name:     "first bucket full moves to second",
			req:      twoBuckets(),
			snapshot: []ApplicantRecord{record(stgo, "Registered")},
			want:     Result{AssignedLocation: valpo},
		},
		{
			name:     "earlier bucket with room wins even if later has more",
			req:      &PositionRequirement{Position: cashier, LocationDistribution: []LocationQuota{{stgo, 2}, {valpo, 10}}},
			snapshot: []ApplicantRecord{record(stgo, "Registered")},
			want:     Result{AssignedLocation: stgo},
		},
		{
			name:     "saturated",
			req:      &PositionRequirement{Position: cashier, LocationDistribution: []LocationQuota{{stgo, 1}}},
			snapshot: []ApplicantRecord{record(stgo, "Registered")},
			want:     Result{IsFullyOccupied: true},
		},
		{
			name:     "all buckets saturated",
			req:      twoBuckets(),
			snapshot: []ApplicantRecord{record(stgo, "Registered"), record(valpo, "Hired")},
			want:     Result{IsFullyOccupied: true},
		},
		{
			name:     "rejected applicants free the seat",
			req:      &PositionRequirement{Position: cashier, LocationDistribution: []LocationQuota{{stgo, 1}}},
			snapshot: []ApplicantRecord{record(stgo, StatusRejected)},
			want:     Result{AssignedLocation: stgo},
		},
		{
			name: "other projects and positions do not count",
			req:  &PositionRequirement{Position: cashier, LocationDistribution: []LocationQuota{{stgo, 1}}},
			snapshot: []ApplicantRecord{
				{ProjectID: other, Position: cashier, AssignedLocation: stgo, Status: "Registered"},
				{ProjectID: project, Position: stocker, AssignedLocation: stgo, Status: "Registered"},
				{ProjectID: project, Position: cashier, AssignedLocation: "", Status: "Waitlisted"},
			},
			want: Result{AssignedLocation: stgo},
		},
		{
			name: "zero quota is always full",
			req:  &PositionRequirement{Position: cashier, LocationDistribution: []LocationQuota{{stgo, 0}}},
			want: Result{IsFullyOccupied: true},
		},
		{
			name:     "nil requirement is unconstrained",
			req:      nil,
			snapshot: []ApplicantRecord{record(stgo, "Registered")},
			want:     Result{},
		},
		{
			name:     "empty distribution is unconstrained",
			req:      &PositionRequirement{Position: cashier, LocationDistribution: []LocationQuota{}},
			snapshot: []ApplicantRecord{record(stgo, "Registered"), record(valpo, "Registered")},
			want:     Result{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allocate(tt.req, tt.snapshot, project, cashier))
		})
	}
}

func TestAllocateIsIdempotent(t *testing.T) {
	req := twoBuckets()
	snapshot := []ApplicantRecord{record(stgo, "Registered")}

	first := Allocate(req, snapshot, project, cashier)
	second := Allocate(req, snapshot, project, cashier)
	assert.Equal(t, first, second)
	assert.Len(t, snapshot, 1)
}

func TestAllocateFor(t *testing.T) {
	reqs := []PositionRequirement{*twoBuckets()}

	assert.Equal(t, Result{AssignedLocation: stgo}, AllocateFor(reqs, nil, project, cashier))
	assert.Equal(t, Result{}, AllocateFor(reqs, nil, project, stocker))
}

func TestFindRequirement(t *testing.T) {
	reqs := []PositionRequirement{
		{Position: cashier, LocationDistribution: []LocationQuota{{stgo, 1}}},
		{Position: cashier, LocationDistribution: []LocationQuota{{valpo, 1}}},
	}

	got := FindRequirement(reqs, cashier)
	require.NotNil(t, got)
	assert.Equal(t, stgo, got.LocationDistribution[0].Location)
	assert.Nil(t, FindRequirement(reqs, stocker))
	assert.Nil(t, FindRequirement(nil, cashier))
}

func TestOccupancy(t *testing.T) {
	snapshot := []ApplicantRecord{
		record(stgo, "Registered"),
		record(stgo, StatusRejected),
		record(valpo, "Hired"),
		record(valpo, "Registered"),
	}

	got := Occupancy(twoBuckets(), snapshot, project, cashier)
	assert.Equal(t, []LocationOccupancy{
		{Location: stgo, Quantity: 1, Occupied: 1, Remaining: 0},
		{Location: valpo, Quantity: 1, Occupied: 2, Remaining: 0},
	}, got)

	assert.Empty(t, Occupancy(nil, snapshot, project, cashier))
}

func TestResultOutcome(t *testing.T) {
	assert.Equal(t, OutcomeAssigned, Result{AssignedLocation: stgo}.Outcome())
	assert.Equal(t, OutcomeSaturated, Result{IsFullyOccupied: true}.Outcome())
	assert.Equal(t, OutcomeUnconstrained, Result{}.Outcome())
}

func TestIsOccupying(t *testing.T) {
	assert.False(t, IsOccupying(StatusRejected))
	assert.True(t, IsOccupying("Registered"))
	assert.True(t, IsOccupying("rejected"))
}
