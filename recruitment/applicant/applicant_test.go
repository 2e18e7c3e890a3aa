package applicant

import (
	"testing"

	"github.com/Abraxas-365/intake/pkg/errx"
	"github.com/Abraxas-365/intake/recruitment/allocation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicantStatusIsValid(t *testing.T) {
	for _, s := range []ApplicantStatus{ApplicantStatusRegistered, ApplicantStatusWaitlisted, ApplicantStatusRejected, ApplicantStatusHired} {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, ApplicantStatus("rejected").IsValid())
	assert.False(t, ApplicantStatus("").IsValid())
	assert.Equal(t, allocation.StatusRejected, string(ApplicantStatusRejected))
}

func TestIsOccupying(t *testing.T) {
	tests := []struct {
		name     string
		a        Applicant
		occupies bool
	}{
		{"registered with seat", Applicant{Status: ApplicantStatusRegistered, AssignedLocation: "A"}, true},
		{"hired keeps seat", Applicant{Status: ApplicantStatusHired, AssignedLocation: "A"}, true},
		{"rejected frees seat", Applicant{Status: ApplicantStatusRejected, AssignedLocation: "A"}, false},
		{"waitlisted has no seat", Applicant{Status: ApplicantStatusWaitlisted}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.occupies, tt.a.IsOccupying())
		})
	}
}

func TestChangeStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    ApplicantStatus
		to      ApplicantStatus
		errCode string
	}{
		{"registered to rejected", ApplicantStatusRegistered, ApplicantStatusRejected, ""},
		{"registered to hired", ApplicantStatusRegistered, ApplicantStatusHired, ""},
		{"waitlisted to rejected", ApplicantStatusWaitlisted, ApplicantStatusRejected, ""},
		{"waitlisted to registered needs promote", ApplicantStatusWaitlisted, ApplicantStatusRegistered, CodeInvalidTransition},
		{"rejected is terminal", ApplicantStatusRejected, ApplicantStatusRegistered, CodeInvalidTransition},
		{"hired is terminal", ApplicantStatusHired, ApplicantStatusRejected, CodeInvalidTransition},
		{"unknown status", ApplicantStatusRegistered, "Archived", CodeInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Applicant{Status: tt.from}
			err := a.ChangeStatus(tt.to)
			if tt.errCode != "" {
				require.Error(t, err)
				assert.True(t, errx.IsCode(err, tt.errCode))
				assert.Equal(t, tt.from, a.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, a.Status)
		})
	}
}

func TestPromote(t *testing.T) {
	a := &Applicant{Status: ApplicantStatusWaitlisted}
	require.NoError(t, a.Promote("Talca"))
	assert.Equal(t, ApplicantStatusRegistered, a.Status)
	assert.EqualValues(t, "Talca", a.AssignedLocation)

	err := a.Promote("Curico")
	assert.True(t, errx.IsCode(err, CodeInvalidTransition))
}

func TestSnapshot(t *testing.T) {
	roster := []Applicant{
		{ProjectID: "p", Position: "X", AssignedLocation: "A", Status: ApplicantStatusRegistered},
		{ProjectID: "p", Position: "X", Status: ApplicantStatusWaitlisted},
	}

	records := Snapshot(roster)
	require.Len(t, records, 2)
	assert.Equal(t, allocation.ApplicantRecord{ProjectID: "p", Position: "X", AssignedLocation: "A", Status: "Registered"}, records[0])
	assert.Equal(t, "Waitlisted", records[1].Status)
}

func TestNewEvent(t *testing.T) {
	a := &Applicant{
		ID:        "a-1",
		ProjectID: "p-1",
		FirstName: "Ana",
		LastName:  "Rojas",
		Status:    ApplicantStatusWaitlisted,
	}

	event := NewEvent(EventTypeFor(a), a)
	assert.Equal(t, EventApplicantWaitlisted, event.Type)
	assert.Equal(t, "Ana Rojas", event.FullName)
	assert.NotEmpty(t, event.ID)

	a.Status = ApplicantStatusRegistered
	assert.Equal(t, EventApplicantRegistered, EventTypeFor(a))
}
