package allocation

import "github.com/Abraxas-365/intake/pkg/kernel"

// StatusRejected is the only applicant status that frees a seat
const StatusRejected = "Rejected"

type Outcome string

const (
	OutcomeAssigned      Outcome = "assigned"
	OutcomeSaturated     Outcome = "saturated"
	OutcomeUnconstrained Outcome = "unconstrained"
)

// LocationQuota is one capacity bucket of a position
type LocationQuota struct {
	Location kernel.LocationName `json:"location"`
	Quantity int                 `json:"quantity"`
}

// PositionRequirement lists the buckets of a position in fill order
type PositionRequirement struct {
	Position             kernel.PositionName `json:"position"`
	LocationDistribution []LocationQuota     `json:"location_distribution"`
}

// ApplicantRecord is the slice of an applicant the allocator reads
type ApplicantRecord struct {
	ProjectID        kernel.ProjectID    `json:"project_id"`
	Position         kernel.PositionName `json:"position"`
	AssignedLocation kernel.LocationName `json:"assigned_location"`
	Status           string              `json:"status"`
}

type Result struct {
	AssignedLocation kernel.LocationName `json:"assigned_location"`
	IsFullyOccupied  bool                `json:"is_fully_occupied"`
}

func (r Result) Outcome() Outcome {
	switch {
	case r.IsFullyOccupied:
		return OutcomeSaturated
	case r.AssignedLocation != "":
		return OutcomeAssigned
	default:
		return OutcomeUnconstrained
	}
}

// LocationOccupancy reports the usage of one bucket
type LocationOccupancy struct {
	Location  kernel.LocationName `json:"location"`
	Quantity  int                 `json:"quantity"`
	Occupied  int                 `json:"occupied"`
	Remaining int                 `json:"remaining"`
}

func IsOccupying(status string) bool {
	return status != StatusRejected
}

// FindRequirement returns the first requirement declared for position
func FindRequirement(reqs []PositionRequirement, position kernel.PositionName) *PositionRequirement {
	for i := range reqs {
		if reqs[i].Position == position {
			return &reqs[i]
		}
	}
	return nil
}

// Allocate picks the first location, in declared order, whose occupancy is
// below its quota. A missing or empty distribution is unconstrained, never
// saturated.
func Allocate(req *PositionRequirement, snapshot []ApplicantRecord, projectID kernel.ProjectID, position kernel.PositionName) Result {
	if req == nil || len(req.LocationDistribution) == 0 {
		return Result{}
	}

	for _, quota := range req.LocationDistribution {
		if countOccupying(snapshot, projectID, position, quota.Location) < quota.Quantity {
			return Result{AssignedLocation: quota.Location}
		}
	}
	return Result{IsFullyOccupied: true}
}

// AllocateFor looks the position up in reqs and allocates against it
func AllocateFor(reqs []PositionRequirement, snapshot []ApplicantRecord, projectID kernel.ProjectID, position kernel.PositionName) Result {
	return Allocate(FindRequirement(reqs, position), snapshot, projectID, position)
}

// Occupancy reports every bucket of req in declared order
func Occupancy(req *PositionRequirement, snapshot []ApplicantRecord, projectID kernel.ProjectID, position kernel.PositionName) []LocationOccupancy {
	if req == nil {
		return []LocationOccupancy{}
	}

	out := make([]LocationOccupancy, 0, len(req.LocationDistribution))
	for _, quota := range req.LocationDistribution {
		occupied := countOccupying(snapshot, projectID, position, quota.Location)
		out = append(out, LocationOccupancy{
			Location:  quota.Location,
			Quantity:  quota.Quantity,
			Occupied:  occupied,
			Remaining: max(quota.Quantity-occupied, 0),
		})
	}
	return out
}

func countOccupying(snapshot []ApplicantRecord, projectID kernel.ProjectID, position kernel.PositionName, location kernel.LocationName) int {
	n := 0
	for _, a := range snapshot {
		if a.ProjectID == projectID &&
			a.Position == position &&
			a.AssignedLocation == location &&
			IsOccupying(a.Status) {
			n++
		}
	}
	return n
}
