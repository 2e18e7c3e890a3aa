package project

import (
	"github.com/Abraxas-365/intake/pkg/kernel"
	"github.com/Abraxas-365/intake/recruitment/allocation"
)

type CreateProjectRequest struct {
	CompanyID    kernel.CompanyID                 `json:"company_id" validate:"required"`
	Name         string                           `json:"name" validate:"required,max=200"`
	Requirements []allocation.PositionRequirement `json:"requirements"`
}

type UpdateRequirementsRequest struct {
	Requirements []allocation.PositionRequirement `json:"requirements"`
}

type ListProjectsRequest struct {
	Status     ProjectStatus
	Pagination kernel.PaginationOptions
}

type PositionSummary struct {
	Position      kernel.PositionName `json:"position"`
	Locations     int                 `json:"locations"`
	TotalCapacity *int                `json:"total_capacity,omitempty"`
}

type ProjectResponse struct {
	Project
	Positions []PositionSummary `json:"positions"`
}

func ToResponse(p *Project) ProjectResponse {
	summaries := make([]PositionSummary, 0, len(p.Requirements))
	for _, req := range p.Requirements {
		summary := PositionSummary{
			Position:  req.Position,
			Locations: len(req.LocationDistribution),
		}
		if total, ok := p.TotalCapacity(req.Position); ok {
			summary.TotalCapacity = &total
		}
		summaries = append(summaries, summary)
	}
	return ProjectResponse{Project: *p, Positions: summaries}
}
