package auth

import "github.com/Abraxas-365/intake/pkg/kernel"

// ============================================================================
// DOMAIN-SPECIFIC SCOPES - Intake
// ============================================================================

const (
	ScopeAll = kernel.ScopeAll

	// Project scopes
	ScopeProjectsAll     = "projects:*"
	ScopeProjectsRead    = "projects:read"
	ScopeProjectsWrite   = "projects:write"
	ScopeProjectsArchive = "projects:archive" // Close and archive projects

	// Applicant scopes
	ScopeApplicantsAll    = "applicants:*"
	ScopeApplicantsRead   = "applicants:read"
	ScopeApplicantsWrite  = "applicants:write"
	ScopeApplicantsReview = "applicants:review" // Change applicant status
	ScopeApplicantsExport = "applicants:export" // Export rosters
)

// DomainScopeCategories organizes domain-specific scopes
var DomainScopeCategories = map[string][]string{
	"Projects": {
		ScopeProjectsAll,
		ScopeProjectsRead,
		ScopeProjectsWrite,
		ScopeProjectsArchive,
	},
	"Applicants": {
		ScopeApplicantsAll,
		ScopeApplicantsRead,
		ScopeApplicantsWrite,
		ScopeApplicantsReview,
		ScopeApplicantsExport,
	},
}

// DomainScopeDescriptions provides descriptions for domain scopes
var DomainScopeDescriptions = map[string]string{
	ScopeProjectsAll:     "Full access to project management",
	ScopeProjectsRead:    "View projects and their position requirements",
	ScopeProjectsWrite:   "Create projects and edit requirements",
	ScopeProjectsArchive: "Close and archive projects",

	ScopeApplicantsAll:    "Full access to applicant intake",
	ScopeApplicantsRead:   "View applicants, allocation and occupancy",
	ScopeApplicantsWrite:  "Register applicants",
	ScopeApplicantsReview: "Reject or hire applicants",
	ScopeApplicantsExport: "Export project rosters",
}

// DomainScopeGroups defines role groupings
var DomainScopeGroups = map[string][]string{
	"intake_operator": {
		ScopeProjectsRead,
		ScopeApplicantsRead,
		ScopeApplicantsWrite,
	},
	"recruiter": {
		ScopeProjectsRead,
		ScopeApplicantsAll,
	},
	"project_manager": {
		ScopeProjectsAll,
		ScopeApplicantsRead,
		ScopeApplicantsReview,
		ScopeApplicantsExport,
	},
	"viewer": {
		ScopeProjectsRead,
		ScopeApplicantsRead,
	},
}

// ScopesForGroup returns the scopes of a role group, or nil if unknown
func ScopesForGroup(group string) []string {
	scopes, ok := DomainScopeGroups[group]
	if !ok {
		return nil
	}
	return append([]string(nil), scopes...)
}
