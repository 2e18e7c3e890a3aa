package kernel

type ProjectID string

func NewProjectID(id string) ProjectID { return ProjectID(id) }
func (p ProjectID) String() string     { return string(p) }
func (p ProjectID) IsEmpty() bool      { return string(p) == "" }

type ApplicantID string

func NewApplicantID(id string) ApplicantID { return ApplicantID(id) }
func (a ApplicantID) String() string       { return string(a) }
func (a ApplicantID) IsEmpty() bool        { return string(a) == "" }
