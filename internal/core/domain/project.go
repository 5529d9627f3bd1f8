package domain

// ProjectContext is optional read-only planning context folded into
// drafting prompts when available.
type ProjectContext struct {
	// Name is the project name.
	Name string

	// Objectives summarises the project goals.
	Objectives string

	// Stakeholders lists the parties involved.
	Stakeholders []string

	// Risks lists known project risks.
	Risks []string

	// Disciplines lists the enabled engineering disciplines.
	Disciplines []string
}

// Empty reports whether the context carries no usable information.
func (p *ProjectContext) Empty() bool {
	if p == nil {
		return true
	}
	return p.Name == "" && p.Objectives == "" &&
		len(p.Stakeholders) == 0 && len(p.Risks) == 0 && len(p.Disciplines) == 0
}
