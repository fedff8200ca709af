package draft

// StepDef names one wizard screen and owns its validity predicate. The flow
// itself never validates; it only consults the active step's predicate when
// asked to move forward.
type StepDef struct {
	Name  string
	Valid func(*Draft) bool
}

// Flow is the linear step machine: guarded forward edges, free backward
// edges, both clamped to [1, N].
type Flow struct {
	steps   []StepDef
	current int // 1-based
}

// CreateFlow is the six-step creation wizard.
func CreateFlow() *Flow {
	return &Flow{
		current: 1,
		steps: []StepDef{
			{Name: "details", Valid: (*Draft).DetailsValid},
			{Name: "availability", Valid: (*Draft).AvailabilityValid},
			{Name: "tags", Valid: (*Draft).TagsValid},
			{Name: "destination", Valid: (*Draft).DestinationValid},
			{Name: "images", Valid: (*Draft).ImagesValid},
			{Name: "review", Valid: (*Draft).reviewValid},
		},
	}
}

// EditFlow is the compressed four-step variant over the same draft shape:
// details and images share a screen, as do availability and companions.
func EditFlow() *Flow {
	return &Flow{
		current: 1,
		steps: []StepDef{
			{Name: "details", Valid: func(d *Draft) bool {
				return d.DetailsValid() && d.ImagesValid()
			}},
			{Name: "schedule", Valid: func(d *Draft) bool {
				return d.AvailabilityValid() && d.CompanionsValid()
			}},
			{Name: "tags", Valid: (*Draft).TagsValid},
			{Name: "destination", Valid: (*Draft).DestinationValid},
		},
	}
}

func (f *Flow) Current() int  { return f.current }
func (f *Flow) Total() int    { return len(f.steps) }
func (f *Flow) Name() string  { return f.steps[f.current-1].Name }
func (f *Flow) AtEnd() bool   { return f.current == len(f.steps) }
func (f *Flow) AtStart() bool { return f.current == 1 }

// StepValid reports the active step's own predicate, so callers can render
// the "next" affordance disabled without attempting a transition.
func (f *Flow) StepValid(d *Draft) bool {
	return f.steps[f.current-1].Valid(d)
}

// Advance moves forward one step if the active step's predicate passes.
// At the terminal step it clamps and returns nil.
func (f *Flow) Advance(d *Draft) error {
	if f.AtEnd() {
		return nil
	}
	if !f.StepValid(d) {
		return ErrStepIncomplete
	}
	f.current++
	return nil
}

// Retreat moves back one step, clamped at the first. Backward edges are
// never guarded.
func (f *Flow) Retreat() {
	if f.current > 1 {
		f.current--
	}
}

// Complete runs every step predicate; submission assembly requires all of
// them regardless of where the user currently is.
func (f *Flow) Complete(d *Draft) error {
	for _, s := range f.steps {
		if !s.Valid(d) {
			return ErrStepIncomplete
		}
	}
	return nil
}

// reviewValid is the terminal step's predicate: everything before it.
func (d *Draft) reviewValid() bool {
	return d.DetailsValid() && d.AvailabilityValid() && d.TagsValid() &&
		d.DestinationValid() && d.ImagesValid()
}
