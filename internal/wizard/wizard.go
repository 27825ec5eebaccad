package wizard

import (
	"sync"

	"cv-architect/internal/document"
)

// Step identifies one editing view in the linear wizard sequence.
type Step int

const (
	StepExtraction Step = iota
	StepPersonal
	StepExperience
	StepEducation
	StepSkills
	StepProjects
	StepCertifications
	StepEvaluation

	stepCount
)

var stepNames = [...]string{
	"extraction",
	"personal",
	"experience",
	"education",
	"skills",
	"projects",
	"certifications",
	"evaluation",
}

func (s Step) String() string {
	if s < 0 || s >= stepCount {
		return "unknown"
	}
	return stepNames[s]
}

// Controller is a cursor over the fixed step sequence. It never validates:
// navigation is free in both directions and completion is advisory only.
type Controller struct {
	mu     sync.Mutex
	active Step
	docs   *document.Store
}

func NewController(docs *document.Store) *Controller {
	return &Controller{docs: docs}
}

// Active returns the current step.
func (c *Controller) Active() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Next advances the cursor, clamped at the last step.
func (c *Controller) Next() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active < stepCount-1 {
		c.active++
	}
	return c.active
}

// Previous moves the cursor back, clamped at the first step.
func (c *Controller) Previous() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active > 0 {
		c.active--
	}
	return c.active
}

// Completed reports whether a step looks done given the current document.
// Purely derived from the snapshot, never stored, and never enforced as a
// navigation gate.
func (c *Controller) Completed(s Step) bool {
	doc := c.docs.Get()
	switch s {
	case StepExtraction, StepPersonal:
		return c.docs.HasUserData()
	case StepExperience:
		return len(doc.Experience) > 0
	case StepEducation:
		return len(doc.Education) > 0
	case StepSkills:
		return len(doc.Skills.Technical) > 0 || len(doc.Skills.Soft) > 0 || len(doc.Skills.Languages) > 0
	case StepProjects:
		return len(doc.Projects) > 0
	case StepCertifications:
		return len(doc.LicensesCertifications) > 0
	case StepEvaluation:
		return doc.JobDescription != ""
	default:
		return false
	}
}

// Steps returns the full sequence with completion flags, for the frontend's
// progress indicator.
func (c *Controller) Steps() []StepState {
	active := c.Active()
	out := make([]StepState, 0, int(stepCount))
	for s := Step(0); s < stepCount; s++ {
		out = append(out, StepState{
			Name:      s.String(),
			Index:     int(s),
			Active:    s == active,
			Completed: c.Completed(s),
		})
	}
	return out
}

type StepState struct {
	Name      string `json:"name"`
	Index     int    `json:"index"`
	Active    bool   `json:"active"`
	Completed bool   `json:"completed"`
}
