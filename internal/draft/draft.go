// Package draft holds the operator's unsaved copy of the site content.
package draft

import (
	"fmt"
	"slices"
	"sync"

	"github.com/debemdeboas/denuo-web/internal/model"
)

type State int

const (
	// Clean means the draft equals the content it was last initialized from.
	Clean State = iota
	Dirty
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SyncPolicy decides what ApplyUpstream does to a dirty draft.
type SyncPolicy string

const (
	// PolicyOverwrite discards unsaved edits whenever upstream content arrives.
	PolicyOverwrite SyncPolicy = "overwrite"
	// PolicyHold keeps a dirty draft and parks the upstream copy until AcceptUpstream.
	PolicyHold SyncPolicy = "hold"
)

func ParsePolicy(s string) (SyncPolicy, error) {
	switch SyncPolicy(s) {
	case PolicyOverwrite, "":
		return PolicyOverwrite, nil
	case PolicyHold:
		return PolicyHold, nil
	default:
		return "", fmt.Errorf("unknown sync policy %q", s)
	}
}

// Default records appended by AppendService and AppendProject.
var (
	NewService = model.Service{
		Title:   "New service",
		Summary: "Describe the value and outcome.",
		Bullets: []string{"Add bullet points"},
		Badge:   "New",
	}
	NewProject = model.Project{
		Name:    "New project",
		Summary: "What it is and who it served.",
		Impact:  "Impact or measurable result.",
		Stack:   []string{"Stack"},
		Status:  "Planned",
	}
)

// Store is one operator's draft. It is safe for concurrent use; every read returns a copy.
type Store struct {
	mu      sync.Mutex
	policy  SyncPolicy
	base    *model.SiteContent
	draft   *model.SiteContent
	pending *model.SiteContent
}

func New(content *model.SiteContent, policy SyncPolicy) *Store {
	s := &Store{policy: policy}
	s.Initialize(content)
	return s
}

// Initialize replaces the whole draft, discarding unsaved edits and any parked upstream copy.
func (s *Store) Initialize(content *model.SiteContent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialize(content)
}

func (s *Store) initialize(content *model.SiteContent) {
	if content == nil {
		content = &model.SiteContent{}
	}
	s.base = content.Clone()
	s.draft = content.Clone()
	s.pending = nil
}

func (s *Store) Draft() *model.SiteContent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.draft.Clone()
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state()
}

func (s *Store) state() State {
	if s.draft.Equal(s.base) {
		return Clean
	}
	return Dirty
}

func (s *Store) Policy() SyncPolicy {
	return s.policy
}

// ApplyUpstream feeds a new authoritative document to the draft and reports whether the draft was reset.
// Upstream content equal to the draft always resets it, so a draft that was just saved becomes clean.
func (s *Store) ApplyUpstream(content *model.SiteContent) bool {
	if content == nil {
		content = &model.SiteContent{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.policy == PolicyHold && s.state() == Dirty && !s.draft.Equal(content) {
		s.pending = content.Clone()
		return false
	}

	s.initialize(content)
	return true
}

// HasConflict reports an upstream change parked behind unsaved edits.
func (s *Store) HasConflict() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending != nil
}

func (s *Store) Pending() *model.SiteContent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending.Clone()
}

// AcceptUpstream discards the edits in favour of the parked upstream copy.
func (s *Store) AcceptUpstream() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return false
	}
	s.initialize(s.pending)
	return true
}

func checkIndex(kind string, i, n int) {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("draft: %s index %d out of range [0,%d)", kind, i, n))
	}
}

func apply[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func applyList(dst *[]string, v *[]string) {
	if v != nil {
		*dst = slices.Clone(*v)
	}
}

type HeroPatch struct {
	Eyebrow      *string
	Title        *string
	Subtitle     *string
	Badge        *string
	PrimaryCTA   *string
	SecondaryCTA *string
}

type ServicePatch struct {
	Title   *string
	Summary *string
	Bullets *[]string
	Badge   *string
}

type ProjectPatch struct {
	Name    *string
	Summary *string
	Impact  *string
	Stack   *[]string
	Status  *string
	Link    *string
}

type ProcessPatch struct {
	Title   *string
	Detail  *string
	Outcome *string
}

type ContactPatch struct {
	Headline *string
	Subhead  *string
	Email    *string
	Phone    *string
	Calendly *string
	Note     *string
}

func (s *Store) SetHero(p HeroPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := &s.draft.Hero
	apply(&h.Eyebrow, p.Eyebrow)
	apply(&h.Title, p.Title)
	apply(&h.Subtitle, p.Subtitle)
	apply(&h.Badge, p.Badge)
	apply(&h.PrimaryCTA, p.PrimaryCTA)
	apply(&h.SecondaryCTA, p.SecondaryCTA)
}

func (s *Store) SetContact(p ContactPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &s.draft.Contact
	apply(&c.Headline, p.Headline)
	apply(&c.Subhead, p.Subhead)
	apply(&c.Email, p.Email)
	apply(&c.Phone, p.Phone)
	apply(&c.Calendly, p.Calendly)
	apply(&c.Note, p.Note)
}

// UpdateService replaces service i with a patched copy. Panics when i is out of range.
func (s *Store) UpdateService(i int, p ServicePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	checkIndex("service", i, len(s.draft.Services))

	svc := s.draft.Services[i].Clone()
	apply(&svc.Title, p.Title)
	apply(&svc.Summary, p.Summary)
	applyList(&svc.Bullets, p.Bullets)
	apply(&svc.Badge, p.Badge)
	s.draft.Services[i] = svc
}

func (s *Store) UpdateProject(i int, p ProjectPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	checkIndex("project", i, len(s.draft.Projects))

	proj := s.draft.Projects[i].Clone()
	apply(&proj.Name, p.Name)
	apply(&proj.Summary, p.Summary)
	apply(&proj.Impact, p.Impact)
	applyList(&proj.Stack, p.Stack)
	apply(&proj.Status, p.Status)
	apply(&proj.Link, p.Link)
	s.draft.Projects[i] = proj
}

func (s *Store) UpdateProcess(i int, p ProcessPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	checkIndex("process", i, len(s.draft.Process))

	step := s.draft.Process[i]
	apply(&step.Title, p.Title)
	apply(&step.Detail, p.Detail)
	apply(&step.Outcome, p.Outcome)
	s.draft.Process[i] = step
}

func (s *Store) SetDifferentiators(lines []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.Differentiators = slices.Clone(lines)
}

// AppendService adds NewService at the end and returns its index.
func (s *Store) AppendService() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.Services = append(s.draft.Services, NewService.Clone())
	return len(s.draft.Services) - 1
}

func (s *Store) AppendProject() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.Projects = append(s.draft.Projects, NewProject.Clone())
	return len(s.draft.Projects) - 1
}
