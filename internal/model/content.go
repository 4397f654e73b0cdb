// Package model defines the content document and page data shared by the site and the admin shell.
package model

import "slices"

// DocumentKey addresses the single published content document.
type DocumentKey string

const DefaultDocumentKey DocumentKey = "siteContent/public"

type Hero struct {
	Eyebrow      string `json:"eyebrow" yaml:"eyebrow"`
	Title        string `json:"title" yaml:"title"`
	Subtitle     string `json:"subtitle" yaml:"subtitle"`
	Badge        string `json:"badge" yaml:"badge"`
	PrimaryCTA   string `json:"primaryCta" yaml:"primaryCta"`
	SecondaryCTA string `json:"secondaryCta" yaml:"secondaryCta"`
}

// Service is a card on the landing page. Titles are not unique.
type Service struct {
	Title   string   `json:"title" yaml:"title"`
	Summary string   `json:"summary" yaml:"summary"`
	Bullets []string `json:"bullets" yaml:"bullets"`
	Badge   string   `json:"badge,omitempty" yaml:"badge,omitempty"`
}

type Project struct {
	Name    string   `json:"name" yaml:"name"`
	Summary string   `json:"summary" yaml:"summary"`
	Impact  string   `json:"impact" yaml:"impact"`
	Stack   []string `json:"stack" yaml:"stack"`
	Status  string   `json:"status,omitempty" yaml:"status,omitempty"`
	// Link is shown as-is and never validated.
	Link string `json:"link,omitempty" yaml:"link,omitempty"`
}

type ProcessStep struct {
	Title   string `json:"title" yaml:"title"`
	Detail  string `json:"detail" yaml:"detail"`
	Outcome string `json:"outcome" yaml:"outcome"`
}

type Contact struct {
	Headline string `json:"headline" yaml:"headline"`
	Subhead  string `json:"subhead" yaml:"subhead"`
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone" yaml:"phone"`
	Calendly string `json:"calendly,omitempty" yaml:"calendly,omitempty"`
	Note     string `json:"note,omitempty" yaml:"note,omitempty"`
}

// SiteContent is the persisted document. Exactly one exists per store, under the configured key.
type SiteContent struct {
	Hero            Hero          `json:"hero" yaml:"hero"`
	Services        []Service     `json:"services" yaml:"services"`
	Projects        []Project     `json:"projects" yaml:"projects"`
	Differentiators []string      `json:"differentiators" yaml:"differentiators"`
	Process         []ProcessStep `json:"process" yaml:"process"`
	Contact         Contact       `json:"contact" yaml:"contact"`
}

func (s Service) Clone() Service {
	s.Bullets = slices.Clone(s.Bullets)
	return s
}

func (p Project) Clone() Project {
	p.Stack = slices.Clone(p.Stack)
	return p
}

// Clone returns a deep copy; no slice is shared with the receiver.
func (c *SiteContent) Clone() *SiteContent {
	if c == nil {
		return nil
	}

	out := &SiteContent{
		Hero:            c.Hero,
		Contact:         c.Contact,
		Differentiators: slices.Clone(c.Differentiators),
		Process:         slices.Clone(c.Process),
	}

	if c.Services != nil {
		out.Services = make([]Service, len(c.Services))
		for i, s := range c.Services {
			out.Services[i] = s.Clone()
		}
	}

	if c.Projects != nil {
		out.Projects = make([]Project, len(c.Projects))
		for i, p := range c.Projects {
			out.Projects[i] = p.Clone()
		}
	}

	return out
}

func (s Service) Equal(o Service) bool {
	return s.Title == o.Title && s.Summary == o.Summary && s.Badge == o.Badge && slices.Equal(s.Bullets, o.Bullets)
}

func (p Project) Equal(o Project) bool {
	return p.Name == o.Name && p.Summary == o.Summary && p.Impact == o.Impact &&
		p.Status == o.Status && p.Link == o.Link && slices.Equal(p.Stack, o.Stack)
}

// Equal compares field values. A nil slice equals an empty one.
func (c *SiteContent) Equal(o *SiteContent) bool {
	if c == nil || o == nil {
		return c == o
	}

	return c.Hero == o.Hero &&
		c.Contact == o.Contact &&
		slices.Equal(c.Differentiators, o.Differentiators) &&
		slices.Equal(c.Process, o.Process) &&
		slices.EqualFunc(c.Services, o.Services, Service.Equal) &&
		slices.EqualFunc(c.Projects, o.Projects, Project.Equal)
}
