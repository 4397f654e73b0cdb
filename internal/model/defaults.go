package model

// DefaultContent is served until an operator saves the first document.
func DefaultContent() *SiteContent {
	return &SiteContent{
		Hero: Hero{
			Eyebrow:      "Independent product studio",
			Title:        "Websites and internal tools that ship on time.",
			Subtitle:     "We design, build and run small, fast software for teams that would rather focus on their customers.",
			Badge:        "Booking new projects",
			PrimaryCTA:   "Book a call",
			SecondaryCTA: "See recent work",
		},
		Services: []Service{
			{
				Title:   "Marketing sites",
				Summary: "Fast, accessible sites your team can edit without a developer.",
				Bullets: []string{"Content editing built in", "Bilingual copy", "Hosting and monitoring"},
				Badge:   "Popular",
			},
			{
				Title:   "Internal tools",
				Summary: "Dashboards and admin panels wired to the systems you already use.",
				Bullets: []string{"Auth and roles", "Billing integrations", "Audit-friendly logs"},
			},
			{
				Title:   "Product engineering",
				Summary: "A small senior team embedded with yours for a fixed scope.",
				Bullets: []string{"Weekly demos", "Clear estimates", "Handover docs"},
			},
		},
		Projects: []Project{
			{
				Name:    "Clinic booking portal",
				Summary: "Self-service appointment booking for a group of physiotherapy clinics.",
				Impact:  "Phone bookings down 40% in the first quarter.",
				Stack:   []string{"Go", "PostgreSQL", "htmx"},
				Status:  "Live",
			},
			{
				Name:    "Invoice automation",
				Summary: "Recurring invoices and reminders for a consulting firm.",
				Impact:  "Days-to-paid cut from 38 to 12.",
				Stack:   []string{"Stripe", "Go"},
				Status:  "Live",
			},
		},
		Differentiators: []string{
			"Fixed-price proposals",
			"English and Japanese",
			"You own the code",
		},
		Process: []ProcessStep{
			{Title: "Discover", Detail: "A short call to understand goals and constraints.", Outcome: "Written scope and quote"},
			{Title: "Design", Detail: "Wireframes and copy reviewed together.", Outcome: "Approved design"},
			{Title: "Build", Detail: "Weekly releases to a staging site.", Outcome: "Working software"},
			{Title: "Launch", Detail: "Go-live, monitoring and handover.", Outcome: "Site in production"},
		},
		Contact: Contact{
			Headline: "Let's talk about your project.",
			Subhead:  "Tell us what you are building and we will reply within one business day.",
			Email:    "hello@denuo.dev",
			Phone:    "+1 555 0100",
		},
	}
}
