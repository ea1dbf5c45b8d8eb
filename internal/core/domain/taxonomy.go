package domain

// CanonicalQuestion is one question a category must answer. Mandatory
// questions in foundational categories escalate gaps to critical.
type CanonicalQuestion struct {
	Text      string
	Mandatory bool
}

// Category is one row of the fixed requirements taxonomy. The table is
// process-wide read-only configuration; nothing mutates it after init.
type Category struct {
	Key          string
	Ordinal      int
	Title        string
	Description  string
	Weight       float64
	Foundational bool
	Questions    []CanonicalQuestion
}

// QuestionOrdinal returns the position of text within the category's
// canonical questions, or len(Questions) when the text is not canonical.
func (c Category) QuestionOrdinal(text string) int {
	for i, q := range c.Questions {
		if q.Text == text {
			return i
		}
	}
	return len(c.Questions)
}

func (c Category) IsMandatory(text string) bool {
	for _, q := range c.Questions {
		if q.Text == text {
			return q.Mandatory
		}
	}
	return false
}

var taxonomy = []Category{
	{
		Key:          "business_context",
		Ordinal:      1,
		Title:        "Business Context & Objectives",
		Description:  "Why the project exists: the business problem, measurable objectives and success criteria.",
		Weight:       1.0,
		Foundational: true,
		Questions: []CanonicalQuestion{
			{Text: "What business problem does this project solve?", Mandatory: true},
			{Text: "What are the measurable objectives and success criteria?", Mandatory: true},
			{Text: "Who is the executive sponsor and what is their mandate?"},
			{Text: "What happens if the project is not delivered?"},
			{Text: "How does the project align with wider business strategy?"},
		},
	},
	{
		Key:         "stakeholders",
		Ordinal:     2,
		Title:       "Stakeholders & Users",
		Description: "Who is affected by or decides about the project, and who the end users are.",
		Weight:      0.8,
		Questions: []CanonicalQuestion{
			{Text: "Who are the key stakeholders and decision makers?", Mandatory: true},
			{Text: "Who are the end users and what are their roles?"},
			{Text: "What are the primary user personas and their goals?"},
			{Text: "How will stakeholders be engaged during delivery?"},
		},
	},
	{
		Key:          "functional",
		Ordinal:      3,
		Title:        "Functional Requirements",
		Description:  "What the system must do: features, workflows and business rules.",
		Weight:       1.0,
		Foundational: true,
		Questions: []CanonicalQuestion{
			{Text: "What are the core features the system must provide?", Mandatory: true},
			{Text: "What are the critical user workflows end to end?", Mandatory: true},
			{Text: "What business rules govern system behavior?"},
			{Text: "What is explicitly out of scope?"},
			{Text: "How are features prioritized for delivery?"},
		},
	},
	{
		Key:         "nonfunctional",
		Ordinal:     4,
		Title:       "Non-Functional Requirements",
		Description: "Quality attributes: performance, availability, scalability and usability targets.",
		Weight:      0.8,
		Questions: []CanonicalQuestion{
			{Text: "What are the performance and response-time targets?"},
			{Text: "What availability and uptime levels are required?"},
			{Text: "What scalability expectations exist for load and data growth?"},
			{Text: "What usability or accessibility standards apply?"},
		},
	},
	{
		Key:         "technical",
		Ordinal:     5,
		Title:       "Technical Architecture & Constraints",
		Description: "Mandated platforms, existing systems and technical constraints shaping the solution.",
		Weight:      0.8,
		Questions: []CanonicalQuestion{
			{Text: "What technology platforms or stacks are mandated or preferred?"},
			{Text: "What existing systems must the solution fit into?"},
			{Text: "What technical constraints or standards must be respected?"},
			{Text: "What are the hosting and deployment environment requirements?"},
		},
	},
	{
		Key:         "integrations",
		Ordinal:     6,
		Title:       "Integrations & External Interfaces",
		Description: "Third-party systems, APIs and data exchanges the solution depends on.",
		Weight:      0.6,
		Questions: []CanonicalQuestion{
			{Text: "Which external systems must be integrated with?"},
			{Text: "What APIs or data exchange formats are required?"},
			{Text: "What are the authentication requirements for each integration?"},
		},
	},
	{
		Key:         "data",
		Ordinal:     7,
		Title:       "Data & Migration",
		Description: "Data entities, volumes, sources, quality and migration needs.",
		Weight:      0.8,
		Questions: []CanonicalQuestion{
			{Text: "What are the key data entities and their volumes?"},
			{Text: "What existing data must be migrated and from where?"},
			{Text: "What data quality or validation rules apply?"},
			{Text: "What are the data retention and archival requirements?"},
		},
	},
	{
		Key:         "security",
		Ordinal:     8,
		Title:       "Security & Compliance",
		Description: "Security controls, regulatory and compliance obligations.",
		Weight:      0.8,
		Questions: []CanonicalQuestion{
			{Text: "What regulatory or compliance frameworks apply?", Mandatory: true},
			{Text: "What authentication and authorization model is required?"},
			{Text: "How must sensitive data be protected at rest and in transit?"},
			{Text: "What audit logging is required?"},
		},
	},
	{
		Key:          "budget",
		Ordinal:      9,
		Title:        "Budget & Commercial Parameters",
		Description:  "Available funding, cost constraints and the commercial model.",
		Weight:       1.0,
		Foundational: true,
		Questions: []CanonicalQuestion{
			{Text: "What is the total budget available for the project?", Mandatory: true},
			{Text: "How is the budget split across phases or workstreams?"},
			{Text: "What is the preferred commercial model?"},
			{Text: "What ongoing run costs are acceptable after delivery?"},
		},
	},
	{
		Key:          "timeline",
		Ordinal:      10,
		Title:        "Timeline & Milestones",
		Description:  "Deadlines, key milestones and external date constraints.",
		Weight:       1.0,
		Foundational: true,
		Questions: []CanonicalQuestion{
			{Text: "What is the target go-live date?", Mandatory: true},
			{Text: "What are the key milestones and their dates?", Mandatory: true},
			{Text: "Which dates are fixed by external events and which are flexible?"},
			{Text: "What phasing or incremental delivery is expected?"},
		},
	},
	{
		Key:         "team",
		Ordinal:     11,
		Title:       "Team & Resources",
		Description: "Internal staffing, skills availability and expected supplier involvement.",
		Weight:      0.6,
		Questions: []CanonicalQuestion{
			{Text: "What internal team members are assigned and at what capacity?"},
			{Text: "What skills gaps require external support?"},
			{Text: "Who owns the product decisions day to day?"},
		},
	},
	{
		Key:         "quality",
		Ordinal:     12,
		Title:       "Quality & Testing",
		Description: "Acceptance criteria, test strategy and quality gates.",
		Weight:      0.6,
		Questions: []CanonicalQuestion{
			{Text: "What acceptance criteria define done?"},
			{Text: "What testing levels and environments are required?"},
			{Text: "Who signs off user acceptance testing?"},
		},
	},
	{
		Key:         "operations",
		Ordinal:     13,
		Title:       "Operations & Support",
		Description: "Post-launch operation: support model, SLAs and maintenance.",
		Weight:      0.6,
		Questions: []CanonicalQuestion{
			{Text: "Who operates and supports the system after go-live?"},
			{Text: "What support hours and SLAs are required?"},
			{Text: "What monitoring and alerting is expected?"},
		},
	},
	{
		Key:         "risks",
		Ordinal:     14,
		Title:       "Risks & Dependencies",
		Description: "Known risks, assumptions and external dependencies.",
		Weight:      0.6,
		Questions: []CanonicalQuestion{
			{Text: "What are the top project risks and their mitigations?"},
			{Text: "What external dependencies could block delivery?"},
			{Text: "What assumptions has planning been based on?"},
		},
	},
	{
		Key:         "legal",
		Ordinal:     15,
		Title:       "Legal & Contractual",
		Description: "Contractual terms, intellectual property and liability considerations.",
		Weight:      0.6,
		Questions: []CanonicalQuestion{
			{Text: "What contractual terms or procurement rules constrain the engagement?"},
			{Text: "Who owns the intellectual property of the deliverables?"},
			{Text: "What liability or warranty terms are expected?"},
		},
	},
}

var taxonomyByKey = func() map[string]Category {
	m := make(map[string]Category, len(taxonomy))
	for _, c := range taxonomy {
		m[c.Key] = c
	}
	return m
}()

// Taxonomy returns the fixed category table in ordinal order.
func Taxonomy() []Category {
	return taxonomy
}

func CategoryByKey(key string) (Category, bool) {
	c, ok := taxonomyByKey[key]
	return c, ok
}

// TotalQuestions is the number of canonical questions across all categories.
func TotalQuestions() int {
	n := 0
	for _, c := range taxonomy {
		n += len(c.Questions)
	}
	return n
}
