package catalog

var defaultDefinitions = []MetricDefinition{
	// Capacity: defaults average 55.
	{
		ID:      "staffing",
		Label:   "Staffing depth",
		Help:    "How well the team can absorb absences or spikes in demand without dropping critical work.",
		Group:   GroupCapacity,
		Default: 60,
	},
	{
		ID:      "skills",
		Label:   "Skill coverage",
		Help:    "How many critical skills are held by more than one person.",
		Group:   GroupCapacity,
		Default: 55,
	},
	{
		ID:      "resources",
		Label:   "Resource buffers",
		Help:    "Slack in budget, tooling and time available to respond to disruption.",
		Group:   GroupCapacity,
		Default: 50,
	},
	{
		ID:      "processes",
		Label:   "Process robustness",
		Help:    "How well documented and rehearsed the team's core processes and runbooks are.",
		Group:   GroupCapacity,
		Default: 55,
	},

	// Adaptability: defaults average 48.
	{
		ID:      "autonomy",
		Label:   "Decision autonomy",
		Help:    "How freely the team can change course without waiting for approval.",
		Group:   GroupAdaptability,
		Default: 45,
	},
	{
		ID:      "learning",
		Label:   "Learning culture",
		Help:    "How consistently the team reviews incidents and feeds lessons back into practice.",
		Group:   GroupAdaptability,
		Default: 50,
	},
	{
		ID:      "flexibility",
		Label:   "Role flexibility",
		Help:    "How readily people step outside their usual role when the situation calls for it.",
		Group:   GroupAdaptability,
		Default: 48,
	},
	{
		ID:      "innovation",
		Label:   "Experimentation",
		Help:    "How often the team tries new approaches and retires ones that no longer work.",
		Group:   GroupAdaptability,
		Default: 49,
	},
}

var defaultCatalog = New(defaultDefinitions)

// Default returns the built-in catalog. It is constructed once at process
// start and never mutated.
func Default() Catalog {
	return defaultCatalog
}
