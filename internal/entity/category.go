package entity

// Category is one of the fixed top-level groupings of tools.
type Category string

const (
	CategoryHooks         Category = "hooks"
	CategorySkills        Category = "skills"
	CategoryAgents        Category = "agents"
	CategorySlashCommands Category = "slash-commands"
)

// Categories lists every known category in scan order.
var Categories = []Category{
	CategoryHooks,
	CategorySkills,
	CategoryAgents,
	CategorySlashCommands,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

func (c Category) String() string {
	return string(c)
}

// CategoryCounts holds the number of tools found per category. It is a
// struct rather than a map so the JSON keys keep the declared order.
type CategoryCounts struct {
	Hooks         int `json:"hooks"`
	Skills        int `json:"skills"`
	Agents        int `json:"agents"`
	SlashCommands int `json:"slash-commands"`
}

func (c *CategoryCounts) Set(category Category, n int) {
	switch category {
	case CategoryHooks:
		c.Hooks = n
	case CategorySkills:
		c.Skills = n
	case CategoryAgents:
		c.Agents = n
	case CategorySlashCommands:
		c.SlashCommands = n
	}
}

func (c CategoryCounts) Get(category Category) int {
	switch category {
	case CategoryHooks:
		return c.Hooks
	case CategorySkills:
		return c.Skills
	case CategoryAgents:
		return c.Agents
	case CategorySlashCommands:
		return c.SlashCommands
	}

	return 0
}

func (c CategoryCounts) Sum() int {
	return c.Hooks + c.Skills + c.Agents + c.SlashCommands
}
