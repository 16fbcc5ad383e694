package domain

// PresetGroup is one themed set of suggested questions offered by the shell.
type PresetGroup struct {
	Theme     string
	Questions []string
}

var presetQuestions = []PresetGroup{
	{
		Theme: "Virtue & Character",
		Questions: []string{
			"What is the path to cultivating virtue?",
			"How can I become a better person?",
			"What is the meaning of righteousness?",
			"How do I develop moral character?",
		},
	},
	{
		Theme: "Leadership & Governance",
		Questions: []string{
			"What makes a good leader?",
			"How should a ruler govern their people?",
			"What is the relationship between power and morality?",
			"How can leaders earn trust?",
		},
	},
	{
		Theme: "Family & Relationships",
		Questions: []string{
			"What are the duties of a child to their parents?",
			"How should I handle conflicts with family?",
			"What is the importance of filial piety?",
			"How do I build harmonious relationships?",
		},
	},
	{
		Theme: "Learning & Wisdom",
		Questions: []string{
			"What is the purpose of education?",
			"How should I approach learning?",
			"What is the difference between knowledge and wisdom?",
			"How can I cultivate self-awareness?",
		},
	},
	{
		Theme: "Modern Dilemmas",
		Questions: []string{
			"How do ancient principles apply to modern life?",
			"What would you say about technology and human connection?",
			"How do I balance work and personal fulfillment?",
			"What is the role of tradition in a changing world?",
		},
	},
}

// PresetQuestions returns the themed suggested questions.
func PresetQuestions() []PresetGroup {
	out := make([]PresetGroup, len(presetQuestions))
	copy(out, presetQuestions)
	return out
}
