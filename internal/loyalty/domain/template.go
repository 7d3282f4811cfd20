package domain

// CardTemplate is the tag of a card skin.
type CardTemplate string

// Known card templates.
const (
	TemplatePink       CardTemplate = "pink"
	TemplateGold       CardTemplate = "gold"
	TemplateFloral     CardTemplate = "floral"
	TemplateMinimalist CardTemplate = "minimalist"
)

// DefaultTemplate is used for missing and unknown tags.
const DefaultTemplate = TemplatePink

// CardStyle describes how a template renders.
type CardStyle struct {
	Template CardTemplate
	Name     string
	Gradient []string
}

var cardStyles = map[CardTemplate]CardStyle{
	TemplatePink: {
		Template: TemplatePink,
		Name:     "Rose Blush",
		Gradient: []string{"#fb7185", "#ec4899", "#9333ea"},
	},
	TemplateGold: {
		Template: TemplateGold,
		Name:     "Golden Hour",
		Gradient: []string{"#fbbf24", "#eab308", "#ea580c"},
	},
	TemplateFloral: {
		Template: TemplateFloral,
		Name:     "Ocean Breeze",
		Gradient: []string{"#34d399", "#14b8a6", "#0891b2"},
	},
	TemplateMinimalist: {
		Template: TemplateMinimalist,
		Name:     "Midnight",
		Gradient: []string{"#4b5563", "#334155", "#1f2937"},
	},
}

// ParseCardTemplate resolves a stored tag, falling back to DefaultTemplate.
func ParseCardTemplate(tag string) CardTemplate {
	template := CardTemplate(tag)
	if _, ok := cardStyles[template]; ok {
		return template
	}
	return DefaultTemplate
}

// Style returns the style of the template, or the default style for unknown tags.
func (t CardTemplate) Style() CardStyle {
	style := cardStyles[ParseCardTemplate(string(t))]
	style.Gradient = append([]string(nil), style.Gradient...)
	return style
}

// Templates lists the known templates in display order.
func Templates() []CardTemplate {
	return []CardTemplate{TemplatePink, TemplateGold, TemplateFloral, TemplateMinimalist}
}
