package schema

// Choice is one legal value of an enumerated key together with its display label.
type Choice struct {
	Value string
	Label string
}

// DomainList is the ordered list of legal values for an enumerated key. It is
// the single source of truth for both value lookups and index-based selectors.
type DomainList struct {
	name     string
	choices  []Choice
	index    map[string]int
	fallback int
}

// NewDomainList builds a domain list whose fallback is its first entry.
func NewDomainList(name string, choices ...Choice) *DomainList {
	d := &DomainList{
		name:    name,
		choices: choices,
		index:   make(map[string]int, len(choices)),
	}
	for i, c := range choices {
		d.index[c.Value] = i
	}
	return d
}

// valuesOnly builds choices whose label equals the value.
func valuesOnly(values ...string) []Choice {
	out := make([]Choice, len(values))
	for i, v := range values {
		out[i] = Choice{Value: v, Label: v}
	}
	return out
}

func (d *DomainList) withFallback(value string) *DomainList {
	i, ok := d.index[value]
	if !ok {
		panic("domain " + d.name + ": fallback " + value + " is not a member")
	}
	d.fallback = i
	return d
}

// Name identifies the list in logs.
func (d *DomainList) Name() string { return d.name }

// Len returns the number of choices.
func (d *DomainList) Len() int { return len(d.choices) }

// At returns the choice at index i.
func (d *DomainList) At(i int) Choice { return d.choices[i] }

// Choices returns a copy of the ordered choices.
func (d *DomainList) Choices() []Choice {
	out := make([]Choice, len(d.choices))
	copy(out, d.choices)
	return out
}

// Values returns the ordered values.
func (d *DomainList) Values() []string {
	out := make([]string, len(d.choices))
	for i, c := range d.choices {
		out[i] = c.Value
	}
	return out
}

// Labels returns the ordered display labels.
func (d *DomainList) Labels() []string {
	out := make([]string, len(d.choices))
	for i, c := range d.choices {
		out[i] = c.Label
	}
	return out
}

// IndexOf returns the position of value, or -1.
func (d *DomainList) IndexOf(value string) int {
	if i, ok := d.index[value]; ok {
		return i
	}
	return -1
}

// ValueAt resolves an index back to its value.
func (d *DomainList) ValueAt(i int) (string, bool) {
	if i < 0 || i >= len(d.choices) {
		return "", false
	}
	return d.choices[i].Value, true
}

// Contains reports whether value is legal.
func (d *DomainList) Contains(value string) bool {
	_, ok := d.index[value]
	return ok
}

// Fallback is the value written back when a stored value is not a member.
func (d *DomainList) Fallback() string {
	return d.choices[d.fallback].Value
}

// Label returns the display label for value, or value itself when unknown.
func (d *DomainList) Label(value string) string {
	if i, ok := d.index[value]; ok {
		return d.choices[i].Label
	}
	return value
}

var (
	// Resolutions are the image resolutions the wallpaper service can deliver.
	Resolutions = NewDomainList("resolutions", valuesOnly(
		"auto", "UHD", "1920x1200", "1920x1080", "1366x768", "1280x720", "1024x768", "800x600",
	)...)

	// Icons are the indicator icon identifiers shipped with the extension.
	Icons = NewDomainList("icons", valuesOnly(
		"bing-symbolic", "brick-symbolic", "high-frame-symbolic", "mid-frame-symbolic", "low-frame-symbolic",
	)...)

	// BackgroundStyles are the desktop picture-options values.
	BackgroundStyles = NewDomainList("background-styles", valuesOnly(
		"none", "wallpaper", "centered", "scaled", "stretched", "zoom", "spanned",
	)...).withFallback("zoom")

	// ShuffleModes are the random-interval-mode values.
	ShuffleModes = NewDomainList("shuffle-modes",
		Choice{Value: "daily", Label: "Every day at midnight"},
		Choice{Value: "hourly", Label: "On the hour"},
		Choice{Value: "weekly", Label: "Sunday at midnight"},
		Choice{Value: "custom", Label: "User defined interval"},
	)

	// Markets are the regional image markets, in the order the selector shows them.
	Markets = NewDomainList("markets",
		Choice{"auto", "Market locale (auto)"},
		Choice{"ar-XA", "Arabia (Arabic)"},
		Choice{"da-DK", "Denmark (Danish)"},
		Choice{"de-AT", "Austria (German)"},
		Choice{"de-CH", "Switzerland (German)"},
		Choice{"de-DE", "Germany (German)"},
		Choice{"en-AU", "Australia (English)"},
		Choice{"en-CA", "Canada (English)"},
		Choice{"en-GB", "United Kingdom (English)"},
		Choice{"en-ID", "Indonesia (English)"},
		Choice{"en-IE", "Ireland (English)"},
		Choice{"en-IN", "India (English)"},
		Choice{"en-MY", "Malaysia (English)"},
		Choice{"en-NZ", "New Zealand (English)"},
		Choice{"en-PH", "Philippines (English)"},
		Choice{"en-SG", "Singapore (English)"},
		Choice{"en-US", "United States (English)"},
		Choice{"en-WW", "International (English)"},
		Choice{"en-XA", "Arabia (English)"},
		Choice{"en-ZA", "South Africa (English)"},
		Choice{"es-AR", "Argentina (Spanish)"},
		Choice{"es-CL", "Chile (Spanish)"},
		Choice{"es-ES", "Spain (Spanish)"},
		Choice{"es-MX", "Mexico (Spanish)"},
		Choice{"es-US", "United States (Spanish)"},
		Choice{"es-XL", "Latin America (Spanish)"},
		Choice{"et-EE", "Estonia (Estonian)"},
		Choice{"fi-FI", "Finland (Finnish)"},
		Choice{"fr-BE", "Belgium (French)"},
		Choice{"fr-CA", "Canada (French)"},
		Choice{"fr-CH", "Switzerland (French)"},
		Choice{"fr-FR", "France (French)"},
		Choice{"he-IL", "Israel (Hebrew)"},
		Choice{"hr-HR", "Croatia (Croatian)"},
		Choice{"hu-HU", "Hungary (Hungarian)"},
		Choice{"it-IT", "Italy (Italian)"},
		Choice{"ja-JP", "Japan (Japanese)"},
		Choice{"ko-KR", "Korea (Korean)"},
		Choice{"lt-LT", "Lithuania (Lithuanian)"},
		Choice{"lv-LV", "Latvia (Latvian)"},
		Choice{"nb-NO", "Norway (Bokmål)"},
		Choice{"nl-BE", "Belgium (Dutch)"},
		Choice{"nl-NL", "Netherlands (Dutch)"},
		Choice{"pl-PL", "Poland (Polish)"},
		Choice{"pt-BR", "Brazil (Portuguese)"},
		Choice{"pt-PT", "Portugal (Portuguese)"},
		Choice{"ro-RO", "Romania (Romanian)"},
		Choice{"ru-RU", "Russia (Russian)"},
		Choice{"sk-SK", "Slovakia (Slovak)"},
		Choice{"sl-SL", "Slovenia (Slovenian)"},
		Choice{"sv-SE", "Sweden (Swedish)"},
		Choice{"th-TH", "Thailand (Thai)"},
		Choice{"tr-TR", "Turkey (Turkish)"},
		Choice{"uk-UA", "Ukraine (Ukrainian)"},
		Choice{"zh-CN", "China (Chinese)"},
		Choice{"zh-HK", "Hong Kong (Chinese)"},
		Choice{"zh-TW", "Taiwan (Chinese)"},
	)
)
