package validate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
)

// Rule checks one key. When the value is invalid it returns the value that
// should replace it.
type Rule func(r settings.Reader) (valid bool, corrected interface{})

// DomainRule requires key to hold a member of domain and falls back to the
// domain's fallback entry.
func DomainRule(key schema.Key, domain *schema.DomainList) Rule {
	return func(r settings.Reader) (bool, interface{}) {
		if domain.Contains(settings.GetString(r, key)) {
			return true, nil
		}
		return false, domain.Fallback()
	}
}

// BoundsRule clamps a numeric key into its declared range.
func BoundsRule(def *schema.Definition) Rule {
	return func(r settings.Reader) (bool, interface{}) {
		v := r.Get(def.Key)
		clamped := def.Clamp(v)
		if clamped == v {
			return true, nil
		}
		return false, clamped
	}
}

// ImageRule requires the selected image to be a regular file directly inside
// the download folder. "" means no selection and is always valid.
func ImageRule(key schema.Key) Rule {
	return func(r settings.Reader) (bool, interface{}) {
		name := settings.GetString(r, key)
		if name == "" {
			return true, nil
		}
		if strings.ContainsRune(name, filepath.Separator) || name == "." || name == ".." {
			return false, ""
		}
		info, err := os.Stat(filepath.Join(settings.DownloadDir(r), name))
		if err != nil || !info.Mode().IsRegular() {
			return false, ""
		}
		return true, nil
	}
}

// defaultRules derives the rule set of s: domain membership for enum keys,
// bounds for numeric keys, and the file check for the selected image.
func defaultRules(s *schema.Schema) (map[schema.Key]Rule, map[schema.Key][]schema.Key) {
	rules := make(map[schema.Key]Rule)
	triggers := make(map[schema.Key][]schema.Key)

	for _, key := range s.Keys() {
		def, _ := s.Lookup(key)
		switch {
		case def.Domain != nil:
			rules[key] = DomainRule(key, def.Domain)
		case def.Bounded:
			rules[key] = BoundsRule(def)
		case key == schema.SelectedImage:
			rules[key] = ImageRule(key)
			if s.Has(schema.DownloadFolder) {
				triggers[schema.DownloadFolder] = append(triggers[schema.DownloadFolder], key)
			}
		}
		if _, ok := rules[key]; ok {
			triggers[key] = append(triggers[key], key)
		}
	}
	return rules, triggers
}
