// Package common keeps enumerations shared by configuration, the command line
// and the conversion packages, so none of them has to import the others.
package common

// Visual template applied to generated book.
// ENUM(classic, modern, clean, elegant, folio, fantasy, minimal)
type CssTemplate int

// HasOrnaments reports whether template ships its own divider artwork.
func (t CssTemplate) HasOrnaments() bool {
	return t == CssTemplateFolio || t == CssTemplateFantasy
}

// Chapter detection method.
// ENUM(regex, file, simpleRules)
type SplitMethod int

// Label returns human readable method name.
func (m SplitMethod) Label() string {
	switch m {
	case SplitMethodRegex:
		return "Regex"
	case SplitMethodFile:
		return "From File"
	case SplitMethodSimpleRules:
		return "Simple Rules"
	default:
		return m.String()
	}
}

// Built-in chapter boundary pattern.
// ENUM(chinese, english)
type Preset int
