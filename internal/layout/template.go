// Package layout parses the XML templates that describe the toast area:
// which named parts exist, how they nest, and how they are sized.
package layout

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ElementType identifies the type of layout element.
type ElementType string

const (
	ElementTypeToast     ElementType = "toast"
	ElementTypeNormal    ElementType = "normal"
	ElementTypeInfo      ElementType = "info"
	ElementTypeTitle     ElementType = "title"
	ElementTypeText      ElementType = "text"
	ElementTypeStatusBar ElementType = "statusbar"
)

// ValidElements lists all recognized element types.
var ValidElements = map[string]ElementType{
	"toast":     ElementTypeToast,
	"normal":    ElementTypeNormal,
	"info":      ElementTypeInfo,
	"title":     ElementTypeTitle,
	"text":      ElementTypeText,
	"statusbar": ElementTypeStatusBar,
}

// Position is where the toast area is anchored.
type Position string

const (
	PositionBottom Position = "bottom"
	PositionTop    Position = "top"
)

// LayoutConfig represents the parsed layout structure ready for rendering.
type LayoutConfig struct {
	// Toast width in terminal columns (0 = fit to content).
	MinWidth int
	MaxWidth int
	Position Position
	Elements []LayoutElement
}

// LayoutElement represents a single element in the layout.
type LayoutElement struct {
	Type       ElementType
	Name       string
	Attributes map[string]string
	Children   []LayoutElement
}

// Bool returns a boolean attribute, or def when absent or malformed.
func (e *LayoutElement) Bool(key string, def bool) bool {
	v, ok := e.Attributes[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Int returns an integer attribute, or def when absent or malformed.
func (e *LayoutElement) Int(key string, def int) int {
	v, ok := e.Attributes[key]
	if !ok {
		return def
	}
	n, err := parseCellValue(v)
	if err != nil {
		return def
	}
	return n
}

// Duration returns a duration attribute such as "250ms", or def.
func (e *LayoutElement) Duration(key string, def time.Duration) time.Duration {
	v, ok := e.Attributes[key]
	if !ok {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return d
}

// Find returns the element declaring the given part name.
func (c *LayoutConfig) Find(name string) (*LayoutElement, bool) {
	return find(c.Elements, name)
}

func find(elems []LayoutElement, name string) (*LayoutElement, bool) {
	for i := range elems {
		if elems[i].Name == name {
			return &elems[i], true
		}
		if e, ok := find(elems[i].Children, name); ok {
			return e, true
		}
	}
	return nil, false
}

// Names returns every declared part name in document order.
func (c *LayoutConfig) Names() []string {
	var names []string
	var walk func([]LayoutElement)
	walk = func(elems []LayoutElement) {
		for _, e := range elems {
			if e.Name != "" {
				names = append(names, e.Name)
			}
			walk(e.Children)
		}
	}
	walk(c.Elements)
	return names
}

// Validate checks that part names are unique, including storyboard names.
func (c *LayoutConfig) Validate() error {
	seen := make(map[string]bool)
	check := func(name string) error {
		if seen[name] {
			return fmt.Errorf("duplicate part name: %s", name)
		}
		seen[name] = true
		return nil
	}

	for _, name := range c.Names() {
		if err := check(name); err != nil {
			return err
		}
	}
	for _, elem := range c.Elements {
		if sb := elem.Attributes["storyboard"]; elem.Type == ElementTypeToast && sb != "" {
			if err := check(sb); err != nil {
				return err
			}
		}
	}
	if c.MinWidth > 0 && c.MaxWidth > 0 && c.MinWidth > c.MaxWidth {
		return fmt.Errorf("min-width (%d) exceeds max-width (%d)", c.MinWidth, c.MaxWidth)
	}
	return nil
}

// ParseTemplate parses an XML layout template from a reader.
func ParseTemplate(r io.Reader) (*LayoutConfig, error) {
	decoder := xml.NewDecoder(r)

	config := LayoutConfig{Position: PositionBottom}
	found := false
	for !found {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read template: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "frame" {
			return nil, fmt.Errorf("unexpected root element: %s", se.Name.Local)
		}
		found = true

		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "min-width":
				if v, err := parseCellValue(attr.Value); err == nil {
					config.MinWidth = v
				}
			case "max-width":
				if v, err := parseCellValue(attr.Value); err == nil {
					config.MaxWidth = v
				}
			case "position":
				switch Position(strings.ToLower(attr.Value)) {
				case PositionTop:
					config.Position = PositionTop
				case PositionBottom:
					config.Position = PositionBottom
				default:
					return nil, fmt.Errorf("invalid position: %s", attr.Value)
				}
			}
		}

		elements, err := parseElements(decoder)
		if err != nil {
			return nil, err
		}
		config.Elements = elements
	}

	if !found {
		return nil, fmt.Errorf("template has no <frame> element")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// parseCellValue parses a width in terminal cells ("40" or "40c").
func parseCellValue(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "c")
	return strconv.Atoi(s)
}

// parseElements recursively parses child elements.
func parseElements(decoder *xml.Decoder) ([]LayoutElement, error) {
	var elements []LayoutElement

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read element: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			elemName := strings.ToLower(t.Name.Local)
			elemType, ok := ValidElements[elemName]
			if !ok {
				return nil, fmt.Errorf("unknown element type: %s", elemName)
			}

			elem := LayoutElement{
				Type:       elemType,
				Attributes: make(map[string]string),
			}
			for _, attr := range t.Attr {
				if attr.Name.Local == "name" {
					elem.Name = attr.Value
					continue
				}
				elem.Attributes[attr.Name.Local] = attr.Value
			}

			children, err := parseElements(decoder)
			if err != nil {
				return nil, err
			}
			elem.Children = children

			elements = append(elements, elem)

		case xml.EndElement:
			return elements, nil
		}
	}

	return elements, nil
}

// ParseTemplateString parses a template from a string.
func ParseTemplateString(s string) (*LayoutConfig, error) {
	return ParseTemplate(strings.NewReader(s))
}

// LoadTemplate loads a template from file.
func LoadTemplate(path string) (*LayoutConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseTemplate(f)
}

// DefaultTemplateName is loaded when no template is configured.
const DefaultTemplateName = "default"

// Loader handles loading layout templates from various sources.
type Loader struct {
	templatesDir string
}

// NewLoader creates a new template loader.
func NewLoader(templatesDir string) *Loader {
	return &Loader{templatesDir: templatesDir}
}

// Load loads a layout template by name.
// Checks the user directory first, then falls back to the embedded templates.
func (l *Loader) Load(name string) (*LayoutConfig, error) {
	if name == "" {
		name = DefaultTemplateName
	}

	if l.templatesDir != "" {
		templatePath := filepath.Join(l.templatesDir, name+".xml")
		if _, err := os.Stat(templatePath); err == nil {
			return LoadTemplate(templatePath)
		}
	}

	if config, ok := GetEmbeddedTemplate(name); ok {
		return config, nil
	}

	return nil, fmt.Errorf("layout template not found: %s", name)
}

// List returns the names of the embedded and user templates, user
// templates first.
func (l *Loader) List() []string {
	seen := make(map[string]bool)
	var names []string
	if l.templatesDir != "" {
		matches, _ := filepath.Glob(filepath.Join(l.templatesDir, "*.xml"))
		for _, m := range matches {
			name := strings.TrimSuffix(filepath.Base(m), ".xml")
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, name := range ListEmbeddedTemplates() {
		if !seen[name] {
			names = append(names, name)
		}
	}
	return names
}

// DefaultLayout returns the embedded default layout.
func DefaultLayout() *LayoutConfig {
	config, ok := GetEmbeddedTemplate(DefaultTemplateName)
	if !ok {
		panic("layout: embedded default template is invalid")
	}
	return config
}
