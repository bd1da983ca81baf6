// Package config loads program configuration and prepares logging and debug
// reporting.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"txt2epub/assets"
	"txt2epub/book"
	"txt2epub/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	SplitConfig struct {
		Method    common.SplitMethod `yaml:"method"`
		Preset    common.Preset      `yaml:"preset"`
		Regex     string             `yaml:"regex"`
		RegexFile string             `yaml:"regex_file"`
		Encoding  string             `yaml:"encoding"`
		MaxSize   int64              `yaml:"max_size" validate:"gte=0"`
	}

	ClassesConfig struct {
		Body      string `yaml:"body"`
		Chapter   string `yaml:"chapter"`
		Title     string `yaml:"title"`
		Paragraph string `yaml:"paragraph"`
	}

	StyleConfig struct {
		Template         common.CssTemplate `yaml:"template"`
		LineHeight       float64            `yaml:"line_height" validate:"gt=0"`
		ParagraphSpacing float64            `yaml:"paragraph_spacing" validate:"gte=0"`
		TextIndent       float64            `yaml:"text_indent" validate:"gte=0"`
		FontSize         float64            `yaml:"font_size" validate:"gt=0"`
		FontColor        book.Color         `yaml:"font_color"`
		FontPath         string             `yaml:"font" sanitize:"assure_file_access"`
		StylesheetPath   string             `yaml:"stylesheet_path" sanitize:"assure_file_access"`
		CustomCSS        string             `yaml:"custom_css"`
		Classes          ClassesConfig      `yaml:"classes"`
	}

	TOCConfig struct {
		Inline bool   `yaml:"inline"`
		Title  string `yaml:"title"`
		Images bool   `yaml:"images"`
	}

	ImagesConfig struct {
		Cover           string               `yaml:"cover" sanitize:"assure_file_access"`
		ChapterHeader   string               `yaml:"chapter_header" sanitize:"assure_file_access"`
		HeaderFullbleed bool                 `yaml:"header_fullbleed"`
		Gallery         []assets.GalleryItem `yaml:"gallery"`
		IncludeSection  bool                 `yaml:"include_section"`
		MaxWidth        int                  `yaml:"max_width" validate:"gte=0"`
		MaxHeight       int                  `yaml:"max_height" validate:"gte=0"`
		AssetsDir       string               `yaml:"assets_dir"`
	}

	OutputConfig struct {
		Dir           string `yaml:"dir"`
		NameTemplate  string `yaml:"name_template"`
		Transliterate bool   `yaml:"transliterate"`
		FixZip        bool   `yaml:"fix_zip"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Book      book.Info      `yaml:"book"`
		Split     SplitConfig    `yaml:"split"`
		Style     StyleConfig    `yaml:"style"`
		TOC       TOCConfig      `yaml:"toc"`
		Images    ImagesConfig   `yaml:"images"`
		Output    OutputConfig   `yaml:"output"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field names above
	NameTemplateFieldName TemplateFieldName = "name_template"
	CustomCSSFieldName    TemplateFieldName = "custom_css"
	RegexFieldName        TemplateFieldName = "regex"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(NameTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(CustomCSSFieldName)),
	gencfg.WithDoNotExpandField(string(RegexFieldName)),
)

// BookStyle converts style section to typography settings.
func (c *Config) BookStyle() book.Style {
	return book.Style{
		LineHeight:          c.Style.LineHeight,
		ParagraphSpacing:    c.Style.ParagraphSpacing,
		TextIndent:          c.Style.TextIndent,
		FontSize:            c.Style.FontSize,
		FontColor:           c.Style.FontColor,
		FontPath:            c.Style.FontPath,
		Template:            c.Style.Template,
		CustomCSS:           c.Style.CustomCSS,
		ExtraBodyClass:      c.Style.Classes.Body,
		ExtraChapterClass:   c.Style.Classes.Chapter,
		ExtraTitleClass:     c.Style.Classes.Title,
		ExtraParagraphClass: c.Style.Classes.Paragraph,
	}
}

// ImageLimits returns bounds images are scaled down to.
func (c *Config) ImageLimits() assets.Limits {
	return assets.Limits{MaxWidth: c.Images.MaxWidth, MaxHeight: c.Images.MaxHeight}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are allowed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("configuration sanitizing failed: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration expands embedded template to get defaults, puts values
// from the file at path on top of them and validates the result. Empty path
// means defaults only.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare returns expanded default configuration.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
