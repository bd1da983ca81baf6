package convert

import (
	"fmt"
	"os"
	"strings"

	"txt2epub/chapter"
	"txt2epub/common"
)

// NewSplitter selects chapter detection strategy. For regex method blank
// expression means built-in preset pattern. For file method expression is read
// from configPath.
func NewSplitter(method common.SplitMethod, regex, configPath string, preset common.Preset) (chapter.Splitter, error) {
	switch method {
	case common.SplitMethodRegex:
		if strings.TrimSpace(regex) == "" {
			return chapter.NewRegexSplitter(chapter.PresetPattern(preset)), nil
		}
		re, err := chapter.Compile(regex)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPattern, err)
		}
		return chapter.NewRegexSplitter(re), nil
	case common.SplitMethodFile:
		if strings.TrimSpace(configPath) == "" {
			return nil, fmt.Errorf("%w: Please choose a valid regex config file.", ErrInvalidInput)
		}
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		re, err := chapter.Compile(string(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPattern, err)
		}
		return chapter.NewRegexSplitter(re), nil
	case common.SplitMethodSimpleRules:
		return chapter.SimpleRulesSplitter{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported split method %q", ErrInvalidInput, method.String())
	}
}
