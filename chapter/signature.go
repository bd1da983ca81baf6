package chapter

import (
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"txt2epub/common"
)

// Signature fingerprints everything chapter detection depends on. Edited
// chapter lists store it to notice when they no longer match the manuscript.
// When pattern file cannot be read its path is hashed instead.
func Signature(text string, method common.SplitMethod, regex, configPath string) uint64 {
	d := xxhash.New()
	field := func(b []byte) {
		_, _ = d.WriteString(strconv.Itoa(len(b)))
		_, _ = d.Write([]byte{0})
		_, _ = d.Write(b)
	}
	field([]byte(text))
	field([]byte(method.String()))
	field([]byte(regex))
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			field(data)
		} else {
			field([]byte(configPath))
		}
	}
	return d.Sum64()
}
