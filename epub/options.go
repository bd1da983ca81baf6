package epub

import (
	"txt2epub/assets"
	"txt2epub/book"
)

// Options describes everything book assembly needs besides chapters.
type Options struct {
	Info book.Info
	// OutputDir is created when missing. Empty or "." means current
	// working directory.
	OutputDir string
	// FilenameTemplate may use {书名}, {作者} and {日期} placeholders as well
	// as Go template actions with .Title, .Author, .Date and friends.
	FilenameTemplate string
	// Transliterate converts output file name to ASCII.
	Transliterate bool
	// FixZip re-packs archive without data descriptors.
	FixZip bool

	// Style defaults to book.DefaultStyle when nil.
	Style *book.Style
	// BaseStylesheet is prepended to generated rules. Nil selects embedded
	// default, empty slice means no base rules.
	BaseStylesheet []byte
	// Bundle provides template resources, embedded one is used when nil.
	Bundle *assets.Bundle

	Cover                  *book.Image
	Font                   *book.Font
	ChapterHeader          *book.Image
	ChapterHeaderFullbleed bool

	Images               []*book.Image
	IncludeImagesSection bool

	TOC book.TOCOptions
}
