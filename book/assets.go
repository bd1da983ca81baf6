package book

// Image is binary image resource. Name is relative to images folder.
type Image struct {
	Name     string
	Data     []byte
	MimeType string
	Caption  string
}

// Font is embedded font resource. Name is relative to fonts folder.
type Font struct {
	Name     string
	Family   string
	Data     []byte
	MimeType string
}

// TOCOptions controls table of contents.
type TOCOptions struct {
	// Inline inserts navigable contents page into reading order.
	Inline bool
	// Title overrides language derived contents title when not blank.
	Title string
	// ImagesInTOC adds gallery page to contents.
	ImagesInTOC bool
}
