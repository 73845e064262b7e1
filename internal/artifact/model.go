// Package artifact projects the navigation tree into the HTML table of
// contents, the NCX navigation document and the OPF package file.
package artifact

// Book contains the metadata copied into the generated files.
type Book struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	ID        string `json:"id"`
	Language  string `json:"language"`
	Publisher string `json:"publisher,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Date      string `json:"date,omitempty"`
}

// Files names the documents that make up the package. Names are relative
// to the directory of the source document.
type Files struct {
	Source string   // the XHTML book
	HTML   string   // generated HTML TOC, empty when not generated
	NCX    string   // generated NCX, empty when not generated
	Cover  string   // cover image, optional
	Images []string // rasterized pre blocks
}

// HTMLTOC is the model of the HTML table of contents.
type HTMLTOC struct {
	Title   string
	Levels  int
	Entries []HTMLEntry
}

// HTMLEntry is one paragraph of the HTML TOC.
type HTMLEntry struct {
	Level int
	Label string
	Href  string
}

// NCX is the model of the NCX navigation document.
type NCX struct {
	UID       string
	Title     string
	Author    string
	Lang      string
	Depth     int
	NavPoints []*NavPoint
}

// NavPoint is one navigation point of the NCX navMap.
type NavPoint struct {
	Class     string
	ID        string
	PlayOrder int
	Label     string
	Src       string
	Children  []*NavPoint
}

// OPF is the model of the OPF package document.
type OPF struct {
	UniqueID string // id of the dc:identifier element
	Metadata OPFMetadata
	Manifest []ManifestItem
	Spine    Spine
	Guide    []GuideRef
}

// OPFMetadata holds the Dublin Core metadata block.
type OPFMetadata struct {
	Title      string
	Language   string
	Identifier string
	Creator    string
	Publisher  string
	Subject    string
	Date       string
	CoverID    string // manifest id of the cover image, if any
}

// ManifestItem is one file of the package.
type ManifestItem struct {
	ID        string
	Href      string
	MediaType string
}

// Spine lists the reading order.
type Spine struct {
	TOC      string // manifest id of the NCX
	ItemRefs []string
}

// GuideRef is one reference of the guide section.
type GuideRef struct {
	Type  string
	Title string
	Href  string
}
