package insight

import "strings"

// Section headings, in report order.
const (
	HeadingPerformance     = "Price Performance"
	HeadingTechnical       = "Technical Analysis"
	HeadingVolatility      = "Volatility Analysis"
	HeadingRange           = "Price Range Analysis"
	HeadingCorrelation     = "Correlation Analysis"
	HeadingOutlook         = "Investment Outlook"
	HeadingRecommendations = "Key Observations and Recommendations"
)

// Section is a headed group of report lines. An empty line separates
// sub-groups within a section.
type Section struct {
	Heading string
	Lines   []string
}

// Report is the ordered insight document.
type Report struct {
	Title    string
	Sections []Section
}

// Lines flattens the report into text lines: the title, then each section
// heading preceded by a blank line and followed by its lines.
func (r Report) Lines() []string {
	out := []string{"# " + r.Title}
	for _, s := range r.Sections {
		out = append(out, "", "## "+s.Heading)
		out = append(out, s.Lines...)
	}
	return out
}

// String renders the report as newline-separated UTF-8 text.
func (r Report) String() string {
	return strings.Join(r.Lines(), "\n")
}

// Section returns the section with the given heading.
func (r Report) Section(heading string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Heading == heading {
			return s, true
		}
	}
	return Section{}, false
}
