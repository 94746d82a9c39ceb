package parser

import "strings"

// specialCharacters are dropped before comparing field names.
const specialCharacters = "().,-_[]{}<>+% \t"

var normalizer = strings.NewReplacer(pairs(specialCharacters)...)

func pairs(chars string) []string {
	out := make([]string, 0, 2*len(chars))
	for _, c := range chars {
		out = append(out, string(c), "")
	}
	return out
}

// Normalize strips punctuation and whitespace from a field name and upper
// cases it so that legacy spelling variants compare equal. Parameter keys
// and translation table keys must both go through Normalize.
func Normalize(name string) string {
	return strings.TrimSpace(strings.ToUpper(normalizer.Replace(name)))
}

// ignoredLines are boilerplate lines that carry no data and are skipped
// without a finding.
var ignoredLines = normalizedSet(
	"If Update:",
	"Approximate Position",
	"Approximate Position (ITRF)",
	"Differential Components from GNSS Marker to the tied monument (ITRS)",
	"Hardcopy on File",
	"Antenna Graphics with Dimensions",
	"(insert text graphic from file antenna.gra)",
)

// subHeadings prefix the parameters indented beneath them.
var subHeadings = normalizedSet("Primary Contact", "Secondary Contact")

// sectionBreakers end a section once present so trailing free text is not
// swallowed into it.
var sectionBreakers = []string{Normalize("Additional Information"), Normalize("Notes")}

func normalizedSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[Normalize(n)] = true
	}
	return set
}

// countIndent measures leading whitespace, counting a tab as four spaces.
func countIndent(line string) int {
	n := 0
	for _, c := range line {
		switch c {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}
