package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// nameDenylist holds normalized phrases that regularly match the name
// patterns on real tickets and bookings but are never passenger names:
// section headers, product labels and common city names seen in OCR
// output.
var nameDenylist = map[string]bool{
	"passenger information": true,
	"passenger details":     true,
	"guest information":     true,
	"guest details":         true,
	"boarding pass":         true,
	"flight details":        true,
	"booking details":       true,
	"hotel details":         true,
	"web check in":          true,
	"terms and conditions":  true,
	"important information": true,
	"contact details":       true,
	"new delhi":             true,
	"abu dhabi":             true,
	"kuala lumpur":          true,
	"new york":              true,
}

func rejectDenylisted(c candidate, _ string) bool {
	return nameDenylist[strings.Join(strings.Fields(strings.ToLower(c.value)), " ")]
}

// nameCascade builds the person-name cascade for a document kind:
// title-prefixed names first, then an explicit label, and only when
// both fail a looser match shortly after the section header. The
// denylist filters every tier.
func nameCascade(labels, sectionHeader string) cascade {
	// Name captures stay on one line: letting the whitespace cross a
	// newline swallows the first word of the following line.
	titled := regexp.MustCompile(
		`\b(?:Mr|Mrs|Ms|Miss|Dr|Mstr|Master)\.?[ \t]+((?:[A-Z][A-Za-z]+[ \t]+)+[A-Z][A-Za-z]+)\b`)
	labeled := regexp.MustCompile(fmt.Sprintf(
		`(?i:%s)[ \t]*[:\-][ \t]*((?:[A-Z][A-Za-z]+[ \t]+)+[A-Z][A-Za-z]+)`, labels))
	proximity := regexp.MustCompile(fmt.Sprintf(
		`(?i:%s)[^\n]{0,40}\n[ \t]*((?:[A-Z][a-z]+[ \t]+)+[A-Z][a-z]+)`, sectionHeader))

	return cascade{
		{re: titled, reject: rejectDenylisted},
		{re: labeled, reject: rejectDenylisted},
		{re: proximity, reject: rejectDenylisted},
	}
}
