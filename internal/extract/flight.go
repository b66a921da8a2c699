package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/voyagehq/tripdocs/internal/models"
	"github.com/voyagehq/tripdocs/pkg/engine"
	"github.com/voyagehq/tripdocs/pkg/logger"
)

// flightVocabulary is the validation keyword set. A recognized text
// block with fewer than minKeywordHits distinct hits is not treated as
// a flight document.
var flightVocabulary = []string{
	"pnr", "flight", "boarding", "departure", "arrival", "airline",
	"passenger", "gate", "seat", "terminal", "airport", "e-ticket",
}

var (
	// Labeled PNR: a 6-character alphanumeric near its label.
	pnrLabeledRe = regexp.MustCompile(
		`(?i:pnr|booking\s*ref(?:erence)?)\s*(?i:no\.?|number|#)?\s*[:\-]?\s*([A-Z0-9]{6})\b`)
	// Fallback: any standalone 6-character token. The reject predicate
	// drops tokens that are really times or measurements.
	pnrBareRe = regexp.MustCompile(`\b([A-Z0-9]{6})\b`)

	// Airline code directly adjacent to a 3-4 digit number.
	flightNumberRe = regexp.MustCompile(`\b([A-Z0-9]{2,3})[ -]?([0-9]{3,4})\b`)
	// Trailing digits of a combined flight number, used to derive the
	// airline code rather than searching for it independently.
	flightDigitsRe = regexp.MustCompile(`[0-9]{3,4}$`)

	dayMonthYearRe = regexp.MustCompile(
		`\b(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4})\b`)
	numericDateRe = regexp.MustCompile(`\b(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})\b`)

	clockTimeRe = regexp.MustCompile(
		`\b(\d{1,2}:\d{2}(?:\s*(?:[AaPp][Mm]|[Hh][Rr][Ss]))?)\b`)

	// "CODE - Full Airport Name"
	codedAirportRe = regexp.MustCompile(
		`\b([A-Z]{3})\s*[-–]\s*([A-Z][A-Za-z .'&()]*?Airport)\b`)
	// "CODE to CODE"
	routeAirportRe = regexp.MustCompile(`\b([A-Z]{3})\s+(?i:to)\s+([A-Z]{3})\b`)
	// Bare "... Airport" phrases, names only, codes left absent.
	bareAirportRe = regexp.MustCompile(`\b([A-Z][A-Za-z .'&]*?Airport)\b`)
)

func rejectPNRSuffix(c candidate, text string) bool {
	return followedBy(c, text, "hrs", "hr", "am", "pm", "min", "kg", "km")
}

var flightPNRCascade = cascade{
	{re: pnrLabeledRe},
	{re: pnrBareRe, reject: rejectPNRSuffix},
}

var flightNumberCascade = cascade{
	{
		re: flightNumberRe,
		pick: func(groups []string) string {
			return groups[1] + groups[2]
		},
		reject: func(c candidate, _ string) bool {
			// An all-digit match is a date fragment or a price, and a
			// code shorter than 4 characters total is noise.
			if len(c.value) < 4 {
				return true
			}
			return !strings.ContainsAny(c.groups[1], "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
		},
	},
}

var flightNameCascade = nameCascade(
	`passenger(?:\s*name)?|traveller|traveler`, `passenger\s*information`)

// FlightExtractor parses flight tickets: OCR text in, flat field map
// out.
type FlightExtractor struct {
	recognizer engine.Recognizer
	logger     logger.Logger
}

func NewFlightExtractor(recognizer engine.Recognizer, log logger.Logger) *FlightExtractor {
	return &FlightExtractor{recognizer: recognizer, logger: log}
}

// Extract recognizes the document bytes, validates the text against the
// flight vocabulary and runs the per-field cascades. Extraction never
// fails outright: sparse fields still yield a success outcome.
func (e *FlightExtractor) Extract(ctx context.Context, data []byte) models.ExtractionOutcome {
	text, err := e.recognizer.RecognizeText(ctx, data)
	if err != nil {
		return models.ErrorOutcome(err)
	}

	if hits := countKeywordHits(text, flightVocabulary); hits < minKeywordHits {
		e.logger.Info("document rejected as non-flight",
			logger.Int("keywordHits", hits),
		)
		return models.InvalidOutcome(text, "text does not look like a flight document")
	}

	fields := make(map[string]string)

	if pnr, ok := flightPNRCascade.first(text); ok {
		fields[FieldPNR] = pnr
	}
	if name, ok := flightNameCascade.first(text); ok {
		fields[FieldPassengerName] = name
	}
	if number, ok := flightNumberCascade.first(text); ok {
		fields[FieldFlightNumber] = number
		// Airline code is derived from the flight number prefix, never
		// searched independently.
		if code := flightDigitsRe.ReplaceAllString(number, ""); code != "" {
			fields[FieldAirline] = code
		}
	}

	setPositional(fields, collectOrdered(text, dayMonthYearRe, numericDateRe),
		FieldDepartureDate, FieldArrivalDate)
	setPositional(fields, collectOrdered(text, clockTimeRe),
		FieldDepartureTime, FieldArrivalTime)
	e.extractAirports(text, fields)

	if fields[FieldPNR] == "" && fields[FieldPassengerName] == "" {
		e.logger.Warn("flight extraction found no identifying field",
			logger.Int("fieldCount", len(fields)),
		)
	}

	return models.ExtractionOutcome{Status: models.ExtractionSuccess, Fields: fields}
}

// extractAirports assigns departure/arrival positionally. Coded
// "CODE - Name" matches win; "CODE to CODE" routes are the fallback;
// bare airport names fill the name fields only.
func (e *FlightExtractor) extractAirports(text string, fields map[string]string) {
	coded := collectOrdered(text, codedAirportRe)
	if len(coded) > 0 {
		fields[FieldDepartureAirport] = coded[0].groups[1]
		fields[FieldDepartureAirportName] = coded[0].groups[2]
		if len(coded) > 1 {
			fields[FieldArrivalAirport] = coded[1].groups[1]
			fields[FieldArrivalAirportName] = coded[1].groups[2]
		}
		return
	}

	if m := routeAirportRe.FindStringSubmatch(text); m != nil {
		fields[FieldDepartureAirport] = m[1]
		fields[FieldArrivalAirport] = m[2]
		return
	}

	setPositional(fields, collectOrdered(text, bareAirportRe),
		FieldDepartureAirportName, FieldArrivalAirportName)
}
