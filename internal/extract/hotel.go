package extract

import (
	"context"
	"regexp"

	"github.com/voyagehq/tripdocs/internal/models"
	"github.com/voyagehq/tripdocs/pkg/engine"
	"github.com/voyagehq/tripdocs/pkg/logger"
)

// hotelVocabulary is the validation keyword set for hotel bookings.
var hotelVocabulary = []string{
	"check-in", "check-out", "hotel", "reservation", "guest", "room",
	"booking", "confirmation", "nights", "stay", "property",
	"accommodation", "suite",
}

var (
	hotelNameLabeledRe = regexp.MustCompile(
		`(?i:hotel\s*name|property|accommodation)\s*[:\-]\s*([A-Z][A-Za-z0-9&' ]{2,60})`)
	hotelNameGenericRe = regexp.MustCompile(
		`\b((?:[A-Z][A-Za-z'&]+[ \t]+){1,5}(?:Hotel|Resort|Inn|Suites|Residency|Regency|Palace|Lodge))\b`)

	confirmationLabeledRe = regexp.MustCompile(
		`(?i:confirmation|booking|reservation)\s*(?i:code|no\.?|number|id|ref(?:erence)?)?\s*[:#\-]?\s*([A-Z0-9][A-Z0-9-]{4,11})\b`)
	confirmationBareRe = regexp.MustCompile(`\b([A-Z0-9]{6,10})\b`)

	placeLabeledRe = regexp.MustCompile(
		`(?i:location|city|destination|address)\s*[:\-]\s*([A-Z][A-Za-z ,.']{2,60})`)
)

// rejectAmountContext drops tokens that sit next to price or headcount
// labels; those columns regularly produce confirmation-code shaped
// tokens.
func rejectAmountContext(c candidate, text string) bool {
	return followedBy(c, text, "paid", "amount", "guests", "guest", "nights", "night", "total", "per")
}

func rejectConfirmationSuffix(c candidate, text string) bool {
	return rejectAmountContext(c, text) ||
		followedBy(c, text, "hrs", "hr", "am", "pm")
}

var hotelNameCascade = cascade{
	{re: hotelNameLabeledRe},
	{re: hotelNameGenericRe},
}

var confirmationCascade = cascade{
	{re: confirmationLabeledRe, reject: rejectAmountContext},
	{re: confirmationBareRe, reject: rejectConfirmationSuffix},
}

var hotelPlaceCascade = cascade{
	{re: placeLabeledRe},
}

var guestNameCascade = nameCascade(
	`guest(?:\s*name)?|lead\s*guest`, `guest\s*(?:information|details)`)

// HotelExtractor parses hotel booking confirmations. Structurally the
// same pipeline as flights, different vocabulary and cascades.
type HotelExtractor struct {
	recognizer engine.Recognizer
	logger     logger.Logger
}

func NewHotelExtractor(recognizer engine.Recognizer, log logger.Logger) *HotelExtractor {
	return &HotelExtractor{recognizer: recognizer, logger: log}
}

func (e *HotelExtractor) Extract(ctx context.Context, data []byte) models.ExtractionOutcome {
	text, err := e.recognizer.RecognizeText(ctx, data)
	if err != nil {
		return models.ErrorOutcome(err)
	}

	if hits := countKeywordHits(text, hotelVocabulary); hits < minKeywordHits {
		e.logger.Info("document rejected as non-hotel",
			logger.Int("keywordHits", hits),
		)
		return models.InvalidOutcome(text, "text does not look like a hotel document")
	}

	fields := make(map[string]string)

	if name, ok := hotelNameCascade.first(text); ok {
		fields[FieldHotelName] = name
	}
	if code, ok := confirmationCascade.first(text); ok {
		fields[FieldConfirmationCode] = code
	}
	if guest, ok := guestNameCascade.first(text); ok {
		fields[FieldGuestName] = guest
	}
	if place, ok := hotelPlaceCascade.first(text); ok {
		fields[FieldPlace] = place
	}

	setPositional(fields, collectOrdered(text, dayMonthYearRe, numericDateRe),
		FieldCheckInDate, FieldCheckOutDate)
	setPositional(fields, collectOrdered(text, clockTimeRe),
		FieldCheckInTime, FieldCheckOutTime)

	if fields[FieldHotelName] == "" && fields[FieldConfirmationCode] == "" {
		e.logger.Warn("hotel extraction found no identifying field",
			logger.Int("fieldCount", len(fields)),
		)
	}

	return models.ExtractionOutcome{Status: models.ExtractionSuccess, Fields: fields}
}
