package extract

import (
	"context"

	"github.com/voyagehq/tripdocs/internal/models"
	"github.com/voyagehq/tripdocs/pkg/engine"
	"github.com/voyagehq/tripdocs/pkg/logger"
)

// passportAliasOrder maps the verification API's field names onto the
// fixed passport field set. Order is the priority: when the response
// carries two synonyms of one canonical field, the earlier alias wins
// deterministically. Unlisted API fields pass through under their own
// names.
var passportAliasOrder = []struct {
	key       string
	canonical string
}{
	{"full_name", FieldFullName},
	{"fullname", FieldFullName},
	{"name", FieldFullName},
	{"passport_number", FieldPassportNumber},
	{"passport_no", FieldPassportNumber},
	{"document_number", FieldPassportNumber},
	{"date_of_birth", FieldDateOfBirth},
	{"birth_date", FieldDateOfBirth},
	{"dob", FieldDateOfBirth},
	{"expiry_date", FieldExpiryDate},
	{"date_of_expiry", FieldExpiryDate},
	{"expiration_date", FieldExpiryDate},
	{"expiry", FieldExpiryDate},
	{"nationality", FieldNationality},
	{"country", FieldNationality},
	{"place_of_birth", FieldPlaceOfBirth},
	{"birth_place", FieldPlaceOfBirth},
	{"gender", FieldGender},
	{"sex", FieldGender},
}

var passportAliasKeys = func() map[string]bool {
	keys := make(map[string]bool, len(passportAliasOrder))
	for _, a := range passportAliasOrder {
		keys[a.key] = true
	}
	return keys
}()

// PassportExtractor delegates recognition of a front/back pair to the
// external verification API and maps its response into the passport
// field set. The API is trusted as authoritative: there is no local
// validation stage, and any transport or non-2xx failure is an error
// outcome.
type PassportExtractor struct {
	verifier engine.Verifier
	logger   logger.Logger
}

func NewPassportExtractor(verifier engine.Verifier, log logger.Logger) *PassportExtractor {
	return &PassportExtractor{verifier: verifier, logger: log}
}

func (e *PassportExtractor) Extract(ctx context.Context, front, back []byte) models.ExtractionOutcome {
	response, err := e.verifier.VerifyPassport(ctx, front, back)
	if err != nil {
		e.logger.Error("passport verification failed", logger.Error(err))
		return models.ErrorOutcome(err)
	}

	fields := make(map[string]string, len(response))
	for _, a := range passportAliasOrder {
		value, ok := response[a.key]
		if !ok {
			continue
		}
		if _, exists := fields[a.canonical]; !exists {
			fields[a.canonical] = value
		}
	}
	for key, value := range response {
		if passportAliasKeys[key] {
			continue
		}
		fields[key] = value
	}

	return models.ExtractionOutcome{Status: models.ExtractionSuccess, Fields: fields}
}
