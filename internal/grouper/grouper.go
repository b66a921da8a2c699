// Package grouper partitions an unordered document batch into
// processing units: traveler-keyed passport front/back pairs plus one
// unit per flight and hotel document.
package grouper

import (
	"github.com/voyagehq/tripdocs/internal/models"
)

// UnpairedPolicy controls what happens to a passport side whose
// counterpart never arrived in the batch.
type UnpairedPolicy string

const (
	// PolicyDrop silently excludes lone passport sides. This avoids
	// blocking on partial uploads and is the default.
	PolicyDrop UnpairedPolicy = "drop"
	// PolicyReport surfaces lone passport sides as failed documents.
	PolicyReport UnpairedPolicy = "report"
)

// Result is the output of grouping one batch.
type Result struct {
	Units []models.ProcessingUnit
	// Unpaired holds passport sides that could not be matched into a
	// pair. Under PolicyDrop the orchestrator ignores them; under
	// PolicyReport it emits a failed event per document.
	Unpaired []models.DocumentRef
}

type passportSides struct {
	front *models.DocumentRef
	back  *models.DocumentRef
}

// Group buckets passport sides by traveler id and emits a PassportUnit
// only when both sides exist. Flight and hotel documents each become
// their own unit unconditionally. Flight and hotel units keep batch
// order; passport units follow, in first-appearance order of their
// travelers.
func Group(docs []models.DocumentRef) Result {
	sides := make(map[string]*passportSides)
	var travelerOrder []string

	var result Result
	for i := range docs {
		doc := docs[i]
		switch doc.Kind {
		case models.KindPassportFront, models.KindPassportBack:
			s, ok := sides[doc.TravelerID]
			if !ok {
				s = &passportSides{}
				sides[doc.TravelerID] = s
				travelerOrder = append(travelerOrder, doc.TravelerID)
			}
			// A duplicate side keeps the first occurrence.
			if doc.Kind == models.KindPassportFront && s.front == nil {
				s.front = &doc
			} else if doc.Kind == models.KindPassportBack && s.back == nil {
				s.back = &doc
			}
		case models.KindFlight:
			result.Units = append(result.Units, models.FlightUnit{Doc: doc})
		case models.KindHotel:
			result.Units = append(result.Units, models.HotelUnit{Doc: doc})
		}
	}

	for _, travelerID := range travelerOrder {
		s := sides[travelerID]
		if s.front != nil && s.back != nil {
			result.Units = append(result.Units, models.PassportUnit{
				TravelerID: travelerID,
				Front:      *s.front,
				Back:       *s.back,
			})
			continue
		}
		if s.front != nil {
			result.Unpaired = append(result.Unpaired, *s.front)
		}
		if s.back != nil {
			result.Unpaired = append(result.Unpaired, *s.back)
		}
	}

	return result
}
