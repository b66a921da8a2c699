package models

import (
	"time"
)

// DocumentKind classifies an uploaded travel document.
type DocumentKind string

const (
	KindPassportFront DocumentKind = "passport_front"
	KindPassportBack  DocumentKind = "passport_back"
	KindFlight        DocumentKind = "flight"
	KindHotel         DocumentKind = "hotel"
)

// ValidKind reports whether k is one of the accepted document kinds.
func ValidKind(k DocumentKind) bool {
	switch k {
	case KindPassportFront, KindPassportBack, KindFlight, KindHotel:
		return true
	}
	return false
}

// DocumentRef identifies one remotely fetchable document in a batch.
// Immutable once received.
type DocumentRef struct {
	DocumentID   string       `json:"document_id"`
	TravelerID   string       `json:"traveler_id"`
	TravelerName string       `json:"traveler_name"`
	SourceURL    string       `json:"source_url"`
	Kind         DocumentKind `json:"document_kind"`
}

// Traveler is derived from the distinct (traveler_id, traveler_name)
// pairs across a batch, in first-appearance order.
type Traveler struct {
	ID   string `json:"traveler_id"`
	Name string `json:"traveler_name"`
}

// Batch is one submitted processing request. All state derived from it
// is transient: nothing survives past the final webhook call.
type Batch struct {
	ID        string        `json:"batch_id"`
	Documents []DocumentRef `json:"documents"`
}

// Travelers returns the distinct (traveler_id, traveler_name) pairs
// referenced by the batch, preserving the order in which they first
// appear. The same id under two name spellings yields two entries, so
// every spelling is a match candidate.
func (b *Batch) Travelers() []Traveler {
	seen := make(map[Traveler]bool, len(b.Documents))
	travelers := make([]Traveler, 0, len(b.Documents))
	for _, doc := range b.Documents {
		if doc.TravelerID == "" {
			continue
		}
		t := Traveler{ID: doc.TravelerID, Name: doc.TravelerName}
		if seen[t] {
			continue
		}
		seen[t] = true
		travelers = append(travelers, t)
	}
	return travelers
}

// UnitKind discriminates processing units and doubles as the webhook
// document_type value.
type UnitKind string

const (
	UnitPassport UnitKind = "passport"
	UnitFlight   UnitKind = "flight"
	UnitHotel    UnitKind = "hotel"
)

// ProcessingUnit is the minimal groupable work item: a matched passport
// front/back pair, or a single flight or hotel document.
type ProcessingUnit interface {
	UnitKind() UnitKind
	// Primary returns the DocumentRef used to key progress events.
	Primary() DocumentRef
}

// PassportUnit is a traveler-scoped front/back pair. It is only ever
// constructed when both sides are present for the same traveler.
type PassportUnit struct {
	TravelerID string
	Front      DocumentRef
	Back       DocumentRef
}

func (u PassportUnit) UnitKind() UnitKind   { return UnitPassport }
func (u PassportUnit) Primary() DocumentRef { return u.Front }

// FlightUnit wraps a single flight ticket document.
type FlightUnit struct {
	Doc DocumentRef
}

func (u FlightUnit) UnitKind() UnitKind   { return UnitFlight }
func (u FlightUnit) Primary() DocumentRef { return u.Doc }

// HotelUnit wraps a single hotel booking document.
type HotelUnit struct {
	Doc DocumentRef
}

func (u HotelUnit) UnitKind() UnitKind   { return UnitHotel }
func (u HotelUnit) Primary() DocumentRef { return u.Doc }

// ExtractionStatus is the three-way outcome of a field extraction.
type ExtractionStatus string

const (
	// ExtractionSuccess means fields were extracted. The field map may
	// legitimately be sparse.
	ExtractionSuccess ExtractionStatus = "success"
	// ExtractionInvalid means the source was read but domain validation
	// rejected it as not being a document of the expected kind.
	ExtractionInvalid ExtractionStatus = "invalid"
	// ExtractionError means a transport or engine failure.
	ExtractionError ExtractionStatus = "error"
)

// ExtractionOutcome is the result of running one extractor over one
// processing unit. Absent fields are omitted from the map entirely; an
// empty string value is distinct from absence.
type ExtractionOutcome struct {
	Status       ExtractionStatus  `json:"status"`
	Fields       map[string]string `json:"fields,omitempty"`
	RawText      string            `json:"raw_text,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// ErrorOutcome builds an error ExtractionOutcome from err.
func ErrorOutcome(err error) ExtractionOutcome {
	return ExtractionOutcome{Status: ExtractionError, ErrorMessage: err.Error()}
}

// InvalidOutcome builds an invalid ExtractionOutcome carrying the raw
// recognized text for diagnosis.
func InvalidOutcome(rawText, reason string) ExtractionOutcome {
	return ExtractionOutcome{Status: ExtractionInvalid, RawText: rawText, ErrorMessage: reason}
}

// MatchCandidate scores one traveler against an extracted name.
// Recomputed per call, never cached across units.
type MatchCandidate struct {
	TravelerID string
	Score      float64
}

// ProgressStatus is the per-document status published on the progress
// channel.
type ProgressStatus string

const (
	ProgressProcessing ProgressStatus = "processing"
	ProgressMapped     ProgressStatus = "mapped"
	ProgressFailed     ProgressStatus = "failed"
)

// ProgressEvent is the pub/sub payload for one document status change.
// For a given document id exactly one "processing" event is followed by
// exactly one terminal event.
type ProgressEvent struct {
	BatchID      string            `json:"batch_id"`
	TravelerID   string            `json:"traveler_id"`
	TravelerName string            `json:"traveler_name"`
	DocumentID   string            `json:"document_id"`
	DocumentKind DocumentKind      `json:"document_kind"`
	Status       ProgressStatus    `json:"status"`
	Fields       map[string]string `json:"fields,omitempty"`
	Error        string            `json:"error,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
}

// UnitResult is the terminal record for one processing unit, handed to
// the result reporter once the unit reaches Mapped or Failed.
type UnitResult struct {
	BatchID             string            `json:"batch_id"`
	Unit                ProcessingUnit    `json:"-"`
	TravelerID          string            `json:"traveler_id"`
	DocumentType        UnitKind          `json:"document_type"`
	DocumentIDs         []string          `json:"document_ids"`
	Completed           bool              `json:"-"`
	Outcome             ExtractionOutcome `json:"ocr_extracted_data"`
	MappedToTravelerID  string            `json:"mapped_to_traveler_id,omitempty"`
}

// BatchStatus is the transient per-batch counter set kept in Redis so
// the status endpoint has something to answer with. Best effort only.
type BatchStatus struct {
	BatchID    string    `json:"batch_id"`
	TotalUnits int       `json:"total_units"`
	Mapped     int       `json:"mapped"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Done reports whether every unit has reached a terminal state.
func (s *BatchStatus) Done() bool {
	return s.Mapped+s.Failed >= s.TotalUnits
}
