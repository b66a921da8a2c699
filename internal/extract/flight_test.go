package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagehq/tripdocs/internal/models"
	"github.com/voyagehq/tripdocs/pkg/logger"
)

const sampleTicket = `IndiGo E-Ticket
PNR: SISCPF
Passenger Name: Mr Rahul Sharma
Flight 6E 1402
Departure: 12 Aug 2025, 06:20 hrs
BOM - Chhatrapati Shivaji International Airport, Terminal 2
Arrival: 12 Aug 2025, 08:05 hrs
AUH - Abu Dhabi International Airport
Seat 14A Gate 22 Boarding 05:30 am`

func TestFlightExtractFullTicket(t *testing.T) {
	e := NewFlightExtractor(&fakeRecognizer{text: sampleTicket}, logger.NewTestLogger())

	outcome := e.Extract(context.Background(), []byte("raw"))
	require.Equal(t, models.ExtractionSuccess, outcome.Status)

	assert.Equal(t, "SISCPF", outcome.Fields[FieldPNR])
	assert.Equal(t, "Rahul Sharma", outcome.Fields[FieldPassengerName])
	assert.Equal(t, "6E1402", outcome.Fields[FieldFlightNumber])
	assert.Equal(t, "6E", outcome.Fields[FieldAirline])
	assert.Equal(t, "12 Aug 2025", outcome.Fields[FieldDepartureDate])
	assert.Equal(t, "12 Aug 2025", outcome.Fields[FieldArrivalDate])
	assert.Equal(t, "06:20 hrs", outcome.Fields[FieldDepartureTime])
	assert.Equal(t, "08:05 hrs", outcome.Fields[FieldArrivalTime])
	assert.Equal(t, "BOM", outcome.Fields[FieldDepartureAirport])
	assert.Equal(t, "Chhatrapati Shivaji International Airport", outcome.Fields[FieldDepartureAirportName])
	assert.Equal(t, "AUH", outcome.Fields[FieldArrivalAirport])
	assert.Equal(t, "Abu Dhabi International Airport", outcome.Fields[FieldArrivalAirportName])
}

func TestFlightExtractRejectsNonFlightText(t *testing.T) {
	e := NewFlightExtractor(
		&fakeRecognizer{text: "Invoice\nTotal: 4500\nThank you for shopping"},
		logger.NewTestLogger(),
	)

	outcome := e.Extract(context.Background(), []byte("raw"))
	assert.Equal(t, models.ExtractionInvalid, outcome.Status)
	assert.NotEmpty(t, outcome.RawText)
	assert.Empty(t, outcome.Fields)
}

func TestFlightExtractEngineError(t *testing.T) {
	e := NewFlightExtractor(&fakeRecognizer{err: errEngine}, logger.NewTestLogger())

	outcome := e.Extract(context.Background(), []byte("raw"))
	assert.Equal(t, models.ExtractionError, outcome.Status)
	assert.Contains(t, outcome.ErrorMessage, "engine unavailable")
}

func TestFlightExtractBarePNRFallback(t *testing.T) {
	text := `Boarding pass for your flight
Departure gate 12
New Delhi to Dubai
X9Y2Z7
Seat 21C`
	e := NewFlightExtractor(&fakeRecognizer{text: text}, logger.NewTestLogger())

	outcome := e.Extract(context.Background(), []byte("raw"))
	require.Equal(t, models.ExtractionSuccess, outcome.Status)
	assert.Equal(t, "X9Y2Z7", outcome.Fields[FieldPNR])
}

func TestFlightExtractRejectsTimeShapedPNR(t *testing.T) {
	text := `Boarding closes 123456 hrs before departure
Gate assignment for your flight
Seat 3F`
	e := NewFlightExtractor(&fakeRecognizer{text: text}, logger.NewTestLogger())

	outcome := e.Extract(context.Background(), []byte("raw"))
	require.Equal(t, models.ExtractionSuccess, outcome.Status)
	assert.NotContains(t, outcome.Fields, FieldPNR)
	// An all-digit run is never a flight number either.
	assert.NotContains(t, outcome.Fields, FieldFlightNumber)
}

func TestFlightExtractRouteFallback(t *testing.T) {
	text := `E-Ticket for passenger travel
Flight AI 202 departure 10:15 am arrival 12:40 pm
Route: DEL to DXB`
	e := NewFlightExtractor(&fakeRecognizer{text: text}, logger.NewTestLogger())

	outcome := e.Extract(context.Background(), []byte("raw"))
	require.Equal(t, models.ExtractionSuccess, outcome.Status)
	assert.Equal(t, "AI202", outcome.Fields[FieldFlightNumber])
	assert.Equal(t, "AI", outcome.Fields[FieldAirline])
	assert.Equal(t, "DEL", outcome.Fields[FieldDepartureAirport])
	assert.Equal(t, "DXB", outcome.Fields[FieldArrivalAirport])
}

func TestFlightExtractSparseTicketStillSucceeds(t *testing.T) {
	text := "Airline boarding information for passenger, flight delayed"
	e := NewFlightExtractor(&fakeRecognizer{text: text}, logger.NewTestLogger())

	outcome := e.Extract(context.Background(), []byte("raw"))
	assert.Equal(t, models.ExtractionSuccess, outcome.Status)
	assert.NotContains(t, outcome.Fields, FieldPNR)
	assert.NotContains(t, outcome.Fields, FieldPassengerName)
}

func TestFlightExtractDeniesSectionHeaderAsName(t *testing.T) {
	text := `Passenger Information
Flight QF 881 boarding at gate 5
PNR: QWERTY`
	e := NewFlightExtractor(&fakeRecognizer{text: text}, logger.NewTestLogger())

	outcome := e.Extract(context.Background(), []byte("raw"))
	require.Equal(t, models.ExtractionSuccess, outcome.Status)
	assert.NotContains(t, outcome.Fields, FieldPassengerName)
	assert.Equal(t, "QWERTY", outcome.Fields[FieldPNR])
}
