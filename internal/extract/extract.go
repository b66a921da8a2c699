// Package extract turns recognized document text (or a structured
// verification response) into flat field maps. The three extractors
// share one contract: they never fail outright on sparse text; a
// success outcome with missing fields is legitimate, and only transport
// or engine failures surface as errors.
package extract

// Flight field keys.
const (
	FieldPNR                  = "pnr"
	FieldPassengerName        = "passenger_name"
	FieldFlightNumber         = "flight_number"
	FieldAirline              = "airline"
	FieldDepartureDate        = "departure_date"
	FieldArrivalDate          = "arrival_date"
	FieldDepartureTime        = "departure_time"
	FieldArrivalTime          = "arrival_time"
	FieldDepartureAirport     = "departure_airport"
	FieldArrivalAirport       = "arrival_airport"
	FieldDepartureAirportName = "departure_airport_name"
	FieldArrivalAirportName   = "arrival_airport_name"
)

// Hotel field keys.
const (
	FieldHotelName        = "hotel_name"
	FieldConfirmationCode = "confirmation_code"
	FieldGuestName        = "guest_name"
	FieldCheckInDate      = "check_in_date"
	FieldCheckOutDate     = "check_out_date"
	FieldCheckInTime      = "check_in_time"
	FieldCheckOutTime     = "check_out_time"
	FieldPlace            = "place"
)

// Passport field keys (the fixed set mapped from the verification API;
// unrecognized API fields pass through under their own names).
const (
	FieldFullName       = "full_name"
	FieldPassportNumber = "passport_number"
	FieldDateOfBirth    = "date_of_birth"
	FieldExpiryDate     = "expiry_date"
	FieldNationality    = "nationality"
	FieldPlaceOfBirth   = "place_of_birth"
	FieldGender         = "gender"
)

// minKeywordHits is the validation threshold: a flight or hotel text
// block must contain at least this many distinct vocabulary keywords or
// the document is rejected as invalid.
const minKeywordHits = 3
