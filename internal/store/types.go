package store

import "errors"

var (
	// ErrVisitorNotFound is returned when an update matches no visitor.
	ErrVisitorNotFound = errors.New("visitor not found")
	// ErrDocumentMissing is returned when no document is currently bound.
	ErrDocumentMissing = errors.New("no document found")
	// ErrDocumentEmpty is returned when the bound document has no content.
	ErrDocumentEmpty = errors.New("document is empty")
	// ErrSubscriptionNotFound is returned when no subscription has the endpoint.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// visitorColumns mirrors what the kiosk needs from a visitor row. Nullable
// text columns are coalesced so they always scan into strings.
const visitorColumns = "visitor_id, company_name, guest_name, start_visit, end_visit, " +
	"COALESCE(sponsor_guy, '') AS sponsor_guy, check_in, doc_accepted_date, " +
	"COALESCE(photo_path, '') AS photo_path"
