package domain

import (
	"strings"
)

// Missing is stored in place of any empty field so no Record field is ever "".
const Missing = "NON_PRESENTE"

// FieldCount is the number of positional columns a source row maps onto.
const FieldCount = 28

// Yes/No sentinels used by the source file for boolean-like columns.
const (
	FlagYes = "SI"
	FlagNo  = "NO"
)

// Record is one lodging establishment. Values are kept exactly as read
// (after trimming and sentinel fill); use the typed accessors for flags.
type Record struct {
	Municipality     string
	Province         string
	TourismBoard     string // ATL
	Stars            string
	Qualification    string
	Type             string
	Name             string
	Street           string
	StreetNumber     string
	PostalCode       string
	Phone            string
	Fax              string
	Email            string
	MunicipalityAlt  string
	EstablishmentAlt string
	MarkEcolabel     string
	MarkQ            string
	MarkYes          string
	Accessible       string
	PetsAllowed      string
	PayCheque        string
	PayDebitCard     string
	PayCreditCard    string
	Garage           string
	Elevator         string
	ReservedParking  string
	AirConRooms      string
	AirConApartments string

	// canonical keys, upper-cased and trimmed
	MunicipalityKey string
	TypeKey         string
}

// NewRecord maps the first FieldCount values positionally. Callers must pass
// at least FieldCount fields.
func NewRecord(f []string) Record {
	r := Record{
		Municipality:     f[0],
		Province:         f[1],
		TourismBoard:     f[2],
		Stars:            f[3],
		Qualification:    f[4],
		Type:             f[5],
		Name:             f[6],
		Street:           f[7],
		StreetNumber:     f[8],
		PostalCode:       f[9],
		Phone:            f[10],
		Fax:              f[11],
		Email:            f[12],
		MunicipalityAlt:  f[13],
		EstablishmentAlt: f[14],
		MarkEcolabel:     f[15],
		MarkQ:            f[16],
		MarkYes:          f[17],
		Accessible:       f[18],
		PetsAllowed:      f[19],
		PayCheque:        f[20],
		PayDebitCard:     f[21],
		PayCreditCard:    f[22],
		Garage:           f[23],
		Elevator:         f[24],
		ReservedParking:  f[25],
		AirConRooms:      f[26],
		AirConApartments: f[27],
	}
	r.MunicipalityKey = Canonical(r.Municipality)
	r.TypeKey = Canonical(r.Type)
	return r
}

// Canonical is the grouping/comparison form of a free-text key.
func Canonical(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsYes reports whether a flag column holds the "SI" sentinel.
func IsYes(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), FlagYes)
}

func (r Record) IsAccessible() bool { return IsYes(r.Accessible) }
func (r Record) AcceptsPets() bool { return IsYes(r.PetsAllowed) }
func (r Record) AcceptsCards() bool { return IsYes(r.PayCreditCard) }
func (r Record) HasParking() bool { return IsYes(r.ReservedParking) }
func (r Record) HasAirConditioning() bool { return IsYes(r.AirConRooms) || IsYes(r.AirConApartments) }

// QualityMark names accepted by HasMark.
const (
	MarkNameQ        = "Q"
	MarkNameYes      = "Yes"
	MarkNameEcolabel = "Ecolabel"
)

// HasMark reports whether the named quality mark flag is set. Unknown names
// never match.
func (r Record) HasMark(name string) bool {
	switch {
	case strings.EqualFold(name, MarkNameQ):
		return IsYes(r.MarkQ)
	case strings.EqualFold(name, MarkNameYes):
		return IsYes(r.MarkYes)
	case strings.EqualFold(name, MarkNameEcolabel):
		return IsYes(r.MarkEcolabel)
	}
	return false
}

// Fields returns the 28 source columns in file order.
func (r Record) Fields() []string {
	return []string{
		r.Municipality, r.Province, r.TourismBoard, r.Stars, r.Qualification,
		r.Type, r.Name, r.Street, r.StreetNumber, r.PostalCode,
		r.Phone, r.Fax, r.Email, r.MunicipalityAlt, r.EstablishmentAlt,
		r.MarkEcolabel, r.MarkQ, r.MarkYes, r.Accessible, r.PetsAllowed,
		r.PayCheque, r.PayDebitCard, r.PayCreditCard, r.Garage, r.Elevator,
		r.ReservedParking, r.AirConRooms, r.AirConApartments,
	}
}
