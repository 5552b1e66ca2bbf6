package app

import (
	"fmt"
	"sort"
	"strings"

	"lodging_query/internal/domain"
)

// Separator closes every rendered record block.
const Separator = "------------------------------------------------------------"

// RenderRecord is the multi-line human-readable form of one record.
func RenderRecord(r domain.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s), %s %s - %s (%s)\n", r.Name, r.Type, r.Street, r.StreetNumber, r.Municipality, r.Province)
	fmt.Fprintf(&b, "CAP: %s, Tel: %s, Fax: %s, Email: %s\n", r.PostalCode, r.Phone, r.Fax, r.Email)
	fmt.Fprintf(&b, "Stelle: %s, Qualifica: %s, ATL: %s\n", r.Stars, r.Qualification, r.TourismBoard)
	fmt.Fprintf(&b, "Altitudine Comune: %s, Altitudine Struttura: %s\n", r.MunicipalityAlt, r.EstablishmentAlt)
	fmt.Fprintf(&b, "Marchi: Ecolabel(%s), Q(%s), Yes(%s)\n", r.MarkEcolabel, r.MarkQ, r.MarkYes)
	fmt.Fprintf(&b, "Servizi: Disabili(%s), Animali(%s)\n", r.Accessible, r.PetsAllowed)
	fmt.Fprintf(&b, "Pagamenti: Assegno(%s), Bancomat(%s), Carta(%s)\n", r.PayCheque, r.PayDebitCard, r.PayCreditCard)
	fmt.Fprintf(&b, "Accessori: Garage(%s), Ascensore(%s), Parcheggio(%s), Aria cond. camere(%s), appartamenti(%s)\n",
		r.Garage, r.Elevator, r.ReservedParking, r.AirConRooms, r.AirConApartments)
	b.WriteString(Separator)
	return b.String()
}

// RenderRecords joins record blocks with newlines; an empty list renders as
// NoResultsReply.
func RenderRecords(rs []domain.Record) string {
	if len(rs) == 0 {
		return NoResultsReply
	}
	blocks := make([]string, len(rs))
	for i, r := range rs {
		blocks[i] = RenderRecord(r)
	}
	return strings.Join(blocks, "\n")
}

func renderList(keys []string) string {
	if len(keys) == 0 {
		return NoResultsReply
	}
	return strings.Join(keys, ", ")
}

// renderCounts prints "KEY: n" lines sorted by key.
func renderCounts(m map[string]int) string {
	if len(m) == 0 {
		return NoResultsReply
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = fmt.Sprintf("%s: %d", k, m[k])
	}
	return strings.Join(lines, "\n")
}
