package app

import (
	"strconv"
	"strings"
)

// Wire keywords. Matching is done on the trimmed, lower-cased line.
const (
	KwHelp             = "help"
	KwExit             = "exit"
	KwAll              = "tutti"
	KwCount            = "num_strutture"
	KwMunicipalities   = "comuni"
	KwTypes            = "tipologie"
	KwGetRow           = "get_row"
	KwFilterMunicipal  = "filtra comune:"
	KwFilterProvince   = "filtra provincia:"
	KwFilterStars      = "filtra stelle:"
	KwFilterATL        = "filtra atl:"
	KwFilterType       = "filtra tipologia:"
	KwFilterMark       = "filtra marchio:"
	KwAccessible       = "disabili"
	KwAirConditioning  = "aria condizionata"
	KwCards            = "carte"
	KwPets             = "animali"
	KwParking          = "parcheggio"
	KwSearchName       = "cerca nome:"
	KwCountByMunicipal = "conta comuni"
	KwCountByType      = "conta tipologie"
)

// Fixed reply strings. Empty results and errors must stay distinguishable.
const (
	ErrCommandReply = "ERROR: Comando non riconosciuto."
	ErrRowReply     = "ERROR: Invalid row"
	NoResultsReply  = "Nessuna struttura trovata."
	FarewellReply   = "Chiusura connessione. Arrivederci!"
	CountPrefix     = "Numero strutture: "
)

type Op int

const (
	OpUnknown Op = iota
	OpHelp
	OpExit
	OpAll
	OpCount
	OpMunicipalities
	OpTypes
	OpGetRow
	OpFilterMunicipality
	OpFilterProvince
	OpFilterStars
	OpFilterATL
	OpFilterType
	OpFilterMark
	OpAccessible
	OpAirConditioned
	OpCards
	OpPets
	OpParking
	OpSearchName
	OpCountByMunicipality
	OpCountByType
)

var opNames = map[Op]string{
	OpUnknown:             "unknown",
	OpHelp:                "help",
	OpExit:                "exit",
	OpAll:                 "all",
	OpCount:               "count",
	OpMunicipalities:      "municipalities",
	OpTypes:               "types",
	OpGetRow:              "get_row",
	OpFilterMunicipality:  "filter_municipality",
	OpFilterProvince:      "filter_province",
	OpFilterStars:         "filter_stars",
	OpFilterATL:           "filter_atl",
	OpFilterType:          "filter_type",
	OpFilterMark:          "filter_mark",
	OpAccessible:          "accessible",
	OpAirConditioned:      "air_conditioned",
	OpCards:               "cards",
	OpPets:                "pets",
	OpParking:             "parking",
	OpSearchName:          "search_name",
	OpCountByMunicipality: "count_by_municipality",
	OpCountByType:         "count_by_type",
}

// String is the stable label used in logs and metrics.
func (o Op) String() string {
	if n, ok := opNames[o]; ok {
		return n
	}
	return "unknown"
}

// Command is one parsed request line.
type Command struct {
	Op  Op
	Arg string // trimmed argument for prefixed forms
	Row int    // 1-based row for get_row; 0 when missing or unparsable
	Raw string // trimmed, lower-cased input
}

var exact = map[string]Op{
	KwHelp:             OpHelp,
	KwExit:             OpExit,
	KwAll:              OpAll,
	KwCount:            OpCount,
	KwMunicipalities:   OpMunicipalities,
	KwTypes:            OpTypes,
	KwAccessible:       OpAccessible,
	KwAirConditioning:  OpAirConditioned,
	KwCards:            OpCards,
	KwPets:             OpPets,
	KwParking:          OpParking,
	KwCountByMunicipal: OpCountByMunicipality,
	KwCountByType:      OpCountByType,
}

// prefixed forms, checked in order
var prefixed = []struct {
	kw string
	op Op
}{
	{KwFilterMunicipal, OpFilterMunicipality},
	{KwFilterType, OpFilterType},
	{KwFilterProvince, OpFilterProvince},
	{KwFilterStars, OpFilterStars},
	{KwFilterATL, OpFilterATL},
	{KwFilterMark, OpFilterMark},
	{KwSearchName, OpSearchName},
}

// Parse maps any input line to exactly one Command. Unrecognized input yields
// OpUnknown; it never fails.
func Parse(line string) Command {
	raw := strings.ToLower(strings.TrimSpace(line))
	cmd := Command{Raw: raw}

	if op, ok := exact[raw]; ok {
		cmd.Op = op
		return cmd
	}
	if strings.HasPrefix(raw, KwGetRow) {
		cmd.Op = OpGetRow
		cmd.Arg = strings.TrimSpace(strings.TrimPrefix(raw, KwGetRow))
		if n, err := strconv.Atoi(cmd.Arg); err == nil && n > 0 {
			cmd.Row = n
		}
		return cmd
	}
	for _, p := range prefixed {
		if strings.HasPrefix(raw, p.kw) {
			cmd.Op = p.op
			cmd.Arg = strings.TrimSpace(strings.TrimPrefix(raw, p.kw))
			return cmd
		}
	}
	return cmd
}

// HelpText lists the supported commands.
func HelpText() string {
	return strings.Join([]string{
		"Comandi disponibili:",
		"- tutti                     : mostra tutte le strutture",
		"- num_strutture             : numero totale di strutture",
		"- get_row <n>               : dettaglio della riga n",
		"- comuni, tipologie         : elenchi distinti",
		"- conta comuni              : strutture per comune",
		"- conta tipologie           : strutture per tipologia",
		"- filtra comune:<nome>",
		"- filtra provincia:<sigla>",
		"- filtra stelle:<n>",
		"- filtra atl:<atl>",
		"- filtra tipologia:<tipo>",
		"- filtra marchio:<Q/Yes/Ecolabel>",
		"- disabili, aria condizionata, carte, animali, parcheggio",
		"- cerca nome:<parola>",
		"- help                      : mostra questo elenco",
		"- exit                      : termina la connessione",
	}, "\n")
}
