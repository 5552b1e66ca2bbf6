package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"lodging_query/internal/domain"
)

// Outcome labels for a dispatched command.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Reply is the rendered answer to one command line.
type Reply struct {
	Text    string
	Op      Op
	Outcome string
	Cached  bool
}

// QueryService executes parsed commands against the store currently served
// by its provider. Execute never returns an error: every failure becomes one
// of the fixed reply strings.
type QueryService struct {
	stores   domain.StoreProvider
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewQueryService wires a provider and an optional cache (nil disables it).
func NewQueryService(p domain.StoreProvider, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{stores: p, cache: c, cacheTTL: ttl}
}

func (s *QueryService) Execute(ctx context.Context, line string) Reply {
	cmd := Parse(line)
	st := s.stores.Current()

	key := ""
	if s.cache != nil && cacheable(cmd.Op) {
		key = fmt.Sprintf("reply:%d:%s", st.Generation(), cmd.Raw)
		var hit Reply
		if ok, _ := s.cache.Get(ctx, key, &hit); ok {
			hit.Cached = true
			return hit
		}
	}

	r := dispatch(st, cmd)
	if key != "" {
		_ = s.cache.Set(ctx, key, r, int(s.cacheTTL.Seconds()))
	}
	return r
}

// only record-list replies are worth a round trip to the cache
func cacheable(op Op) bool {
	switch op {
	case OpUnknown, OpHelp, OpExit, OpCount, OpGetRow:
		return false
	}
	return true
}

func dispatch(st domain.RecordStore, cmd Command) Reply {
	r := Reply{Op: cmd.Op, Outcome: OutcomeOK}
	list := func(rs []domain.Record) Reply {
		if len(rs) == 0 {
			r.Outcome = OutcomeEmpty
		}
		r.Text = RenderRecords(rs)
		return r
	}
	fail := func(text string) Reply {
		r.Outcome = OutcomeError
		r.Text = text
		return r
	}

	switch cmd.Op {
	case OpHelp:
		r.Text = HelpText()
	case OpExit:
		r.Text = FarewellReply
	case OpAll:
		return list(st.All())
	case OpCount:
		r.Text = CountPrefix + strconv.Itoa(st.Count())
	case OpMunicipalities:
		r.Text = renderList(st.DistinctMunicipalities())
	case OpTypes:
		r.Text = renderList(st.DistinctTypes())
	case OpCountByMunicipality:
		r.Text = renderCounts(st.CountByMunicipality())
	case OpCountByType:
		r.Text = renderCounts(st.CountByType())
	case OpGetRow:
		if cmd.Row <= 0 {
			return fail(ErrRowReply)
		}
		rec, err := st.ByIndex(cmd.Row - 1)
		if err != nil {
			return fail(ErrRowReply)
		}
		r.Text = RenderRecord(rec)
	case OpFilterMunicipality:
		return list(st.FilterByMunicipality(cmd.Arg))
	case OpFilterProvince:
		return list(st.FilterByProvince(cmd.Arg))
	case OpFilterStars:
		if _, err := strconv.Atoi(cmd.Arg); err != nil {
			return fail(ErrRowReply)
		}
		return list(st.FilterByStarRating(cmd.Arg))
	case OpFilterATL:
		return list(st.FilterByLocalTourismBoard(cmd.Arg))
	case OpFilterType:
		return list(st.FilterByType(cmd.Arg))
	case OpFilterMark:
		return list(st.FilterByQualityMark(cmd.Arg))
	case OpAccessible:
		return list(st.FilterAccessible())
	case OpAirConditioned:
		return list(st.FilterAirConditioned())
	case OpCards:
		return list(st.FilterCardPayable())
	case OpPets:
		return list(st.FilterPetFriendly())
	case OpParking:
		return list(st.FilterWithParking())
	case OpSearchName:
		return list(st.SearchByNameContains(cmd.Arg))
	default:
		return fail(ErrCommandReply)
	}
	if r.Text == NoResultsReply {
		r.Outcome = OutcomeEmpty
	}
	return r
}
