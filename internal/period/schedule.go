package period

import (
	"fmt"
	"time"

	"spreadcli/internal/errors"
	"spreadcli/pkg/contracts/domain"
)

// Segment is a maximal run of consecutive calendar days over which the target
// contract resolves to one constant relative offset
type Segment struct {
	Offset       int
	Label        string
	Start        time.Time
	End          time.Time
	Transitioned bool // whether the segment begins inside a transition window
}

// Schedule segments [start, end] into runs of constant relative offset for the
// target contract. A fetch orchestrator queries one segment at a time, which
// guarantees a single relative label per query; mixing labels within one fetch
// was the root cause of the historical q_1/q_2 data mismatch.
//
// Every calendar day is resolved through Resolve, so the schedule and any direct
// caller of Resolve can never disagree.
func Schedule(target domain.ContractSpec, start, end time.Time, nS int) ([]Segment, error) {
	start = dateOnly(start)
	end = dateOnly(end)
	if end.Before(start) {
		return nil, errors.NewParameterError(
			fmt.Sprintf("end date %s before start date %s",
				end.Format("2006-01-02"), start.Format("2006-01-02")), nil)
	}

	var segments []Segment
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		res, err := Resolve(d, target, nS)
		if err != nil {
			return nil, err
		}

		if len(segments) > 0 && segments[len(segments)-1].Offset == res.RelativeOffset {
			segments[len(segments)-1].End = d
			continue
		}
		segments = append(segments, Segment{
			Offset:       res.RelativeOffset,
			Label:        res.Label(),
			Start:        d,
			End:          d,
			Transitioned: res.Transitioned,
		})
	}
	return segments, nil
}

// ForwardSegments filters a schedule down to forward-quotable periods
// (offset >= 1), the only ones a quoting tool can request
func ForwardSegments(segments []Segment) []Segment {
	var forward []Segment
	for _, s := range segments {
		if s.Offset >= 1 {
			forward = append(forward, s)
		}
	}
	return forward
}
