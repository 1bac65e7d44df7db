package agenda

import (
	"sort"
	"time"

	"github.com/acgeners/amor-saude/models"
)

// slotTuple is one concrete offerable slot on a given day.
type slotTuple struct {
	Practitioner string
	Specialty    string
	Room         string
	Time         string
}

// flattenBlocks expands practitioner blocks into per-time tuples, keeping
// only blocks whose specialty matches the request. Empty specialty on the
// request matches everything.
func flattenBlocks(blocks []models.ScheduleBlock, specialty string) []slotTuple {
	var tuples []slotTuple
	for _, b := range blocks {
		if specialty != "" && !matchesSpecialty(b.Specialty, specialty) {
			continue
		}
		for _, t := range b.Times {
			tuples = append(tuples, slotTuple{
				Practitioner: b.Practitioner,
				Specialty:    b.Specialty,
				Room:         b.Room,
				Time:         t,
			})
		}
	}
	return tuples
}

// parseSlotInstant combines a grid date and a time-button label into a
// concrete instant in the clinic's timezone.
func parseSlotInstant(date time.Time, clock string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(timeLayout, clock, loc)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc), true
}

// selectEarliest picks the earliest acceptable slot for one day. Slots on the
// current day must start at least threshold after now; future days carry no
// lead-time requirement. alreadyOffered filters out slots the ledger has
// served to this requester before. Ties on the instant keep grid order, which
// follows the page's left-to-right practitioner layout.
func selectEarliest(
	tuples []slotTuple,
	date time.Time,
	now time.Time,
	threshold time.Duration,
	loc *time.Location,
	alreadyOffered func(t slotTuple) bool,
) (slotTuple, time.Time, bool) {
	sameDay := date.Year() == now.Year() && date.YearDay() == now.YearDay()

	type scored struct {
		tuple   slotTuple
		instant time.Time
		order   int
	}
	var accepted []scored
	for i, tu := range tuples {
		instant, ok := parseSlotInstant(date, tu.Time, loc)
		if !ok {
			continue
		}
		if sameDay && instant.Before(now.Add(threshold)) {
			continue
		}
		if alreadyOffered != nil && alreadyOffered(tu) {
			continue
		}
		accepted = append(accepted, scored{tuple: tu, instant: instant, order: i})
	}
	if len(accepted) == 0 {
		return slotTuple{}, time.Time{}, false
	}
	sort.SliceStable(accepted, func(a, b int) bool {
		if accepted[a].instant.Equal(accepted[b].instant) {
			return accepted[a].order < accepted[b].order
		}
		return accepted[a].instant.Before(accepted[b].instant)
	})
	return accepted[0].tuple, accepted[0].instant, true
}
