package scheduling

import "time"

// commitment is one already-scheduled ticket as seen by the replay:
// when it was estimated to start and how long it holds an agent.
type commitment struct {
	start    time.Time
	duration time.Duration
}

func commitmentsOf(tickets []Ticket) []commitment {
	out := make([]commitment, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, commitment{
			start:    t.EstimatedAt,
			duration: time.Duration(t.TotalMinutes) * time.Minute,
		})
	}
	return out
}

// findEarliestSlot replays a day's committed tickets across a roster of
// rosterSize agents, all free at anchor, and returns the roster index and
// instant of the earliest slot for a new ticket.
//
// Each committed ticket (ascending by estimated start) is handed to the
// agent who frees up first, lowest roster index winning ties, and that
// agent is then busy until max(free, start) + duration. Agents serve
// strictly sequentially and never idle past a ticket that arrives while
// they are free. After the replay the minimum of the availability vector
// is the true earliest free instant across the roster.
//
// rosterSize must be >= 1; the caller rejects empty rosters.
func findEarliestSlot(rosterSize int, committed []commitment, anchor time.Time) (int, time.Time) {
	avail := make([]time.Time, rosterSize)
	for i := range avail {
		avail[i] = anchor
	}

	for _, c := range committed {
		i := earliestIndex(avail)
		start := c.start
		if avail[i].After(start) {
			start = avail[i]
		}
		avail[i] = start.Add(c.duration)
	}

	i := earliestIndex(avail)
	slot := avail[i]
	if slot.Before(anchor) {
		slot = anchor
	}
	return i, slot
}

// earliestIndex returns the index of the minimum instant, lowest index on
// ties so that roster order stays the priority order.
func earliestIndex(avail []time.Time) int {
	min := 0
	for i := 1; i < len(avail); i++ {
		if avail[i].Before(avail[min]) {
			min = i
		}
	}
	return min
}
