package monitoring

import (
	"sync"
	"time"

	"github.com/sells-group/triage-cli/internal/model"
)

// MetricsSnapshot holds a point-in-time view of triage outcomes.
type MetricsSnapshot struct {
	Total           int     `json:"total"`
	HumanReview     int     `json:"human_review"`
	HumanReviewRate float64 `json:"human_review_rate"`
	Unknown         int     `json:"unknown"`
	UnknownRate     float64 `json:"unknown_rate"`
	HighUrgency     int     `json:"high_urgency"`
	AvgConfidence   float64 `json:"avg_confidence"`

	ByCategory    map[string]int `json:"by_category"`
	ByDestination map[string]int `json:"by_destination"`

	// Confidence buckets.
	BucketBelow50 int `json:"bucket_below_50"`
	Bucket50to70  int `json:"bucket_50_to_70"`
	Bucket70to90  int `json:"bucket_70_to_90"`
	Bucket90Plus  int `json:"bucket_90_plus"`

	// Metadata.
	Since       time.Time `json:"since"`
	CollectedAt time.Time `json:"collected_at"`
}

// Collector accumulates triage outcomes. It is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	started time.Time
	totals  tally
}

type tally struct {
	total, humanReview, unknown, highUrgency int
	confidenceSum                            float64
	below50, from50, from70, from90          int
	byCategory, byDestination                map[string]int
}

func newTally() tally {
	return tally{
		byCategory:    make(map[string]int),
		byDestination: make(map[string]int),
	}
}

func (t *tally) add(ticket model.TicketRecord) {
	t.total++
	if ticket.Routing.RequiresHumanReview {
		t.humanReview++
	}
	if ticket.Classification.Category == model.CategoryUnknown {
		t.unknown++
	}
	if ticket.Request.Urgency == model.UrgencyHigh {
		t.highUrgency++
	}

	conf := ticket.Classification.Confidence
	t.confidenceSum += conf
	switch {
	case conf < 0.5:
		t.below50++
	case conf < 0.7:
		t.from50++
	case conf < 0.9:
		t.from70++
	default:
		t.from90++
	}

	t.byCategory[string(ticket.Classification.Category)]++
	t.byDestination[string(ticket.Routing.Destination)]++
}

func (t *tally) snapshot(since, now time.Time) *MetricsSnapshot {
	snap := &MetricsSnapshot{
		Total:         t.total,
		HumanReview:   t.humanReview,
		Unknown:       t.unknown,
		HighUrgency:   t.highUrgency,
		ByCategory:    make(map[string]int, len(t.byCategory)),
		ByDestination: make(map[string]int, len(t.byDestination)),
		BucketBelow50: t.below50,
		Bucket50to70:  t.from50,
		Bucket70to90:  t.from70,
		Bucket90Plus:  t.from90,
		Since:         since,
		CollectedAt:   now,
	}
	for k, v := range t.byCategory {
		snap.ByCategory[k] = v
	}
	for k, v := range t.byDestination {
		snap.ByDestination[k] = v
	}
	if t.total > 0 {
		snap.HumanReviewRate = float64(t.humanReview) / float64(t.total)
		snap.UnknownRate = float64(t.unknown) / float64(t.total)
		snap.AvgConfidence = t.confidenceSum / float64(t.total)
	}
	return snap
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		started: time.Now().UTC(),
		totals:  newTally(),
	}
}

// Record adds one ticket to the running totals.
func (c *Collector) Record(ticket model.TicketRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totals.add(ticket)
}

// Snapshot returns the totals recorded so far.
func (c *Collector) Snapshot() *MetricsSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totals.snapshot(c.started, time.Now().UTC())
}

// Summarize builds a snapshot over a finished set of tickets.
func Summarize(tickets []model.TicketRecord) *MetricsSnapshot {
	now := time.Now().UTC()
	t := newTally()
	since := now
	for _, ticket := range tickets {
		t.add(ticket)
		if ticket.CreatedAt.Before(since) {
			since = ticket.CreatedAt
		}
	}
	return t.snapshot(since, now)
}
