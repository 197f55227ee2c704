// Package review projects pending extraction previews into the two review lanes and
// keeps the reviewer's selection state.
package review

import (
	"github.com/esgdesk/extraction-review/internal/confidence"
	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/esgdesk/extraction-review/internal/validation"
)

// Item is a pending preview annotated with everything the reviewer sees in the queue.
type Item struct {
	Preview           model.ExtractionPreview
	AverageConfidence float64
	Band              confidence.Band
	DirectApprove     bool
	NeedsReview       []string
	ValidationErrors  validation.Errors
}

func (i Item) HighConfidence() bool {
	return confidence.IsHighConfidence(i.AverageConfidence)
}

type Queue struct {
	HighConfidence []Item
	Individual     []Item
}

func (q Queue) Len() int {
	return len(q.HighConfidence) + len(q.Individual)
}

// Items returns both lanes, high-confidence first.
func (q Queue) Items() []Item {
	items := make([]Item, 0, q.Len())
	items = append(items, q.HighConfidence...)
	return append(items, q.Individual...)
}

func NewItem(p model.ExtractionPreview) Item {
	scores := p.Scores()
	avg := confidence.Average(scores)
	return Item{
		Preview:           p,
		AverageConfidence: avg,
		Band:              confidence.Classify(avg),
		DirectApprove:     confidence.CanDirectApprove(avg),
		NeedsReview:       confidence.FieldsNeedingReview(scores),
		ValidationErrors:  validation.Validate(p.TargetTable, p.Fields()),
	}
}

// BuildQueue splits previews into the two lanes in a single pass. Both lanes keep the
// order of the input, so a newest-first fetch stays newest-first.
func BuildQueue(previews []model.ExtractionPreview) Queue {
	q := Queue{HighConfidence: []Item{}, Individual: []Item{}}
	for _, p := range previews {
		item := NewItem(p)
		if item.HighConfidence() {
			q.HighConfidence = append(q.HighConfidence, item)
		} else {
			q.Individual = append(q.Individual, item)
		}
	}
	return q
}
