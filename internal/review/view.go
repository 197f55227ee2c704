package review

import (
	"sort"

	"github.com/esgdesk/extraction-review/internal/confidence"
	"github.com/google/uuid"
)

type View string

const (
	ViewSummary View = "summary"
	ViewRaw     View = "raw"
)

// ParseView defaults to the summary for anything but "raw".
func ParseView(v string) View {
	if View(v) == ViewRaw {
		return ViewRaw
	}
	return ViewSummary
}

// For returns the raw view for an expanded preview and v for every other one.
func (v View) For(id uuid.UUID, expanded Expansion) View {
	if expanded.Has(id) {
		return ViewRaw
	}
	return v
}

// FieldView is one extracted field as presented in the summary.
type FieldView struct {
	Name        string
	Value       any
	Normalized  any
	Confidence  float64
	NeedsReview bool
	Error       string
}

// Summarize lists the fields of an item sorted by name. Fields that only have a
// confidence score are listed with a nil value so missing data stays visible.
func Summarize(item Item) []FieldView {
	fields := item.Preview.Fields()
	scores := item.Preview.Scores()
	normalized := item.Preview.SuggestedMappings.Data().NormalizedFields

	names := make(map[string]struct{}, len(fields))
	for k := range fields {
		names[k] = struct{}{}
	}
	for k := range scores {
		names[k] = struct{}{}
	}
	for k := range item.ValidationErrors {
		names[k] = struct{}{}
	}

	views := make([]FieldView, 0, len(names))
	for name := range names {
		score, scored := scores[name]
		v := FieldView{
			Name:       name,
			Value:      fields[name],
			Normalized: normalized[name],
			Confidence: confidence.Normalize(score),
			Error:      string(item.ValidationErrors[name]),
		}
		v.NeedsReview = scored && !confidence.AtLeast(v.Confidence, confidence.ReviewThreshold)
		views = append(views, v)
	}

	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views
}
