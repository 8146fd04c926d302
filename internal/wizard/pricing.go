package wizard

import "github.com/spc-registrar/portal-api/internal/models"

// Transcript pricing varies by educational level; every other document uses
// its configured base price.
const (
	transcriptDocumentName   = "Transcript of Records"
	transcriptBasePrice      = 70
	transcriptUndergradPrice = 60
	transcriptGraduatePrice  = 122
)

// AdjustedPrice returns the effective unit price for a line item given the
// requester's educational level.
func AdjustedPrice(doc models.DocumentLineItem, level models.EducationalLevel) float64 {
	if doc.Name == transcriptDocumentName {
		switch level {
		case models.LevelUndergraduate:
			return transcriptUndergradPrice
		case models.LevelGraduate:
			return transcriptGraduatePrice
		default:
			return transcriptBasePrice
		}
	}
	if doc.Price <= 0 {
		return 0
	}
	return doc.Price
}

// Total computes the running total over checked line items with a positive
// quantity. It is a pure function of the draft and recomputed on demand.
func Total(draft *models.RequestDraft) float64 {
	var total float64
	for _, doc := range draft.Documents {
		if !doc.Checked || doc.Quantity <= 0 {
			continue
		}
		total += AdjustedPrice(doc, draft.EducationalLevel) * float64(doc.Quantity)
	}
	return total
}
