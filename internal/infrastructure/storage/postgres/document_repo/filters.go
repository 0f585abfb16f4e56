package document_repo

import (
	"time"

	"github.com/Masterminds/squirrel"

	"orderflow/internal/core/id"
)

// datePreds builds inclusive date-range predicates on the document date.
func datePreds(from, to *time.Time) []squirrel.Sqlizer {
	var preds []squirrel.Sqlizer
	if from != nil {
		preds = append(preds, squirrel.GtOrEq{"date": *from})
	}
	if to != nil {
		preds = append(preds, squirrel.LtOrEq{"date": *to})
	}
	return preds
}

func eqPred(col string, v *id.ID) []squirrel.Sqlizer {
	if v == nil {
		return nil
	}
	return []squirrel.Sqlizer{squirrel.Eq{col: *v}}
}
