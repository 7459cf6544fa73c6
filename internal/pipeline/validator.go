package pipeline

import (
	"fmt"

	"github.com/Veraticus/plata/internal/model"
)

// Validator checks a result list before it leaves the pipeline. It never
// modifies the list, so running it twice gives the same answer.
type Validator struct{}

// Validate returns ErrValidation for the first result that has not exactly
// one field populated, carries an invalid action, or carries a zero-amount
// action that should have been filtered upstream.
func (Validator) Validate(results []model.ProcessingResult) error {
	for i, r := range results {
		if !r.WellFormed() {
			return fmt.Errorf("%w: result %d must carry exactly one of data, text or error", ErrValidation, i)
		}
		if r.Data == nil {
			continue
		}
		if err := r.Data.Validate(); err != nil {
			return fmt.Errorf("%w: result %d: %w", ErrValidation, i, err)
		}
		if model.Negligible(r.Data) {
			return fmt.Errorf("%w: result %d: zero-amount %s", ErrValidation, i, r.Data.Type())
		}
	}
	return nil
}
