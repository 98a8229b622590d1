package settlement

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// step is one (action, compensating-action) pair of a settlement sequence.
// compensate may be nil for steps with nothing to undo.
type step struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// runSaga executes steps in order. On the first failure it runs the
// compensations of every completed step in reverse order and returns the
// original error wrapped with the failing step's name.
//
// Compensation is best-effort: a compensation that itself fails is logged
// with a reconciliation marker so the discrepancy can be repaired
// out-of-band, and never masks the original failure.
func runSaga(ctx context.Context, log zerolog.Logger, op string, steps []step) error {
	done := make([]step, 0, len(steps))
	for _, st := range steps {
		if err := st.run(ctx); err != nil {
			for i := len(done) - 1; i >= 0; i-- {
				c := done[i]
				if c.compensate == nil {
					continue
				}
				if cerr := c.compensate(ctx); cerr != nil {
					log.Error().
						Str("operation", op).
						Str("step", c.name).
						Str("failed_step", st.name).
						Err(cerr).
						Bool("reconciliation_required", true).
						Msg("compensation failed; balances need out-of-band repair")
				}
			}
			return fmt.Errorf("%s: %s: %w", op, st.name, err)
		}
		done = append(done, st)
	}
	return nil
}
