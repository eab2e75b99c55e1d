package cmd

import (
	"fmt"

	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
)

// ScoreThresholdError signals that the overall score fell below --min-score.
type ScoreThresholdError struct {
	Score int
	Min   int
}

func (e *ScoreThresholdError) Error() string {
	return fmt.Sprintf("overall score %d is below the required minimum %d", e.Score, e.Min)
}

func (e *ScoreThresholdError) Unwrap() error {
	return sharederrors.ErrScoreBelowThreshold
}
