package analysis

import (
	"time"

	"github.com/pkg/errors"

	"github.com/swaplens/analytics-backend/internal/model"
)

// AverageDurationsRequest carries the query parameters of the
// average-durations endpoint. Timestamps are RFC3339.
type AverageDurationsRequest struct {
	SourceChain      string `form:"source_chain" binding:"required"`
	DestinationChain string `form:"destination_chain" binding:"required"`
	StartTime        string `form:"start_time" binding:"required"`
	EndTime          string `form:"end_time" binding:"required"`
}

func (r *AverageDurationsRequest) toQuery() (model.DurationQuery, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return model.DurationQuery{}, errors.Wrap(err, "invalid start_time, expected RFC3339")
	}

	endTime, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return model.DurationQuery{}, errors.Wrap(err, "invalid end_time, expected RFC3339")
	}

	if endTime.Before(startTime) {
		return model.DurationQuery{}, errors.New("end_time must not be before start_time")
	}

	return model.DurationQuery{
		SourceChain:      model.Chain(r.SourceChain),
		DestinationChain: model.Chain(r.DestinationChain),
		StartTime:        startTime,
		EndTime:          endTime,
	}, nil
}
