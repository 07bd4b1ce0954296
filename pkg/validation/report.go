package validation

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RecordFailure pairs a skipped record's batch index with the validation
// error that disqualified it.
type RecordFailure struct {
	Index int
	Err   error
}

// Report summarizes a screened batch. BatchID correlates the report with
// the per-record warnings logged while screening.
type Report struct {
	BatchID  string
	Total    int
	Skipped  int
	Failures []RecordFailure
}

// SkipRatio returns the fraction of records skipped, 0 for an empty batch.
func (r *Report) SkipRatio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Skipped) / float64(r.Total)
}

// Screen validates each record against the schema and splits the batch into
// survivors and failures instead of aborting on the first bad record.
// Surviving records keep their relative order. One warning is logged per
// skipped record, tagged with the report's batch id so the lines can be
// grouped downstream.
//
// Aggregate metrics that tolerate partial invalidity (endemism, functional
// richness) run on the survivors and report the skip count alongside the
// value.
func Screen(records []Record, schema Schema, log zerolog.Logger) (*Report, []Record) {
	report := &Report{
		BatchID: uuid.NewString(),
		Total:   len(records),
	}
	valid := make([]Record, 0, len(records))
	for i, rec := range records {
		if err := Check(i, rec, schema); err != nil {
			report.Skipped++
			report.Failures = append(report.Failures, RecordFailure{Index: i, Err: err})
			log.Warn().
				Str("batch_id", report.BatchID).
				Int("record", i).
				Err(err).
				Msg("skipping invalid record")
			continue
		}
		valid = append(valid, rec)
	}
	return report, valid
}
