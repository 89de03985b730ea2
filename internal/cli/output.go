package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	incomingsvc "github.com/chainsafe/ksef-middleware/pkg/incoming/service"
	"github.com/chainsafe/ksef-middleware/pkg/ksef"
	"github.com/chainsafe/ksef-middleware/pkg/submission"
	submissionsvc "github.com/chainsafe/ksef-middleware/pkg/submission/service"
)

type output struct {
	format string
	w      io.Writer
}

func (o *output) json(v any) error {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (o *output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *output) fetchResult(res *incomingsvc.FetchResult) error {
	if o.format == "json" {
		return o.json(res)
	}
	o.printf("outcome: %s\n", res.Outcome)
	if st := res.State; st != nil {
		o.printf("status: %s\n", st.FetchStatus)
		if st.FetchJobReference != "" {
			o.printf("job: %s\n", st.FetchJobReference)
		}
		if st.ContinuationDate != nil {
			o.printf("continuation: %s\n", st.ContinuationDate.Format(time.RFC3339))
		}
	}
	if res.Outcome == incomingsvc.OutcomeCompleted {
		o.printf("new: %d existing: %d total: %d\n", res.New, res.Existing, res.Total)
	}
	if res.RetryAfterSeconds > 0 {
		o.printf("retry after: %ds\n", res.RetryAfterSeconds)
	}
	o.ksefError(res.Error)
	return nil
}

func (o *output) submissionResult(res *submissionsvc.Result) error {
	if o.format == "json" {
		return o.json(res)
	}
	o.printf("status: %s\n", res.Status)
	if s := res.Submission; s != nil {
		o.submissionLine(s)
	}
	o.ksefError(res.Error)
	return nil
}

func (o *output) submissions(list []*submission.Submission) error {
	if o.format == "json" {
		return o.json(list)
	}
	if len(list) == 0 {
		o.printf("no submissions need attention\n")
		return nil
	}
	for _, s := range list {
		o.submissionLine(s)
	}
	return nil
}

func (o *output) submissionLine(s *submission.Submission) {
	o.printf("%s invoice=%d %s", s.ID, s.InvoiceID, s.Status)
	if s.KSeFNumber != "" {
		o.printf(" ksef=%s", s.KSeFNumber)
	}
	if s.OfflineDeadline != nil {
		o.printf(" deadline=%s", s.OfflineDeadline.Format(time.RFC3339))
	}
	o.printf("\n")
}

func (o *output) ksefError(e *ksef.Error) {
	if e == nil {
		return
	}
	o.printf("error: %s %s: %s\n", e.Kind, e.Code, e.Message)
}
