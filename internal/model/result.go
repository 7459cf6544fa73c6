package model

// ProcessingResult is the uniform output unit of the message pipeline.
// Exactly one of Data, Text or Err is populated.
type ProcessingResult struct {
	Data FinancialAction
	Text string
	Err  string
}

// NewDataResult wraps a financial action.
func NewDataResult(a FinancialAction) ProcessingResult {
	return ProcessingResult{Data: a}
}

// NewTextResult wraps a plain reply.
func NewTextResult(text string) ProcessingResult {
	return ProcessingResult{Text: text}
}

// NewErrorResult wraps a user-facing error message.
func NewErrorResult(msg string) ProcessingResult {
	return ProcessingResult{Err: msg}
}

// IsData reports whether r carries a financial action.
func (r ProcessingResult) IsData() bool { return r.Data != nil }

// IsError reports whether r carries an error message.
func (r ProcessingResult) IsError() bool { return r.Err != "" }

// populated counts how many of the three fields are set.
func (r ProcessingResult) populated() int {
	n := 0
	if r.Data != nil {
		n++
	}
	if r.Text != "" {
		n++
	}
	if r.Err != "" {
		n++
	}
	return n
}

// WellFormed reports whether exactly one field is set.
func (r ProcessingResult) WellFormed() bool {
	return r.populated() == 1
}
