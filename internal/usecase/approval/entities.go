package approval

type ApproveInput struct {
	LoanID         string
	ApprovedAmount float64
	InterestRate   float64 // annual, percent
	TermMonths     int
	ActorID        string // 32-char hex, stamped as approved_by
}
