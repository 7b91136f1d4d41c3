package listener

// Commands accepted over the wire.
const (
	CommandSolvePath      = "solvepath"
	CommandStep           = "step"
	CommandSolve          = "solve"
	CommandCheck          = "check"
	CommandCancel         = "cancel"
	CommandCount          = "count"
	CommandTrueCandidates = "truecandidates"
)

// dataTypeFPuzzles is the only payload encoding the service accepts.
const dataTypeFPuzzles = "fpuzzles"

// Request is the client message envelope. Cancel requests carry only
// the nonce of the operation to stop; every other command carries the
// puzzle payload in Data.
type Request struct {
	Nonce    int    `json:"nonce"`
	Command  string `json:"command"`
	DataType string `json:"dataType"`
	Data     string `json:"data"`
}

// Server responses are tagged with a "type" field so clients can
// dispatch without tracking which command a nonce belongs to.

// CancelledResponse acknowledges a cancel request.
type CancelledResponse struct {
	Type  string `json:"type"`
	Nonce int    `json:"nonce"`
}

// InvalidResponse reports a request that could not be served, with a
// human readable reason.
type InvalidResponse struct {
	Type    string `json:"type"`
	Nonce   int    `json:"nonce"`
	Message string `json:"message"`
}

// SolvedResponse carries one solution as row-major digits.
type SolvedResponse struct {
	Type     string `json:"type"`
	Nonce    int    `json:"nonce"`
	Solution []int  `json:"solution"`
}

// CountResponse carries a solution count. InProgress marks partial
// totals streamed while the search is still running.
type CountResponse struct {
	Type       string `json:"type"`
	Nonce      int    `json:"nonce"`
	Count      int    `json:"count"`
	InProgress bool   `json:"inProgress"`
}

// TrueCandidatesResponse flags, for every cell and digit in row-major
// order, whether some solution places that digit in that cell.
type TrueCandidatesResponse struct {
	Type                  string `json:"type"`
	Nonce                 int    `json:"nonce"`
	SolutionsPerCandidate []int  `json:"solutionsPerCandidate"`
}

// LogicalCell is one cell's state after logical deduction: the decided
// digit (zero while open) and the remaining candidates.
type LogicalCell struct {
	Value      int   `json:"value"`
	Candidates []int `json:"candidates"`
}

// LogicalResponse reports the board state after running solving
// strategies. IsValid is false when deduction hit a contradiction.
type LogicalResponse struct {
	Type    string        `json:"type"`
	Nonce   int           `json:"nonce"`
	Cells   []LogicalCell `json:"cells"`
	Message string        `json:"message"`
	IsValid bool          `json:"isValid"`
}

func cancelled(nonce int) CancelledResponse {
	return CancelledResponse{Type: "cancelled", Nonce: nonce}
}

func invalid(nonce int, message string) InvalidResponse {
	return InvalidResponse{Type: "invalid", Nonce: nonce, Message: message}
}

func solved(nonce int, solution []int) SolvedResponse {
	return SolvedResponse{Type: "solved", Nonce: nonce, Solution: solution}
}

func countResult(nonce, count int, inProgress bool) CountResponse {
	return CountResponse{Type: "count", Nonce: nonce, Count: count, InProgress: inProgress}
}

func trueCandidatesResult(nonce int, perCandidate []int) TrueCandidatesResponse {
	return TrueCandidatesResponse{Type: "truecandidates", Nonce: nonce, SolutionsPerCandidate: perCandidate}
}

func logicalResult(nonce int, cells []LogicalCell, message string, valid bool) LogicalResponse {
	return LogicalResponse{Type: "logical", Nonce: nonce, Cells: cells, Message: message, IsValid: valid}
}
