package types

// StepCost is the estimated out-of-pocket cost of one pathway step.
type StepCost struct {
	Name string   `json:"name"`
	Type StepType `json:"type"`
	Cost float64  `json:"cost"`
}

// AidBreakdown lists the financial aid a student can expect for one award year.
type AidBreakdown struct {
	PellGrant  float64 `json:"pellGrant"`
	WorkStudy  float64 `json:"workStudy"`
	StateGrant float64 `json:"stateGrant"`
	Loans      float64 `json:"loans"`
	Total      float64 `json:"total"`
}

// ROI projects earnings against the net cost of a pathway.
// Percentage and BreakEvenMonths are zero when the pathway costs nothing after aid.
type ROI struct {
	StartingSalary  float64 `json:"startingSalary"`
	Year1           float64 `json:"year1"`
	Year5           float64 `json:"year5"`
	Year10          float64 `json:"year10"`
	TenYearTotal    float64 `json:"tenYearTotal"`
	Percentage      int     `json:"roiPercentage"`
	BreakEvenMonths int     `json:"breakEvenMonths"`
}

// CostEstimate is the body returned by POST /estimate-cost.
type CostEstimate struct {
	Career    string       `json:"career"`
	Steps     []StepCost   `json:"steps"`
	TotalCost float64      `json:"totalCost"`
	EFC       float64      `json:"efc"`
	Aid       AidBreakdown `json:"aid"`
	NetCost   float64      `json:"netCost"`
	ROI       ROI          `json:"roi"`
}
