package finance

import (
	"testing"

	"github.com/jonathan/career-pathway/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEstimator(t *testing.T) *Estimator {
	t.Helper()
	aid, err := DefaultAidTable()
	require.NoError(t, err)
	return NewEstimator(aid, "MDC", "Miami Dade College")
}

func TestStepCost(t *testing.T) {
	e := newTestEstimator(t)

	tests := []struct {
		name string
		step types.PathwayStep
		want float64
	}{
		{"college associate", types.PathwayStep{Type: types.StepDegree, Level: "Associate (MDC)", Name: "Associate in Science in Nursing"}, 7200},
		{"college by full name", types.PathwayStep{Type: types.StepDegree, Level: "Miami Dade College", Name: "Associate in Arts in Biology"}, 7200},
		{"college certificate", types.PathwayStep{Type: types.StepDegree, Level: "Certificate (MDC)", Name: "Certificate in Web Development"}, 3000},
		{"college bachelor", types.PathwayStep{Type: types.StepDegree, Level: "Bachelor's (MDC)", Name: "Bachelor of Science in Nursing"}, 13500},
		{"college unknown credential", types.PathwayStep{Type: types.StepDegree, Level: "MDC", Name: "Honors Program"}, 0},
		{"external bachelor", types.PathwayStep{Type: types.StepDegree, Level: "Bachelor's (FIU)", Name: "Bachelor of Science in Civil Engineering"}, 13000},
		{"external b.s.", types.PathwayStep{Type: types.StepDegree, Level: "University", Name: "B.S. in Accounting"}, 13000},
		{"external master", types.PathwayStep{Type: types.StepDegree, Level: "Graduate", Name: "Master of Architecture"}, 0},
		{"transfer", types.PathwayStep{Type: types.StepTransfer, Level: "University", Name: "Transfer to FIU"}, 0},
		{"internship", types.PathwayStep{Type: types.StepInternship, Level: "Professional", Name: "Hospital internship"}, 0},
		{"nclex", types.PathwayStep{Type: types.StepExam, Name: "NCLEX-RN"}, 200},
		{"pe exam", types.PathwayStep{Type: types.StepExam, Name: "PE Exam (Principles and Practice of Engineering)"}, 375},
		{"fe exam", types.PathwayStep{Type: types.StepExam, Name: "Fundamentals of Engineering (FE) Exam"}, 175},
		{"are", types.PathwayStep{Type: types.StepExam, Name: "Architect Registration Examination (A.R.E.)"}, 1200},
		{"bar", types.PathwayStep{Type: types.StepExam, Name: "Florida Bar Exam"}, 1000},
		{"cpa", types.PathwayStep{Type: types.StepExam, Name: "CPA Exam"}, 800},
		{"word are is not the A.R.E.", types.PathwayStep{Type: types.StepExam, Name: "Exams that are required for licensure"}, 300},
		{"other exam", types.PathwayStep{Type: types.StepExam, Name: "CompTIA Security+"}, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.StepCost(tt.step))
		})
	}
}

func TestPellGrant_Brackets(t *testing.T) {
	aid, err := DefaultAidTable()
	require.NoError(t, err)

	assert.Equal(t, 7395.0, aid.PellGrant(0))
	assert.Equal(t, 6395.0, aid.PellGrant(1000))
	assert.Equal(t, 4395.0, aid.PellGrant(2500))
	assert.Equal(t, 767.0, aid.PellGrant(6656))
	assert.Equal(t, 0.0, aid.PellGrant(10000))
}

func TestParseAidTable_SortsBrackets(t *testing.T) {
	aid, err := ParseAidTable([]byte(`{"pell_brackets":[{"max_efc":500,"pell_grant":100},{"max_efc":100,"pell_grant":900}]}`))
	require.NoError(t, err)

	assert.Equal(t, 900.0, aid.PellGrant(50))
	assert.Equal(t, 100.0, aid.PellGrant(300))
}

func TestParseAidTable_Errors(t *testing.T) {
	_, err := ParseAidTable([]byte(`{`))
	assert.Error(t, err)

	_, err = ParseAidTable([]byte(`{"pell_brackets":[]}`))
	assert.Error(t, err)

	_, err = ParseAidTable([]byte(`{"pell_brackets":[{"max_efc":0,"pell_grant":-1}]}`))
	assert.Error(t, err)
}

func TestAid(t *testing.T) {
	e := newTestEstimator(t)

	aid := e.Aid(DefaultEFC)
	assert.Equal(t, 4395.0, aid.PellGrant)
	assert.Equal(t, 2000.0, aid.WorkStudy)
	assert.Equal(t, 2000.0, aid.StateGrant)
	assert.Equal(t, 5500.0, aid.Loans)
	assert.Equal(t, 13895.0, aid.Total)

	assert.Equal(t, types.AidBreakdown{}, NewEstimator(nil).Aid(0))
}

func TestStartingSalary(t *testing.T) {
	assert.Equal(t, 72000.0, StartingSalary("Registered Nurse"))
	assert.Equal(t, 75000.0, StartingSalary("Software Engineer"))
	assert.Equal(t, 85000.0, StartingSalary("Web Developer"))
	assert.Equal(t, 80000.0, StartingSalary("Architect"))
	assert.Equal(t, float64(DefaultStartingSalary), StartingSalary("Chef"))
	assert.Equal(t, float64(DefaultStartingSalary), StartingSalary(""))
}

func TestProjectROI(t *testing.T) {
	roi := ProjectROI(60000, 12000)

	assert.Equal(t, 60000.0, roi.Year1)
	assert.InDelta(t, 81000, roi.Year5, 0.001)
	assert.InDelta(t, 118200, roi.Year10, 0.001)
	assert.InDelta(t, 679200, roi.TenYearTotal, 0.001)
	assert.Equal(t, 5560, roi.Percentage)
	assert.Equal(t, 2, roi.BreakEvenMonths)
}

func TestProjectROI_NoNetCost(t *testing.T) {
	roi := ProjectROI(72000, 0)

	assert.Equal(t, 72000.0, roi.StartingSalary)
	assert.Zero(t, roi.Percentage)
	assert.Zero(t, roi.BreakEvenMonths)
}

func TestEstimate(t *testing.T) {
	e := newTestEstimator(t)
	steps := []types.PathwayStep{
		{Type: types.StepDegree, Level: "Associate (MDC)", Name: "Associate in Arts in Engineering - Civil"},
		{Type: types.StepTransfer, Level: "University", Name: "Transfer to FIU"},
		{Type: types.StepDegree, Level: "Bachelor's (FIU)", Name: "Bachelor of Science in Civil Engineering"},
		{Type: types.StepExam, Level: "Licensure", Name: "FE Exam"},
		{Type: types.StepExam, Level: "Licensure", Name: "PE Exam"},
	}

	est := e.Estimate("Civil Engineer", steps, 10000)

	require.Len(t, est.Steps, 5)
	assert.Equal(t, 7200.0, est.Steps[0].Cost)
	assert.Equal(t, 20750.0, est.TotalCost)
	assert.Equal(t, 9500.0, est.Aid.Total)
	assert.Equal(t, 11250.0, est.NetCost)
	assert.Equal(t, 75000.0, est.ROI.StartingSalary)
	assert.Equal(t, 2, est.ROI.BreakEvenMonths)
}

func TestEstimate_NetCostNeverNegative(t *testing.T) {
	e := newTestEstimator(t)
	steps := []types.PathwayStep{{Type: types.StepExam, Name: "NCLEX-RN"}}

	est := e.Estimate("Nurse", steps, -50)

	assert.Equal(t, 0.0, est.EFC)
	assert.Equal(t, 200.0, est.TotalCost)
	assert.Equal(t, 0.0, est.NetCost)
	assert.Zero(t, est.ROI.Percentage)
}
