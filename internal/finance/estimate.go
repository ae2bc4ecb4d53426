// Package finance estimates what a pathway costs, the aid a student can expect,
// and the return on the education over ten years.
package finance

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/career-pathway/internal/types"
)

//go:embed aid.json
var embeddedAid []byte

// DefaultEFC is the expected family contribution assumed when the caller gives none.
const DefaultEFC = 3000

// DefaultStartingSalary is used for careers that match no salary keyword.
const DefaultStartingSalary = 60000

// Tuition for programs at the college, by credential.
const (
	collegeAssociateCost   = 7200
	collegeCertificateCost = 3000
	collegeBachelorCost    = 13500
	externalBachelorCost   = 13000
	otherExamCost          = 300
)

// Earnings growth relative to the starting salary.
const (
	year5Growth  = 1.35
	year10Growth = 1.97
)

// examFees are checked in order; the first pattern found in the exam name sets the fee.
var examFees = []struct {
	pattern *regexp.Regexp
	fee     float64
}{
	{regexp.MustCompile(`nclex`), 200},
	{regexp.MustCompile(`\bpe exam\b|principles and practice`), 375},
	{regexp.MustCompile(`\bfe exam\b|fundamentals`), 175},
	{regexp.MustCompile(`\ba\.r\.e\.|\bare exam\b|architect registration`), 1200},
	{regexp.MustCompile(`\bbar exam\b`), 1000},
	{regexp.MustCompile(`\bcpa\b`), 800},
}

// careerSalaries are checked in order against the lowercased career name.
var careerSalaries = []struct {
	keyword string
	salary  float64
}{
	{"engineer", 75000},
	{"nurse", 72000},
	{"architect", 80000},
	{"teacher", 50000},
	{"accountant", 55000},
	{"lawyer", 120000},
	{"doctor", 200000},
	{"software", 85000},
	{"developer", 85000},
	{"mechanical", 75000},
	{"civil", 70000},
	{"electrical", 78000},
	{"computer", 85000},
}

// PellBracket awards Grant to every EFC up to and including MaxEFC.
type PellBracket struct {
	MaxEFC float64 `json:"max_efc"`
	Grant  float64 `json:"pell_grant"`
}

// AidTable holds the yearly aid amounts used by the estimator.
type AidTable struct {
	PellBrackets []PellBracket `json:"pell_brackets"`
	WorkStudy    float64       `json:"work_study"`
	StateGrant   float64       `json:"state_grant"`
	Loans        float64       `json:"loans"`
}

var (
	defaultAid     *AidTable
	defaultAidErr  error
	defaultAidOnce sync.Once
)

// DefaultAidTable returns the embedded aid table.
func DefaultAidTable() (*AidTable, error) {
	defaultAidOnce.Do(func() {
		defaultAid, defaultAidErr = ParseAidTable(embeddedAid)
	})
	return defaultAid, defaultAidErr
}

// ParseAidTable decodes an aid table and sorts its brackets by MaxEFC.
func ParseAidTable(data []byte) (*AidTable, error) {
	var t AidTable
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode aid table: %w", err)
	}
	if len(t.PellBrackets) == 0 {
		return nil, fmt.Errorf("aid table must define at least one pell bracket")
	}
	for _, b := range t.PellBrackets {
		if b.Grant < 0 {
			return nil, fmt.Errorf("pell grant for max_efc %.0f must not be negative", b.MaxEFC)
		}
	}
	sort.SliceStable(t.PellBrackets, func(i, j int) bool {
		return t.PellBrackets[i].MaxEFC < t.PellBrackets[j].MaxEFC
	})
	return &t, nil
}

// PellGrant returns the grant of the first bracket covering efc, or 0.
func (t *AidTable) PellGrant(efc float64) float64 {
	for _, b := range t.PellBrackets {
		if efc <= b.MaxEFC {
			return b.Grant
		}
	}
	return 0
}

// Estimator prices pathway steps for one college.
type Estimator struct {
	aid     *AidTable
	college []string
}

// NewEstimator creates an Estimator. A step's level names the college when it
// contains any of collegeNames; blank names are ignored.
func NewEstimator(aid *AidTable, collegeNames ...string) *Estimator {
	e := &Estimator{aid: aid}
	for _, name := range collegeNames {
		if name = strings.TrimSpace(name); name != "" {
			e.college = append(e.college, name)
		}
	}
	return e
}

func (e *Estimator) atCollege(level string) bool {
	for _, name := range e.college {
		if strings.Contains(level, name) {
			return true
		}
	}
	return false
}

// StepCost returns the out-of-pocket cost of a single step.
// Transfers and internships are free; unknown degrees cost nothing.
func (e *Estimator) StepCost(step types.PathwayStep) float64 {
	name := strings.ToLower(step.Name)

	switch step.Type {
	case types.StepDegree:
		if e.atCollege(step.Level) {
			switch {
			case strings.Contains(name, "associate"):
				return collegeAssociateCost
			case strings.Contains(name, "certificate"):
				return collegeCertificateCost
			case strings.Contains(name, "bachelor"):
				return collegeBachelorCost
			}
			return 0
		}
		if strings.Contains(name, "b.s") || strings.Contains(name, "b.a") || strings.Contains(name, "bachelor") {
			return externalBachelorCost
		}
		return 0
	case types.StepExam:
		for _, f := range examFees {
			if f.pattern.MatchString(name) {
				return f.fee
			}
		}
		return otherExamCost
	default:
		return 0
	}
}

// Aid returns the aid breakdown for a student with the given EFC.
func (e *Estimator) Aid(efc float64) types.AidBreakdown {
	if e.aid == nil {
		return types.AidBreakdown{}
	}
	aid := types.AidBreakdown{
		PellGrant:  e.aid.PellGrant(efc),
		WorkStudy:  e.aid.WorkStudy,
		StateGrant: e.aid.StateGrant,
		Loans:      e.aid.Loans,
	}
	aid.Total = aid.PellGrant + aid.WorkStudy + aid.StateGrant + aid.Loans
	return aid
}

// StartingSalary returns the first-year salary for a career by keyword.
func StartingSalary(career string) float64 {
	lower := strings.ToLower(career)
	for _, c := range careerSalaries {
		if strings.Contains(lower, c.keyword) {
			return c.salary
		}
	}
	return DefaultStartingSalary
}

// ProjectROI projects ten-year earnings from salary against netCost.
// The ten-year total counts year 1, year 5, year 10, and seven more years at the starting salary.
func ProjectROI(salary, netCost float64) types.ROI {
	roi := types.ROI{
		StartingSalary: salary,
		Year1:          salary,
		Year5:          salary * year5Growth,
		Year10:         salary * year10Growth,
	}
	roi.TenYearTotal = roi.Year1 + roi.Year5 + roi.Year10 + salary*7

	if salary <= 0 || netCost <= 0 {
		return roi
	}
	roi.Percentage = int(math.Round((roi.TenYearTotal - netCost) / netCost * 100))
	roi.BreakEvenMonths = int(math.Round(netCost / (salary / 12)))
	return roi
}

// Estimate prices every step, subtracts aid, and projects the return.
// A negative efc is treated as zero.
func (e *Estimator) Estimate(career string, steps []types.PathwayStep, efc float64) types.CostEstimate {
	efc = math.Max(0, efc)
	est := types.CostEstimate{
		Career: career,
		Steps:  make([]types.StepCost, 0, len(steps)),
		EFC:    efc,
	}

	for _, step := range steps {
		cost := e.StepCost(step)
		est.Steps = append(est.Steps, types.StepCost{Name: step.Name, Type: step.Type, Cost: cost})
		est.TotalCost += cost
	}

	est.Aid = e.Aid(efc)
	est.NetCost = math.Max(0, est.TotalCost-est.Aid.Total)
	est.ROI = ProjectROI(StartingSalary(career), est.NetCost)
	return est
}
