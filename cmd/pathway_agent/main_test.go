package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/career-pathway/internal/llm"
	"github.com/jonathan/career-pathway/internal/programs"
	"github.com/jonathan/career-pathway/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv clears every setting the commands read so tests never depend on a
// developer's .env.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "GEMINI_MODEL", "CATALOG_PATH", "PROGRAM_BASE_URL", "CORS_ALLOWED_ORIGINS", "PORT", "UPSTREAM_TIMEOUT"} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_MODE", "prod")
}

// runCommand executes the root command with args and returns its standard output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name string, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "resolve-program", "pathway", "sync-catalog", "estimate-cost"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestResolveProgramCommand(t *testing.T) {
	isolateEnv(t)

	out, err := runCommand(t, "resolve-program", "--json", "--level", "A.S. (MDC)", "Associate in Science in Nursing")
	require.NoError(t, err)

	var resp types.ResolveProgramResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "https://www.mdc.edu/nursing/", resp.URL)
	assert.True(t, resp.Linked)
	assert.Equal(t, programs.TierAssociateScience, resp.Tier)
}

func TestResolveProgramCommand_Boxed(t *testing.T) {
	isolateEnv(t)

	out, err := runCommand(t, "resolve-program", "Bachelor", "of", "Science", "in", "Underwater", "Basket", "Weaving")
	require.NoError(t, err)
	assert.Contains(t, out, "PROGRAM LINK")
	assert.Contains(t, out, "https://www.mdc.edu/underwaterbasketweaving/")
	assert.Contains(t, out, "synthesized")
}

func TestResolveProgramCommand_ProgramBaseURL(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PROGRAM_BASE_URL", "https://catalog.example.edu/programs")

	out, err := runCommand(t, "resolve-program", "--json", "Associate in Arts in Biology")
	require.NoError(t, err)

	var resp types.ResolveProgramResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "https://catalog.example.edu/programs/biology/", resp.URL)
}

func TestResolveProgramCommand_Invalid(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing name", args: []string{"resolve-program"}, wantErr: "requires at least 1 arg"},
		{name: "blank name", args: []string{"resolve-program", "  "}, wantErr: "invalid name"},
		{name: "unknown type", args: []string{"resolve-program", "--type", "party", "Nursing"}, wantErr: "invalid type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEstimateCostCommand(t *testing.T) {
	isolateEnv(t)
	in := writeFile(t, "pathway.json", types.Pathway{
		Title: "Pathway to Registered Nurse",
		Steps: []types.PathwayStep{
			{Type: types.StepDegree, Level: "A.S. (MDC)", Name: "Associate in Science in Nursing", Description: "Nursing core."},
			{Type: types.StepExam, Level: "License", Name: "NCLEX-RN", Description: "Licensure exam."},
		},
	})

	out, err := runCommand(t, "estimate-cost", "--in", in, "--career", "Registered Nurse", "--efc", "0", "--json")
	require.NoError(t, err)

	var est types.CostEstimate
	require.NoError(t, json.Unmarshal([]byte(out), &est))
	assert.Equal(t, "Registered Nurse", est.Career)
	assert.Equal(t, 7400.0, est.TotalCost)
	assert.Equal(t, 7395.0, est.Aid.PellGrant)
	assert.Equal(t, 0.0, est.NetCost)
	assert.Equal(t, 72000.0, est.ROI.StartingSalary)
}

func TestEstimateCostCommand_DefaultsToPathwayTitle(t *testing.T) {
	isolateEnv(t)
	in := writeFile(t, "pathway.json", types.Pathway{
		Title: "Pathway to Civil Engineer",
		Steps: []types.PathwayStep{
			{Type: types.StepExam, Level: "License", Name: "FE Exam", Description: "Fundamentals of Engineering."},
		},
	})

	out, err := runCommand(t, "estimate-cost", "--in", in)
	require.NoError(t, err)
	assert.Contains(t, out, "COST ESTIMATE: PATHWAY TO CIVIL ENGINEER")
	assert.Contains(t, out, "$175")
}

func TestEstimateCostCommand_Invalid(t *testing.T) {
	isolateEnv(t)
	empty := writeFile(t, "empty.json", types.Pathway{Title: "Nothing"})
	garbage := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("not json"), 0644))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing input flag", args: []string{"estimate-cost"}, wantErr: "required flag"},
		{name: "missing file", args: []string{"estimate-cost", "--in", filepath.Join(t.TempDir(), "nope.json")}, wantErr: "failed to read input file"},
		{name: "not JSON", args: []string{"estimate-cost", "--in", garbage}, wantErr: "failed to parse pathway JSON"},
		{name: "no steps", args: []string{"estimate-cost", "--in", empty}, wantErr: "invalid steps"},
		{name: "negative efc", args: []string{"estimate-cost", "--in", empty, "--efc", "-1"}, wantErr: "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPathwayCommand_Server(t *testing.T) {
	isolateEnv(t)
	var gotCareer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req types.PathwayRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotCareer = req.Career
		_ = json.NewEncoder(w).Encode(types.Pathway{
			Title: "Pathway to Nurse",
			Steps: []types.PathwayStep{
				{Type: types.StepDegree, Level: "A.S. (MDC)", Name: "Associate in Science in Nursing", Description: "Core.", Link: "https://www.mdc.edu/nursing/"},
			},
		})
	}))
	defer srv.Close()

	out, err := runCommand(t, "pathway", "--server", srv.URL, "--json", "Registered", "Nurse")
	require.NoError(t, err)
	assert.Equal(t, "Registered Nurse", gotCareer)

	var pathway types.Pathway
	require.NoError(t, json.Unmarshal([]byte(out), &pathway))
	assert.Equal(t, "Pathway to Nurse", pathway.Title)
	require.Len(t, pathway.Steps, 1)
	assert.Equal(t, "https://www.mdc.edu/nursing/", pathway.Steps[0].Link)
}

func TestPathwayCommand_ServerError(t *testing.T) {
	isolateEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Career parameter is required."}`))
	}))
	defer srv.Close()

	_, err := runCommand(t, "pathway", "--server", srv.URL, "--retry-delay", "1ms", "Nurse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server returned 400")
}

func TestPathwayCommand_MissingAPIKey(t *testing.T) {
	isolateEnv(t)

	_, err := runCommand(t, "pathway", "Nurse")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestSyncCatalogCommand(t *testing.T) {
	isolateEnv(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/bachelors", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<main>
			<a href="/nursing/">Bachelor of Science in Nursing</a>
			<a href="/cybersecurity/">Bachelor of Science in Cybersecurity</a>
		</main>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	t.Setenv("CATALOG_PATH", writeFile(t, "catalog.json", programs.Catalog{
		College:   "Test College",
		ShortName: "TC",
		BaseURL:   srv.URL + "/",
		Tiers: []programs.Tier{
			{Name: programs.TierBachelors, Source: srv.URL + "/bachelors"},
			{Name: "manual", Entries: []programs.Entry{{Match: "welding", Slug: "welding"}}},
		},
	}))
	outFile := filepath.Join(t.TempDir(), "synced.json")

	out, err := runCommand(t, "sync-catalog", "--out", outFile)
	require.NoError(t, err)
	assert.Contains(t, out, "CATALOG: TEST COLLEGE")
	assert.Contains(t, out, "Output: "+outFile)

	synced, err := programs.LoadCatalog(outFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bachelor of Science in Nursing", "Bachelor of Science in Cybersecurity"}, synced.Bachelors)
	require.Len(t, synced.Tiers, 2)
	assert.Len(t, synced.Tiers[0].Entries, 2)
	assert.Equal(t, []programs.Entry{{Match: "welding", Slug: "welding"}}, synced.Tiers[1].Entries)
}

func TestSyncCatalogCommand_RequiresOut(t *testing.T) {
	isolateEnv(t)

	_, err := runCommand(t, "sync-catalog")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestModelConfig(t *testing.T) {
	def := llm.DefaultConfig()

	pinned := modelConfig("gemini-2.5-pro", true)
	assert.Equal(t, "gemini-2.5-pro", pinned.GetModel(llm.TierLite))
	assert.Equal(t, "gemini-2.5-pro", pinned.GetModel(llm.TierStandard))

	fromFile := modelConfig("gemini-2.5-pro", false)
	assert.Equal(t, def.GetModel(llm.TierLite), fromFile.GetModel(llm.TierLite))
	assert.Equal(t, "gemini-2.5-pro", fromFile.GetModel(llm.TierStandard))

	assert.Equal(t, def, modelConfig("", false))
}
