package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edcellence/edpex-engine/internal/assessment"
	"github.com/edcellence/edpex-engine/internal/scoring"
)

const sampleCSV = `kind,id,category,point_value,dim1,dim2,dim3,dim4,urgency,target,raw_value,raw_unit
process,p-lead,Leadership,120,0.7,0.6,0.8,0.75,0.5,,,
process,p-strat,Strategy,85,0.7,0.6,0.8,0.75,0.5,90,,
process,p-cust,Customers,85,0.7,0.6,0.8,0.75,0.5,,,
process,p-meas,Measurement,100,0.7,0.6,0.8,0.75,0.5,,,
process,p-work,Workforce,100,0.7,0.6,0.8,0.75,0.5,,,
process,p-ops,Operations,150,0.7,0.6,0.8,0.75,0.5,,,
results,r-res,Results,450,0.8,0.7,0.6,0.65,0.8,,92.5,percent
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSVItems(t *testing.T) {
	path := writeFile(t, "items.csv", sampleCSV)

	processItems, resultsItems, err := loadItems(path)
	require.NoError(t, err)

	require.Len(t, processItems, 6)
	require.Len(t, resultsItems, 1)

	assert.Equal(t, "p-lead", processItems[0].ID)
	assert.Equal(t, scoring.CategoryLeadership, processItems[0].Category)
	assert.Equal(t, 120, processItems[0].PointValue)
	assert.InDelta(t, 0.7, processItems[0].Indicators.Approach, 1e-9)
	assert.InDelta(t, 90.0, processItems[1].TargetScore, 1e-9)

	r := resultsItems[0]
	assert.Equal(t, scoring.CategoryResults, r.Category)
	assert.InDelta(t, 0.8, r.Indicators.Level, 1e-9)
	assert.InDelta(t, 92.5, r.RawValue, 1e-9)
	assert.Equal(t, "percent", r.RawUnit)
}

func TestLoadCSVRejectsBadKind(t *testing.T) {
	path := writeFile(t, "items.csv",
		"kind,id,category,point_value,dim1,dim2,dim3,dim4,urgency,target,raw_value,raw_unit\n"+
			"widget,p1,Leadership,120,0.7,0.6,0.8,0.75,0.5,,,\n")

	_, _, err := loadItems(path)
	assert.ErrorContains(t, err, "unknown item kind")
}

func TestLoadJSONItems(t *testing.T) {
	path := writeFile(t, "items.json", `{
		"department": "Engineering",
		"cycle": "2026",
		"process_items": [
			{"id": "p1", "category": "Leadership", "point_value": 120,
			 "indicators": {"approach": 0.7, "deployment": 0.6, "learning": 0.8, "integration": 0.75},
			 "deployment_gap": 0.5}
		],
		"results_items": [
			{"id": "r1", "category": "Results", "point_value": 450,
			 "indicators": {"level": 0.8, "trend": 0.7, "comparison": 0.6, "integration": 0.65},
			 "deployment_gap": 0.8, "raw_value": 92.5, "raw_unit": "percent"}
		]
	}`)

	processItems, resultsItems, err := loadItems(path)
	require.NoError(t, err)
	require.Len(t, processItems, 1)
	require.Len(t, resultsItems, 1)
	assert.Equal(t, "p1", processItems[0].ID)
	assert.InDelta(t, 0.65, resultsItems[0].Indicators.Integration, 1e-9)
}

func TestLoadItemsRejectsUnknownExtension(t *testing.T) {
	path := writeFile(t, "items.txt", "whatever")

	_, _, err := loadItems(path)
	assert.ErrorContains(t, err, "unsupported input format")
}

func TestRunCommand(t *testing.T) {
	path := writeFile(t, "items.csv", sampleCSV)

	var out bytes.Buffer
	app := newApp(&out)

	err := app.Run([]string{"edpex", "run",
		"--file", path,
		"--department", "Engineering",
		"--cycle", "2026",
	})
	require.NoError(t, err)

	var result assessment.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "Engineering", result.Department)
	assert.Len(t, result.CategoryScores, 7)
	assert.NotEmpty(t, result.Maturity.Band)
	assert.Equal(t, 6, result.ProcessItemCount)
	assert.Equal(t, 1, result.ResultsItemCount)
}

func TestRunCommandWithWeightProfile(t *testing.T) {
	items := writeFile(t, "items.csv", sampleCSV)
	weights := writeFile(t, "weights.yaml", `
process:
  approach: 0.25
  deployment: 0.25
  learning: 0.25
  integration: 0.25
`)

	var out bytes.Buffer
	app := newApp(&out)

	err := app.Run([]string{"edpex", "run",
		"--file", items,
		"--weights", weights,
		"--department", "Engineering",
		"--cycle", "2026",
	})
	require.NoError(t, err)

	var result assessment.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	// Equal ADLI weights make each process item the plain mean of its dims
	assert.InDelta(t, 71.25, result.Items[0].Score, 1e-9)
}

func TestRunCommandPersists(t *testing.T) {
	items := writeFile(t, "items.csv", sampleCSV)
	dataDir := t.TempDir()

	var out bytes.Buffer
	app := newApp(&out)

	err := app.Run([]string{"edpex", "run",
		"--file", items,
		"--department", "Engineering",
		"--cycle", "2026",
		"--db", dataDir,
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dataDir, "edpex_engine.db"))
	assert.NoError(t, err)
}
