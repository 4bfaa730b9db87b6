package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/edcellence/edpex-engine/internal/scoring"
	"github.com/edcellence/edpex-engine/internal/types"
)

// CSV batch format, one item per row after the header:
//
//	kind,id,category,point_value,dim1,dim2,dim3,dim4,urgency,target,raw_value,raw_unit
//
// kind is "process" or "results". For process rows the dims are
// approach, deployment, learning, integration; for results rows they
// are level, trend, comparison, integration. target, raw_value and
// raw_unit may be empty.
const csvFieldCount = 12

// loadItems reads a batch input file, dispatching on extension. JSON
// files carry the same shape as the assess request body.
func loadItems(path string) ([]types.ProcessItem, []types.ResultsItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return loadJSONItems(f)
	case ".csv":
		return loadCSVItems(f)
	default:
		return nil, nil, fmt.Errorf("unsupported input format %q (use .csv or .json)", ext)
	}
}

func loadJSONItems(r io.Reader) ([]types.ProcessItem, []types.ResultsItem, error) {
	var req types.AssessRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, nil, fmt.Errorf("failed to parse JSON input: %w", err)
	}
	return req.ProcessItems, req.ResultsItems, nil
}

func loadCSVItems(r io.Reader) ([]types.ProcessItem, []types.ResultsItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = csvFieldCount
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV input: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("CSV input has no item rows")
	}

	var processItems []types.ProcessItem
	var resultsItems []types.ResultsItem

	for i, rec := range records[1:] {
		line := i + 2

		pointValue, err := strconv.Atoi(rec[3])
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: invalid point value %q", line, rec[3])
		}

		dims := make([]float64, 4)
		for j := 0; j < 4; j++ {
			dims[j], err = strconv.ParseFloat(rec[4+j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: invalid indicator %q", line, rec[4+j])
			}
		}

		urgency, err := strconv.ParseFloat(rec[8], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: invalid urgency %q", line, rec[8])
		}

		var target float64
		if rec[9] != "" {
			target, err = strconv.ParseFloat(rec[9], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: invalid target %q", line, rec[9])
			}
		}

		switch kind := strings.ToLower(rec[0]); kind {
		case "process":
			processItems = append(processItems, types.ProcessItem{
				ID:         rec[1],
				Category:   rec[2],
				PointValue: pointValue,
				Indicators: scoring.ProcessIndicators{
					Approach:    dims[0],
					Deployment:  dims[1],
					Learning:    dims[2],
					Integration: dims[3],
				},
				DeploymentGap: urgency,
				TargetScore:   target,
			})
		case "results":
			item := types.ResultsItem{
				ID:         rec[1],
				Category:   rec[2],
				PointValue: pointValue,
				Indicators: scoring.ResultsIndicators{
					Level:       dims[0],
					Trend:       dims[1],
					Comparison:  dims[2],
					Integration: dims[3],
				},
				DeploymentGap: urgency,
				TargetScore:   target,
				RawUnit:       rec[11],
			}
			if rec[10] != "" {
				item.RawValue, err = strconv.ParseFloat(rec[10], 64)
				if err != nil {
					return nil, nil, fmt.Errorf("line %d: invalid raw value %q", line, rec[10])
				}
			}
			resultsItems = append(resultsItems, item)
		default:
			return nil, nil, fmt.Errorf("line %d: unknown item kind %q", line, kind)
		}
	}

	return processItems, resultsItems, nil
}
