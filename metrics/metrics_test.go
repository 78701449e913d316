package metrics

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/ethereum-optimism/infra/op-harness/types"
)

func TestErrToLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "nil error",
			err:  nil,
		},
		{
			name: "simple error",
			err:  errors.New("test error"),
		},
		{
			name: "error with special chars",
			err:  errors.New("test@error#123"),
		},
		{
			name: "error with multiple spaces",
			err:  errors.New("test   error"),
		},
		{
			name: "error with multiple underscores",
			err:  errors.New("test__error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := errToLabel(tt.err)
			validLabelRegex := regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`)
			if !validLabelRegex.MatchString(result) {
				t.Errorf("errLabel() = %v, is not a valid Prometheus label", result)
			}
		})
	}
}

func TestRecordError(t *testing.T) {
	// just test that it doesn't panic
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("RecordError panic'd")
		}
	}()

	RecordError("test_error")
}

func TestRecordErrorDetails(t *testing.T) {
	RecordErrorDetails("test", nil)
	RecordErrorDetails("test", errors.New("sample error"))
}

func TestRecordTestcase(t *testing.T) {
	RecordTestcase("nightly", "run1", "checks/test_api.go.test_health", types.StatusPass)
	RecordTestcase("nightly", "run1", "checks/test_api.go.test_login", types.StatusFail)
}

func TestRecordRun(t *testing.T) {
	RecordRun("nightly", "run1", &types.ResultSet{
		Summary:  types.Summary{Passed: 1, Failed: 1},
		Duration: time.Second,
		Testcases: []types.Outcome{
			{Name: "checks/test_api.go.test_health", Status: types.StatusPass},
			{Name: "checks/test_api.go.test_login", Status: types.StatusFail},
		},
	})
}
