package reporting

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/ethereum-optimism/infra/op-harness/types"
)

type xmlTestSuite struct {
	XMLName   xml.Name      `xml:"testsuite"`
	Name      string        `xml:"name,attr"`
	Tests     int           `xml:"tests,attr"`
	Failures  int           `xml:"failures,attr"`
	Errors    int           `xml:"errors,attr"`
	Skip      int           `xml:"skip,attr"`
	Testcases []xmlTestCase `xml:"testcase"`
}

type xmlTestCase struct {
	Name    string      `xml:"name,attr"`
	Time    string      `xml:"time,attr"`
	Failure *xmlDetail  `xml:"failure,omitempty"`
	Error   *xmlDetail  `xml:"error,omitempty"`
	Skipped *xmlSkipped `xml:"skipped,omitempty"`
}

type xmlDetail struct {
	Message string `xml:"message,attr,omitempty"`
	Content string `xml:",chardata"`
}

type xmlSkipped struct {
	Message string `xml:"message,attr"`
}

// BuildXML converts a result set into a JUnit-style testsuite document.
func BuildXML(rs *types.ResultSet, suiteName string) ([]byte, error) {
	suite := xmlTestSuite{
		Name:     suiteName,
		Tests:    rs.Summary.Total(),
		Failures: rs.Summary.Failed,
		Errors:   rs.Summary.Errored,
		Skip:     rs.Summary.Skipped,
	}
	for _, tc := range rs.Testcases {
		c := xmlTestCase{
			Name: tc.Name,
			Time: types.FormatSeconds(tc.Duration),
		}
		switch tc.Status {
		case types.StatusFail:
			c.Failure = &xmlDetail{Message: tc.Message, Content: tc.Detail}
		case types.StatusError:
			c.Error = &xmlDetail{Message: tc.Message, Content: tc.Detail}
		case types.StatusSkip:
			c.Skipped = &xmlSkipped{Message: tc.Message}
		}
		suite.Testcases = append(suite.Testcases, c)
	}

	body, err := xml.MarshalIndent(suite, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal testsuite: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// WriteXML renders the result set as JUnit XML and writes it to path.
func WriteXML(rs *types.ResultSet, suiteName, path string) error {
	doc, err := BuildXML(rs, suiteName)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}
