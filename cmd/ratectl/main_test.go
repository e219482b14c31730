package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rateline/internal/modules/rating"
)

const rulesFile = "../../internal/modules/ruletable/testdata/rules.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate_CleanFile(t *testing.T) {
	out, err := execute(t, "validate", rulesFile)
	require.NoError(t, err)
	assert.Contains(t, out, "3 offices, 0 issues")
}

func TestValidate_ReportsIssues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := `
distance_bands:
  - {id: 1, name: short, min_km: 0, max_km: 100}
  - {id: 2, name: overlapping, min_km: 50, max_km: 200}
`
	require.NoError(t, os.WriteFile(path, []byte(rules), 0o600))

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, out, `"short" and "overlapping" overlap`)

	_, err = execute(t, "validate", "--warn", path)
	assert.NoError(t, err)
}

func TestQuote_International(t *testing.T) {
	out, err := execute(t, "quote", "international", "--rules", rulesFile, "--city", "7", "--weight", "10")
	require.NoError(t, err)

	var q rating.Quote
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	assert.Equal(t, rating.ProductInternational, q.Product)
	assert.Equal(t, "9000", q.Total.Amount.String())
}

func TestQuote_IntracityStraightLine(t *testing.T) {
	out, err := execute(t, "quote", "intracity", "--rules", rulesFile, "--straight-line",
		"--sender", "-1.283333,36.816667", "--recipient", "-1.3,36.8", "--weight", "2")
	require.NoError(t, err)

	var q rating.Quote
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	assert.Equal(t, "200", q.Total.Amount.String())
	assert.EqualValues(t, 10, q.Resolution.ZonePolicyID)
}

func TestQuote_Miss(t *testing.T) {
	_, err := execute(t, "quote", "international", "--rules", rulesFile, "--city", "99", "--weight", "1")
	assert.ErrorIs(t, err, rating.ErrNoApplicableTier)
}

func TestQuote_BadWeight(t *testing.T) {
	_, err := execute(t, "quote", "international", "--rules", rulesFile, "--city", "7", "--weight", "heavy")
	assert.ErrorContains(t, err, "--weight")
}

func TestQuote_RequiresRules(t *testing.T) {
	_, err := execute(t, "quote", "international", "--city", "7", "--weight", "1")
	assert.Error(t, err)
}
