package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"slaanalyzer/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilters(t *testing.T) {
	sel, err := parseFilters([]string{"Buyer=Acme", "Aging bucket = 0-30"})
	require.NoError(t, err)
	assert.Equal(t, engine.FilterSelection{"Buyer": "Acme", "Aging bucket": " 0-30"}, sel)

	_, err = parseFilters([]string{"Buyer"})
	assert.Error(t, err)
}

func TestReportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grni.csv")
	content := "Buyer,Aging,Comment Indicator,Team\nAcme,120,Yes,East\nAcme,10,no,West\nGlobex,95,No,East\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cmd := newReportCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--kind", "grni", "--file", path, "--filter", "Buyer=Acme", "--rows", "1"})
	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.Contains(t, text, "GRNI: 2 of 3 rows")
	assert.Contains(t, text, "Buyer = Acme")
	assert.Contains(t, text, "Team = all")
	assert.Contains(t, text, " 50.00%")
	assert.Regexp(t, `Acme\s+120\s+Yes\s+East`, text)
	assert.NotContains(t, text, "West")
}

func TestReportCommandMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "me.csv")
	require.NoError(t, os.WriteFile(path, []byte("Buyer Name,Past Due?\nAna,Yes\n"), 0o600))

	cmd := newReportCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--kind", "me", "--file", path})

	err := cmd.Execute()
	var missing *engine.MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Net Due Date", "Aging bucket", "Days Past Due"}, missing.Missing)
}
