package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"text2phenotype.com/postagger/types"
)

const testModel = `{
	"probs": [0, 0],
	"outcomes": ["DT", "NN"],
	"pmap": {"w=the": 0, "w=dog": 1},
	"evalParams": {
		"numOfOutcomes": 2,
		"params": [
			{"Outcomes": [0], "Parameters": [4]},
			{"Outcomes": [1], "Parameters": [4]}
		]
	}
}`

func setupEnvironment(t *testing.T, modelPath string) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "maxent.json"), []byte(testModel), 0o600))
	config := "models:\n  - type: maxent\n    path: " + modelPath + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tagger.yaml"), []byte(config), 0o600))

	t.Setenv("TAGGER_CONFIG_PATH", filepath.Join(dir, "tagger.yaml"))
	t.Setenv("TAGGER_MODEL_DIR", dir)
	return dir
}

func TestTagCommand(t *testing.T) {
	dir := setupEnvironment(t, "maxent.json")
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("the dog\n\n"), 0o600))

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"tag", input})
	require.NoError(t, cmd.Execute())
	require.Equal(t, "the/DT dog/NN\n\n", out.String())
}

func TestTagCommandMissingModel(t *testing.T) {
	setupEnvironment(t, "missing.json")

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"tag", "-"})
	err := cmd.Execute()
	require.True(t, errors.Is(err, types.ErrModelUnavailable), err)
}
