package pipeline

import (
	"context"
	"encoding/json"
	"testing"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/stretchr/testify/require"
	"text2phenotype.com/postagger/types"
)

func TestTaggingPipeline(t *testing.T) {
	driver := newTestDriver(t, types.DefaultConfiguration(), Sources{Primary: []Oracle{newFakeOracle("primary", wordTagger)}})
	ppln := NewTaggingPipeline(driver)

	res, ok := <-ppln(Request{Text: "a b\n\nc", Tid: "tid-1"})
	require.True(t, ok)

	expected := `{
		"tid": "tid-1",
		"sentences": [
			{"tokens": [{"text": "a", "tag": "T-a"}, {"text": "b", "tag": "T-b"}]},
			{"tokens": []},
			{"tokens": [{"text": "c", "tag": "T-c"}]}
		]
	}`
	require.True(t, jsonpatch.Equal([]byte(expected), []byte(res)), res)
}

func TestTaggingPipelineTruncation(t *testing.T) {
	cfg := types.DefaultConfiguration()
	cfg.OutputTagProbs = true
	cfg.MaxSentenceLength = 1
	driver := newTestDriver(t, cfg, Sources{Primary: []Oracle{shortOracle{}}})
	ppln := NewTaggingPipeline(driver)

	res := <-ppln(Request{Text: "a b c\nd"})

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(res), &resp))
	require.Len(t, resp.Sentences, 2)
	require.True(t, resp.Sentences[0].Truncated)
	require.Empty(t, resp.Sentences[0].Error)
	require.Equal(t, types.UnknownTag, resp.Sentences[1].Tokens[0].Tag.String())
}

func TestBuildResponseWithProbs(t *testing.T) {
	cfg := types.DefaultConfiguration()
	cfg.OutputTagProbs = true
	oracle := newFakeOracle("primary", func(string) types.TagDistribution {
		return types.TagDistribution{"NN": 0.5, "JJ": 0.5}
	})
	driver := newTestDriver(t, cfg, Sources{Primary: []Oracle{oracle}})
	results := driver.Process(context.Background(), sentences("red", "a b c"))
	results[1].Err = &types.OracleContractViolation{Source: "primary", Expected: 3, Got: 2}

	buf, err := json.Marshal(BuildResponse("", results))
	require.NoError(t, err)

	expected := `{
		"sentences": [
			{"tokens": [{"text": "red", "tag": "JJ", "probs": [{"tag": "JJ", "prob": 0.5}, {"tag": "NN", "prob": 0.5}]}]},
			{"tokens": [], "error": "source \"primary\" returned 2 distributions for a sentence of 3 tokens"}
		]
	}`
	require.True(t, jsonpatch.Equal([]byte(expected), buf), string(buf))
}
