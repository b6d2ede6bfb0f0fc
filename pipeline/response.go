package pipeline

import (
	"text2phenotype.com/postagger/types"
)

type TokenResponse struct {
	Text  string          `json:"text"`
	Tag   types.Tag       `json:"tag"`
	Probs []types.TagProb `json:"probs,omitempty"`
}

type SentenceResponse struct {
	Tokens    []TokenResponse `json:"tokens"`
	Truncated bool            `json:"truncated,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type Response struct {
	Tid       string             `json:"tid,omitempty"`
	Sentences []SentenceResponse `json:"sentences"`
}

func BuildResponse(tid string, results []Result) Response {
	resp := Response{
		Tid:       tid,
		Sentences: make([]SentenceResponse, len(results)),
	}
	for i, res := range results {
		sent := SentenceResponse{
			Tokens:    make([]TokenResponse, 0, len(res.Tokens)),
			Truncated: res.Truncated,
		}
		if res.Err != nil {
			sent.Error = res.Err.Error()
			resp.Sentences[i] = sent
			continue
		}
		for k, token := range res.Tokens {
			tr := TokenResponse{Text: token.Surface, Tag: token.Tag}
			if k < len(res.Distributions) {
				tr.Probs = res.Distributions[k].Sorted()
			}
			sent.Tokens = append(sent.Tokens, tr)
		}
		resp.Sentences[i] = sent
	}
	return resp
}
