package pipeline

import (
	"context"
	"encoding/json"
	"strings"

	"text2phenotype.com/postagger/logger"
)

// NewTaggingPipeline wraps a driver into a Pipeline: the request text is read
// one sentence per line and the tagged sentences come back as JSON.
func NewTaggingPipeline(driver *Driver) Pipeline {
	taggerLogger := logger.NewLogger("Tagging pipeline")

	return func(request Request) <-chan string {
		out := make(chan string, 1)
		pplnLog := taggerLogger.With().Str("tid", request.Tid).Logger()

		go func() {
			defer close(out)
			pplnLog.Info().Msg("Started tagging pipeline")

			sentences, err := ReadSentences(strings.NewReader(request.Text))
			if err != nil {
				pplnLog.Err(err).Caller().Msg("Failed to read sentences")
				return
			}

			results := driver.Process(context.Background(), sentences)
			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
				}
			}

			buf, err := json.Marshal(BuildResponse(request.Tid, results))
			if err != nil {
				pplnLog.Err(err).Caller().Msg("Failed to marshall response")
				return
			}
			pplnLog.Info().
				Int("sentences", len(results)).
				Int("failed_sentences", failed).
				Msg("Finished tagging pipeline")
			out <- string(buf)
		}()

		return out
	}
}
