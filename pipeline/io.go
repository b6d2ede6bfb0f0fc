package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"text2phenotype.com/postagger/types"
)

// ReadSentences reads one whitespace-tokenized sentence per line. Blank lines
// become empty sentences so that output lines stay aligned with input lines.
func ReadSentences(r io.Reader) ([]types.Sentence, error) {
	reader := bufio.NewReader(r)
	var sentences []types.Sentence
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimRight(line, "\r\n")
			sentences = append(sentences, types.NewSentence(len(sentences), strings.Fields(line)))
		}
		if errors.Is(err, io.EOF) {
			return sentences, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// WriteTagged renders results as "word/TAG" sentences, one per line. With
// probabilities every token goes on its own line followed by its surviving
// tag/probability pairs, and a blank line closes each sentence.
func WriteTagged(w io.Writer, results []Result, withProbs bool) error {
	bw := bufio.NewWriter(w)
	for _, res := range results {
		if res.Err != nil {
			// failed sentences are reported by the driver; keep the line slot
			bw.WriteByte('\n')
			continue
		}
		if withProbs {
			writeWithProbs(bw, res)
			continue
		}
		for i, token := range res.Tokens {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(token.String())
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func writeWithProbs(bw *bufio.Writer, res Result) {
	for i, token := range res.Tokens {
		bw.WriteString(token.Surface)
		bw.WriteByte('\t')
		bw.WriteString(token.Tag.String())
		if i < len(res.Distributions) {
			for _, tp := range res.Distributions[i].Sorted() {
				fmt.Fprintf(bw, "\t%s %s", tp.Tag, strconv.FormatFloat(tp.Prob, 'g', 6, 64))
			}
		}
		bw.WriteByte('\n')
	}
	bw.WriteByte('\n')
}
