// Package lexicon is a best-effort secondary scoring source: per-word tag counts
// kept in Redis hashes. Each token receives its relative tag frequencies. When
// the store cannot be reached every token gets an empty distribution.
package lexicon

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"text2phenotype.com/postagger/logger"
	"text2phenotype.com/postagger/normalizer"
	"text2phenotype.com/postagger/redis"
	"text2phenotype.com/postagger/types"
	"text2phenotype.com/postagger/utils"
)

type Store interface {
	HGetAllMany(ctx context.Context, keys []string) ([]map[string]string, error)
	HIncrByFloatMany(ctx context.Context, deltas map[string]map[string]float64) error
	Lock(ctx context.Context, key string) (redis.ReleaseLock, error)
}

type Entry struct {
	Word  string
	Tag   string
	Count float64
}

type Oracle struct {
	prefix string
	store  Store
	log    zerolog.Logger
}

func NewOracle(prefix string, store Store) *Oracle {
	return &Oracle{
		prefix: prefix,
		store:  store,
		log:    logger.NewLogger("Lexicon"),
	}
}

func (o *Oracle) Name() string {
	return "lexicon"
}

func (o *Oracle) keys(words []string) []string {
	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	return utils.HashKeys(o.prefix, lowered)
}

func (o *Oracle) Score(ctx context.Context, words []string) (types.SourceOutput, error) {
	if len(words) == 0 {
		return types.SourceOutput{}, nil
	}
	if o.store == nil {
		return types.EmptyOutput(len(words)), nil
	}

	hashes, err := o.store.HGetAllMany(ctx, o.keys(words))
	if err != nil || len(hashes) != len(words) {
		o.log.Warn().Err(err).Msg("Lexicon is unavailable, continuing without it")
		return types.EmptyOutput(len(words)), nil
	}

	out := make(types.SourceOutput, len(words))
	for i, fields := range hashes {
		out[i] = toDistribution(fields)
	}
	return out, nil
}

func toDistribution(fields map[string]string) types.TagDistribution {
	counts := make(types.TagDistribution, len(fields))
	for tag, raw := range fields {
		c, err := strconv.ParseFloat(raw, 64)
		if err != nil || c <= 0 {
			continue
		}
		counts[tag] = c
	}
	total := counts.Sum()
	if total == 0 {
		return types.TagDistribution{}
	}
	for tag, c := range counts {
		counts[tag] = c / total
	}
	return counts
}

// Load adds the entry counts to the store while holding the lexicon lock.
func (o *Oracle) Load(ctx context.Context, entries []Entry) error {
	release, err := o.store.Lock(ctx, o.prefix)
	if err != nil {
		return fmt.Errorf("failed to lock lexicon %s: %w", o.prefix, err)
	}
	defer func() {
		if err := release(); err != nil {
			o.log.Err(err).Msg("Failed to release lexicon lock")
		}
	}()

	deltas := make(map[string]map[string]float64)
	for _, e := range entries {
		// scoring sees normalized words
		key := o.keys([]string{normalizer.Normalize(e.Word)})[0]
		if deltas[key] == nil {
			deltas[key] = make(map[string]float64)
		}
		deltas[key][e.Tag] += e.Count
	}
	if err := o.store.HIncrByFloatMany(ctx, deltas); err != nil {
		return fmt.Errorf("failed to write lexicon: %w", err)
	}
	o.log.Info().Int("entries", len(entries)).Int("words", len(deltas)).Msg("Loaded lexicon")
	return nil
}

// ReadTaggedCorpus counts word/TAG pairs from a corpus with one tagged sentence
// per line, the same format the tagger writes.
func ReadTaggedCorpus(r io.Reader) ([]Entry, error) {
	type pair struct{ word, tag string }
	counts := make(map[pair]float64)
	var order []pair

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		for _, item := range strings.Fields(scanner.Text()) {
			sep := strings.LastIndex(item, "/")
			if sep <= 0 || sep == len(item)-1 {
				return nil, fmt.Errorf("line %d: %q is not a word/TAG pair", line, item)
			}
			p := pair{item[:sep], item[sep+1:]}
			if _, ok := counts[p]; !ok {
				order = append(order, p)
			}
			counts[p]++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	entries := make([]Entry, len(order))
	for i, p := range order {
		entries[i] = Entry{Word: p.word, Tag: p.tag, Count: counts[p]}
	}
	return entries, nil
}
