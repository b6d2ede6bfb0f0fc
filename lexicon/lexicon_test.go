package lexicon

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"text2phenotype.com/postagger/redis"
	"text2phenotype.com/postagger/types"
)

type memoryStore struct {
	hashes   map[string]map[string]float64
	fail     bool
	locked   []string
	released int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{hashes: make(map[string]map[string]float64)}
}

func (s *memoryStore) HGetAllMany(_ context.Context, keys []string) ([]map[string]string, error) {
	if s.fail {
		return nil, errors.New("connection refused")
	}
	res := make([]map[string]string, len(keys))
	for i, key := range keys {
		res[i] = make(map[string]string)
		for field, v := range s.hashes[key] {
			res[i][field] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return res, nil
}

func (s *memoryStore) HIncrByFloatMany(_ context.Context, deltas map[string]map[string]float64) error {
	if s.fail {
		return errors.New("connection refused")
	}
	for key, fields := range deltas {
		if s.hashes[key] == nil {
			s.hashes[key] = make(map[string]float64)
		}
		for field, v := range fields {
			s.hashes[key][field] += v
		}
	}
	return nil
}

func (s *memoryStore) Lock(_ context.Context, key string) (redis.ReleaseLock, error) {
	s.locked = append(s.locked, key)
	return func() error {
		s.released++
		return nil
	}, nil
}

func TestLoadAndScore(t *testing.T) {
	store := newMemoryStore()
	oracle := NewOracle("lexicon", store)
	ctx := context.Background()

	entries, err := ReadTaggedCorpus(strings.NewReader("The/DT run/NN ./.\nthe/DT run/VB run/VB\n"))
	require.NoError(t, err)
	require.NoError(t, oracle.Load(ctx, entries))
	require.Equal(t, []string{"lexicon"}, store.locked)
	require.Equal(t, 1, store.released)

	out, err := oracle.Score(ctx, []string{"THE", "run", "unseen"})
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, types.TagDistribution{"DT": 1}, out[0])
	require.InDelta(t, 1.0/3, out[1]["NN"], 1e-12)
	require.InDelta(t, 2.0/3, out[1]["VB"], 1e-12)
	require.Empty(t, out[2])
}

func TestScoreUnavailableStoreIsEmpty(t *testing.T) {
	store := newMemoryStore()
	store.fail = true
	out, err := NewOracle("lexicon", store).Score(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, types.EmptyOutput(2), out)

	out, err = NewOracle("lexicon", nil).Score(context.Background(), []string{"a"})
	require.NoError(t, err)
	require.Equal(t, types.EmptyOutput(1), out)
}

func TestScoreEmptySentence(t *testing.T) {
	out, err := NewOracle("lexicon", newMemoryStore()).Score(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestToDistributionSkipsBadCounts(t *testing.T) {
	dist := toDistribution(map[string]string{"NN": "3", "VB": "x", "JJ": "-1", "RB": "1"})
	require.Equal(t, types.TagDistribution{"NN": 0.75, "RB": 0.25}, dist)
	require.Empty(t, toDistribution(map[string]string{"NN": "0"}))
}

func TestReadTaggedCorpus(t *testing.T) {
	entries, err := ReadTaggedCorpus(strings.NewReader("a/DT 1/2/CD\n\nb/NN a/DT\n"))
	require.NoError(t, err)
	require.Equal(t, []Entry{
		{Word: "a", Tag: "DT", Count: 2},
		{Word: "1/2", Tag: "CD", Count: 1},
		{Word: "b", Tag: "NN", Count: 1},
	}, entries)

	_, err = ReadTaggedCorpus(strings.NewReader("dog\n"))
	require.Error(t, err)
	_, err = ReadTaggedCorpus(strings.NewReader("dog/\n"))
	require.Error(t, err)
}

func TestLoadNormalizesBrackets(t *testing.T) {
	store := newMemoryStore()
	oracle := NewOracle("lexicon", store)
	ctx := context.Background()

	require.NoError(t, oracle.Load(ctx, []Entry{{Word: "(", Tag: "-LRB-", Count: 2}}))
	out, err := oracle.Score(ctx, []string{"-LRB-"})
	require.NoError(t, err)
	require.Equal(t, types.TagDistribution{"-LRB-": 1}, out[0])
}
