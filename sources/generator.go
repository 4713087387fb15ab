package sources

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/c-m3-codin/gcollect/models"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GeneratorSource produces synthetic tasks whose payload is
// "<prefix>_<5 to 20 random letters>". It never fails.
type GeneratorSource struct {
	count  int
	prefix string

	mu  sync.Mutex
	rng *rand.Rand
}

type GeneratorOption func(*GeneratorSource)

// WithRand sets the random source, e.g. a seeded one for reproducible
// payloads.
func WithRand(r *rand.Rand) GeneratorOption {
	return func(g *GeneratorSource) { g.rng = r }
}

// NewGeneratorSource returns a generator producing count tasks per call.
// A negative count produces none.
func NewGeneratorSource(count int, prefix string, opts ...GeneratorOption) *GeneratorSource {
	g := &GeneratorSource{
		count:  max(count, 0),
		prefix: prefix,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GeneratorSource) Name() string { return "generator:" + g.prefix }

func (g *GeneratorSource) GetTasks() ([]models.Task, error) {
	tasks := make([]models.Task, 0, g.count)
	for i := 0; i < g.count; i++ {
		tasks = append(tasks, models.NewTask(g.payload()))
	}
	return tasks, nil
}

func (g *GeneratorSource) payload() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 5 + g.rng.IntN(16)
	var sb strings.Builder
	sb.Grow(len(g.prefix) + 1 + n)
	sb.WriteString(g.prefix)
	sb.WriteByte('_')
	for i := 0; i < n; i++ {
		sb.WriteByte(letters[g.rng.IntN(len(letters))])
	}
	return sb.String()
}
