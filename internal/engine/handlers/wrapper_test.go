package handlers

import (
	"ecosystem-server/internal/domain"
	"ecosystem-server/pkg/logger"
	"io"
	"os"
	"strings"
	"testing"
)

func TestMain(m *testing.M) {
	logger.Init()
	logger.Log.SetOutput(io.Discard)

	os.Exit(m.Run())
}

// lastRand always picks the last candidate.
type lastRand struct{}

func (lastRand) Float64() float64 { return 0 }
func (lastRand) Intn(n int) int   { return n - 1 }

func TestWithTarget(t *testing.T) {
	actor := &domain.Organism{ID: "a", Name: "Lynx"}
	ctx := Context{Eco: domain.NewEcosystem("e", "Forest", 0, 0, 0), Actor: actor, Rng: lastRand{}}

	var got string
	handler := WithTarget("testing",
		func(Context) []string { return []string{"first", "second"} },
		func(_ Context, target string) Result {
			got = target
			return Single(domain.Infof(domain.OutcomeInfo, "picked %s", target))
		})

	res := handler(ctx)
	if got != "second" || len(res.Outcomes) != 1 {
		t.Errorf("Expected the drawn candidate to reach the handler, got %q", got)
	}

	empty := WithTarget("testing",
		func(Context) []string { return nil },
		func(Context, string) Result {
			t.Error("Handler must not run without candidates")
			return Result{}
		})

	res = empty(ctx)
	if len(res.Outcomes) != 1 || !strings.Contains(res.Outcomes[0].Text, "Lynx found no target for testing") {
		t.Errorf("Expected a no target outcome, got %+v", res.Outcomes)
	}
}
