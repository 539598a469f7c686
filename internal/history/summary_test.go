package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	since, until := epoch, epoch.Add(time.Hour)

	goFailure := testRun("g2", "", 50, false)
	goFailure.Target = "go"
	goFailure.ErrorKind = "malformed"
	goOK := testRun("g1", "s2", 5, true)
	goOK.Target = "go"
	slow := testRun("p4", "s1", 40, true)
	slow.Duration = time.Second

	runs := []Run{
		testRun("p1", "s1", 0, false),
		testRun("p2", "s1", 10, false),
		testRun("p3", "", 35, true),
		slow,
		goOK,
		goFailure,
		testRun("old", "", -5, true),
		testRun("late", "", 60, false),
	}

	sum := Summarize(runs, since, until)
	assert.Equal(t, 6, sum.Runs)
	assert.Equal(t, 3, sum.Failures)
	assert.Equal(t, 2, sum.Sessions)

	py := sum.Targets["python"]
	assert.Equal(t, 4, py.Runs)
	assert.Equal(t, 2, py.Failures)
	assert.Equal(t, 4, py.Classes)
	assert.Equal(t, "unsupported_type", py.DominantError)
	assert.Equal(t, TrendImproving, py.Trend)
	assert.Equal(t, (3*3*time.Millisecond+time.Second)/4, py.MeanDuration)

	goSum := sum.Targets["go"]
	assert.Equal(t, 2, goSum.Runs)
	assert.Equal(t, map[string]int{"malformed": 1}, goSum.ByErrorKind)
	assert.Equal(t, TrendDeclining, goSum.Trend)

	require.Len(t, sum.SlowestRuns, 3)
	assert.Equal(t, "p4", sum.SlowestRuns[0].ID)
	assert.Empty(t, sum.SlowestRuns[0].Source)
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(nil, epoch, epoch.Add(time.Hour))
	assert.Zero(t, sum.Runs)
	assert.Empty(t, sum.Targets)
	assert.Nil(t, sum.SlowestRuns)
}

func TestDominantKind_TieBreaksByName(t *testing.T) {
	assert.Equal(t, "malformed", dominantKind(map[string]int{"unsupported_type": 2, "malformed": 2}))
	assert.Equal(t, "", dominantKind(map[string]int{}))
}
