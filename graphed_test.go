package graphed

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestNumericBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := 0.000000008
	if !Is0(a) {
		t.Errorf("Expected a to be zero, is not")
	}
	assert.True(t, Within(1.0, 1.0+1e-11, Tolerance))
	assert.False(t, Within(1.0, 1.0+1e-9, Tolerance))
}

func TestSnapTo(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Equal(t, 3.0, SnapTo(2.6, 1))
	assert.Equal(t, -2.0, SnapTo(-2.4, 1))
	assert.Equal(t, 4.0, SnapTo(4.9, 2))
	assert.Equal(t, 2.6, SnapTo(2.6, 0))
}

func TestCircular(t *testing.T) {
	list := []string{"constant", "linear", "cycle"}
	prev, ok := Circular(list, "constant", -1)
	assert.True(t, ok)
	assert.Equal(t, "cycle", prev)
	next, _ := Circular(list, "cycle", 1)
	assert.Equal(t, "constant", next)
	_, ok = Circular(list, "oscillate", -1)
	assert.False(t, ok)
}

func TestTranslation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := Translation(P(-1, -1)).Transform(P(1, 1))
	if !p.Equal(P(0, 0)) {
		t.Errorf("Expected (1,1) shifted (-1,-1) to be origin, is %v", p)
	}
}

func TestTimeMirror(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := TimeScaling(-1, 5)
	assert.True(t, m.Reverses())
	for _, tm := range []float64{0, 2.5, 5, 10} {
		p := m.Transform(P(tm, 7))
		assert.InDelta(t, 10-tm, p.T(), 1e-12)
		assert.InDelta(t, 7.0, p.V(), 1e-12)
	}
	d := m.TransformDir(P(1, 2))
	assert.InDelta(t, -1.0, d.T(), 1e-12)
	assert.InDelta(t, 2.0, d.V(), 1e-12)
}

func TestTimeScalingKeepsPivot(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := TimeScaling(2, 3)
	assert.False(t, m.Reverses())
	assert.True(t, m.Transform(P(3, 1)).Equal(P(3, 1)))
	assert.True(t, m.Transform(P(4, 1)).Equal(P(5, 1)))
}
