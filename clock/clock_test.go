package clock

import "testing"

func TestTickClockAdvancesOnlyOnTick(t *testing.T) {
	c := NewTickClock()
	first := c.Now()
	second := c.Now()
	if first != second {
		t.Fatalf("Now() changed without a Tick: %d != %d", first, second)
	}
	c.Tick()
	if c.Now() == 0 {
		t.Fatalf("Tick() left the clock at zero")
	}
}

func TestFuncAdaptsPlainFunction(t *testing.T) {
	var f Clock = Func(func() uint32 { return 42 })
	if f.Now() != 42 {
		t.Fatalf("Func.Now() = %d, want 42", f.Now())
	}
}
