package clock_test

import (
	"testing"
	"time"

	"github.com/relabs-tech/ratonaut/internal/clock"
	"github.com/stretchr/testify/require"
)

func TestManualAdvanceFiresTicker(t *testing.T) {
	start := time.Unix(1000, 0)
	m := clock.NewManual(start)
	tk := m.NewTicker(250 * time.Millisecond)
	defer tk.Stop()

	m.Advance(100 * time.Millisecond)
	select {
	case <-tk.C():
		t.Fatal("ticker fired before its period elapsed")
	default:
	}

	m.Advance(150 * time.Millisecond)
	select {
	case at := <-tk.C():
		require.Equal(t, start.Add(250*time.Millisecond), at)
	default:
		t.Fatal("ticker did not fire")
	}
	require.Equal(t, start.Add(250*time.Millisecond), m.Now())
}

func TestManualDropsTicksForSlowReceiver(t *testing.T) {
	m := clock.NewManual(time.Unix(0, 0))
	tk := m.NewTicker(time.Second)

	m.Advance(5 * time.Second)
	<-tk.C()
	select {
	case <-tk.C():
		t.Fatal("expected buffered ticks to be dropped")
	default:
	}
}

func TestManualStopRemovesTicker(t *testing.T) {
	m := clock.NewManual(time.Unix(0, 0))
	tk := m.NewTicker(time.Second)
	require.Equal(t, 1, m.Tickers())
	tk.Stop()
	require.Equal(t, 0, m.Tickers())
}
