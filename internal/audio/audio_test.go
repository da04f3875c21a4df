package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

type pairs struct {
	data [][2]int16
	i    int
}

func (p *pairs) ReadPair() (int16, int16) {
	v := p.data[p.i]
	p.i++
	return v[0], v[1]
}

func TestVolume(t *testing.T) {
	tests := []struct {
		left, right int16
		want        uint16
	}{
		{0, 0, 0},
		{100, -300, 300},
		{-2001, 5, 2001},
		{math.MinInt16, 0, 32768},
		{math.MaxInt16, math.MinInt16, 32768},
	}
	for _, tt := range tests {
		if got := Volume(tt.left, tt.right); got != tt.want {
			t.Errorf("Volume(%d, %d) = %d, want %d", tt.left, tt.right, got, tt.want)
		}
	}
}

func TestGate_Threshold(t *testing.T) {
	src := &pairs{data: [][2]int16{{2000, 0}, {0, -2001}, {1500, 1999}, {math.MinInt16, 0}}}
	g := NewGate(src, DefaultThreshold)

	want := []bool{false, true, false, true}
	for i, w := range want {
		if got := g.Triggered(); got != w {
			t.Errorf("read %d: Triggered() = %v, want %v", i, got, w)
		}
	}
}

func TestStreamSource_Converts(t *testing.T) {
	frames := [][2]float64{{1.0, -1.0}, {0.5, 0}, {2.0, -3.0}}
	i := 0
	s := NewStreamSource(beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if i >= len(frames) {
			return 0, false
		}
		samples[0] = frames[i]
		i++
		return 1, true
	}))

	l, r := s.ReadPair()
	if l != math.MaxInt16 || r != -math.MaxInt16 {
		t.Errorf("first pair = (%d, %d)", l, r)
	}
	l, _ = s.ReadPair()
	if l != 16384 {
		t.Errorf("half scale = %d, want 16384", l)
	}
	l, r = s.ReadPair()
	if l != math.MaxInt16 || r != math.MinInt16 {
		t.Errorf("clipped pair = (%d, %d), want saturation", l, r)
	}
	l, r = s.ReadPair()
	if l != 0 || r != 0 {
		t.Errorf("drained pair = (%d, %d), want silence", l, r)
	}
}

func TestClapper_Burst(t *testing.T) {
	c := NewClapper(2)
	g := NewGate(NewStreamSource(c), DefaultThreshold)

	if g.Triggered() {
		t.Fatal("silent clapper should not trigger")
	}
	c.Clap()
	if !g.Triggered() || !g.Triggered() {
		t.Fatal("clap burst should trigger for two frames")
	}
	if g.Triggered() {
		t.Error("burst should be over after two frames")
	}
}

func TestOpenWAV_Missing(t *testing.T) {
	if _, err := OpenWAV("does-not-exist.wav"); err == nil {
		t.Error("OpenWAV() should fail for a missing file")
	}
}

func TestOpenWAV_LoopsRecording(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mic.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	loud := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{0.5, -0.5}
		}
		return len(samples), true
	})
	format := beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Take(16, loud), format); err != nil {
		t.Fatal(err)
	}
	f.Close()

	clap := NewClapper(1)
	src, err := OpenWAV(path, clap)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	for i := 0; i < 40; i++ {
		l, r := src.ReadPair()
		if v := Volume(l, r); v < 16000 || v > 16400 {
			t.Fatalf("frame %d volume = %d, want about 16384", i, v)
		}
	}

	clap.Clap()
	l, r := src.ReadPair()
	if v := Volume(l, r); v < 32000 {
		t.Errorf("clap over recording volume = %d, want near full scale", v)
	}
}
