package audioconv

import (
	"math"
	"testing"
)

func TestDownmixAveragesChannels(t *testing.T) {
	stereo := []float32{1, 0, 0.5, 0.5, -1, 1}
	mono := downmix(stereo, 2)

	want := []float32{0.5, 0.5, 0}
	if len(mono) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(mono))
	}
	for i := range want {
		if math.Abs(float64(mono[i]-want[i])) > 1e-6 {
			t.Fatalf("frame %d: got %f, want %f", i, mono[i], want[i])
		}
	}
}

func TestDownmixMonoPassthrough(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3}
	if out := downmix(in, 1); &out[0] != &in[0] {
		t.Fatal("mono input should pass through unchanged")
	}
}

func TestResampleHalvesSampleCount(t *testing.T) {
	in := make([]float32, 480)
	for i := range in {
		in[i] = float32(i) / 480
	}

	out := resample(in, 48000, 16000)
	if len(out) != 160 {
		t.Fatalf("expected 160 samples, got %d", len(out))
	}
	// Monotone input must stay monotone through linear interpolation.
	for i := 1; i < len(out); i++ {
		if out[i] < out[i-1] {
			t.Fatalf("resampled signal not monotone at %d", i)
		}
	}
}

func TestResampleSameRateIsIdentity(t *testing.T) {
	in := []float32{0.25, -0.25}
	if out := resample(in, 16000, 16000); &out[0] != &in[0] {
		t.Fatal("same-rate resample should be identity")
	}
}

func TestInt16ToFloat32Range(t *testing.T) {
	out := int16ToFloat32([]int16{-32768, 0, 32767})
	if out[0] != -1 || out[1] != 0 || out[2] >= 1 {
		t.Fatalf("unexpected scaling: %v", out)
	}
}

func TestDecodeFileRejectsUnknownContainer(t *testing.T) {
	if _, err := DecodeFile("testdata/does-not-exist.xyz"); err == nil {
		t.Fatal("expected an error")
	}
}
