package audio

import "testing"

func TestPeakNormalizationConfig(t *testing.T) {
	cfg := PeakNormalization(-0.1)
	if cfg.Method != MethodPeak {
		t.Errorf("Method = %v, want MethodPeak", cfg.Method)
	}
	if cfg.PeakTargetDB != -0.1 {
		t.Errorf("PeakTargetDB = %f, want -0.1", cfg.PeakTargetDB)
	}
}

func TestLUFSNormalizationConfig(t *testing.T) {
	cfg := LUFSNormalization(-14, -1.0)
	if cfg.Method != MethodLUFS {
		t.Errorf("Method = %v, want MethodLUFS", cfg.Method)
	}
	if cfg.LUFSTargetDB != -14 || cfg.TruePeakLimitDB != -1.0 {
		t.Errorf("got %+v", cfg)
	}
}

func TestMethodString(t *testing.T) {
	cases := map[Method]string{
		MethodPeak:    "peak",
		MethodRMS:     "rms",
		MethodLUFS:    "lufs",
		MethodDynamic: "dynamic",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("Method(%d).String() = %q, want %q", m, got, want)
		}
	}
}
