package main

import "testing"

func TestDriftPPM(t *testing.T) {
	testCases := []struct {
		mcu, host uint64
		want      float64
	}{
		{1000000, 1000000, 0},
		{1000050, 1000000, 50},
		{999990, 1000000, -10},
		{5, 0, 0},
	}

	for _, tc := range testCases {
		got := driftPPM(tc.mcu, tc.host)
		if diff := got - tc.want; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("driftPPM(%d, %d) = %f, want %f", tc.mcu, tc.host, got, tc.want)
		}
	}
}
