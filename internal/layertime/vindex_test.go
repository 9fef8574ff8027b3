package layertime

import "testing"

func TestViEpoch(t *testing.T) {
	if got := vi(utc(1970, 1, 1, 0, 0, 0, 0)); got != 0 {
		t.Errorf("vi(epoch) = %d, want 0", got)
	}
}

func TestViMonotone(t *testing.T) {
	a := utc(1970, 1, 1, 0, 0, 0, 0)
	b := utc(1970, 1, 1, 0, 0, 0, 1)
	if !(vi(a) < vi(b)) {
		t.Errorf("vi not monotone: vi(a)=%d vi(b)=%d", vi(a), vi(b))
	}
}

func TestViWholeMicrosecondRoundTrip(t *testing.T) {
	ts := utc(1970, 1, 2, 3, 4, 5, 123456)
	got := vi(ts)
	want := uint64(((1*24+3)*3600+4*60+5)*1_000_000 + 123456)
	if got != want {
		t.Errorf("vi(%v) = %d, want %d", ts, got, want)
	}
}

func TestCheckEpochRejectsNegative(t *testing.T) {
	before := utc(1969, 12, 31, 23, 59, 59, 999999)
	if err := checkEpoch(before); err != ErrOutOfEpoch {
		t.Errorf("checkEpoch(before epoch) = %v, want ErrOutOfEpoch", err)
	}
	if err := checkEpoch(utc(1970, 1, 1, 0, 0, 0, 0)); err != nil {
		t.Errorf("checkEpoch(epoch) = %v, want nil", err)
	}
}
