package codec

import (
	"context"
	"testing"
	"time"

	svcconfig "github.com/reoring/svcconfig"
)

func TestTimeSpan_Decode(t *testing.T) {
	ctx := context.Background()
	c := TimeSpan()
	cases := map[string]time.Duration{
		"00:01:00":            time.Minute,
		"00:10:00":            10 * time.Minute,
		"1.02:03:04":          26*time.Hour + 3*time.Minute + 4*time.Second,
		"00:00:00.2":          200 * time.Millisecond,
		"00:00:00.0000001":    100 * time.Nanosecond,
		"-00:00:05":           -5 * time.Second,
		"12:30":               12*time.Hour + 30*time.Minute,
		"3":                   72 * time.Hour,
		"infinite":            Infinite,
		"24.20:31:23.6470000": MaxTimeout,
	}
	for in, want := range cases {
		got, err := c.Decode(ctx, in)
		if err != nil {
			t.Fatalf("decode %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("decode %q: got %v want %v", in, got, want)
		}
	}
}

func TestTimeSpan_DecodeInvalid(t *testing.T) {
	ctx := context.Background()
	for _, in := range []string{"", "abc", "24:00:00", "00:60:00", "00:00:60", "00:00:00.12345678", "1:2:3:4", "00:00:00."} {
		_, err := TimeSpan().Decode(ctx, in)
		iss, ok := svcconfig.AsIssues(err)
		if !ok || len(iss) != 1 || iss[0].Code != svcconfig.CodeInvalidFormat {
			t.Fatalf("expected invalid_format for %q, got %v", in, err)
		}
	}
}

func TestTimeSpan_EncodeCanonical(t *testing.T) {
	ctx := context.Background()
	cases := map[time.Duration]string{
		time.Minute:                           "00:01:00",
		200 * time.Millisecond:                "00:00:00.2000000",
		26*time.Hour + 3*time.Minute:          "1.02:03:00",
		-5 * time.Second:                      "-00:00:05",
		Infinite:                              "Infinite",
		0:                                     "00:00:00",
		MaxTimeout:                            "24.20:31:23.6470000",
	}
	for in, want := range cases {
		got, err := TimeSpan().Encode(ctx, in)
		if err != nil {
			t.Fatalf("encode %v: %v", in, err)
		}
		if got != want {
			t.Fatalf("encode %v: got %q want %q", in, got, want)
		}
	}
}
