package dsl_test

import (
	"context"
	"testing"
	"time"

	svcconfig "github.com/reoring/svcconfig"
	"github.com/reoring/svcconfig/codec"
	g "github.com/reoring/svcconfig/dsl"
)

type limits struct {
	Enabled  bool
	Count    int
	Size     int64
	Timeout  time.Duration
	Provider string
}

func limitsSchema() *g.ElementSchema[limits] {
	return g.ElementOf[limits]("limits").
		Attr("enabled", g.Bool()).Default(true).
		Attr("count", g.Int().Min(1).Max(16384)).Default(4).
		Attr("size", g.Int64().Min(0)).Default(int64(524288)).
		Attr("timeout", g.TimeSpan().MinDuration(codec.Tick).MaxDuration(codec.MaxTimeout)).Default("00:00:30").
		Attr("provider", g.String().Pattern(`^[A-Za-z]*$`).MaxLength(8)).
		MustBuild()
}

func TestAttr_Conversions(t *testing.T) {
	s := limitsSchema()
	n := svcconfig.NewNode("limits").
		SetAttr("enabled", "FALSE").
		SetAttr("count", " 16 ").
		SetAttr("size", "9223372036854775807").
		SetAttr("timeout", "Infinite").
		SetAttr("provider", "Sql")
	v, err := s.Parse(context.Background(), n)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if v.Enabled || v.Count != 16 || v.Size != 9223372036854775807 || v.Timeout != codec.Infinite || v.Provider != "Sql" {
		t.Fatalf("unexpected value %+v", v)
	}
}

func TestAttr_DefaultFromText(t *testing.T) {
	v := limitsSchema().New()
	if v.Timeout != 30*time.Second || v.Count != 4 || !v.Enabled || v.Size != 524288 {
		t.Fatalf("unexpected defaults %+v", v)
	}
}

func TestAttr_ValidatorCodes(t *testing.T) {
	cases := []struct {
		attr, value, code string
	}{
		{"enabled", "yes", svcconfig.CodeInvalidType},
		{"count", "0", svcconfig.CodeTooSmall},
		{"count", "16385", svcconfig.CodeTooBig},
		{"count", "4294967296", svcconfig.CodeInvalidType},
		{"timeout", "00:00:00", svcconfig.CodeTooSmall},
		{"timeout", "25.00:00:00", svcconfig.CodeTooBig},
		{"timeout", "soon", svcconfig.CodeInvalidFormat},
		{"provider", "a-b", svcconfig.CodePattern},
		{"provider", "abcdefghi", svcconfig.CodeTooLong},
	}
	for _, tc := range cases {
		n := svcconfig.NewNode("limits").SetAttr(tc.attr, tc.value)
		_, err := limitsSchema().Parse(context.Background(), n)
		iss, ok := svcconfig.AsIssues(err)
		if !ok || len(iss) != 1 {
			t.Fatalf("%s=%q: expected one issue, got %v", tc.attr, tc.value, err)
		}
		if iss[0].Code != tc.code || iss[0].Path != "/@"+tc.attr {
			t.Fatalf("%s=%q: got %s at %s, want %s", tc.attr, tc.value, iss[0].Code, iss[0].Path, tc.code)
		}
	}
}

func TestAttr_JSONSchemaBounds(t *testing.T) {
	js, err := limitsSchema().JSONSchema()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	c := js.Properties["count"]
	if c.Minimum == nil || *c.Minimum != 1 || c.Maximum == nil || *c.Maximum != 16384 {
		t.Fatalf("unexpected count schema %+v", c)
	}
	if to := js.Properties["timeout"]; to.Minimum != nil || to.Maximum != nil {
		t.Fatalf("timespan bounds should not become numeric bounds: %+v", to)
	}
}
