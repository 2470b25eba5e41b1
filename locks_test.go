package svcconfig_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	svcconfig "github.com/reoring/svcconfig"
)

func TestLocks_Answers(t *testing.T) {
	tests := []struct {
		name     string
		locks    svcconfig.Locks
		attr     string
		attrWant bool
		elem     string
		elemWant bool
	}{
		{"none", svcconfig.Locks{}, "sendTimeout", false, "security", false},
		{"listed", svcconfig.Locks{Attributes: []string{"sendTimeout"}, Elements: []string{"security"}}, "sendTimeout", true, "security", true},
		{"not listed", svcconfig.Locks{Attributes: []string{"sendTimeout"}, Elements: []string{"security"}}, "openTimeout", false, "readerQuotas", false},
		{"star", svcconfig.Locks{Attributes: []string{svcconfig.LockAll}, Elements: []string{svcconfig.LockAll}}, "openTimeout", true, "readerQuotas", true},
		{"except kept", svcconfig.Locks{AllAttributesExcept: []string{"name"}, AllElementsExcept: []string{"security"}}, "name", false, "security", false},
		{"except other", svcconfig.Locks{AllAttributesExcept: []string{"name"}, AllElementsExcept: []string{"security"}}, "openTimeout", true, "readerQuotas", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.locks.AttributeLocked(tt.attr); got != tt.attrWant {
				t.Fatalf("AttributeLocked(%q) = %v", tt.attr, got)
			}
			if got := tt.locks.ElementLocked(tt.elem); got != tt.elemWant {
				t.Fatalf("ElementLocked(%q) = %v", tt.elem, got)
			}
		})
	}
}

func TestLocks_Attrs(t *testing.T) {
	l := svcconfig.Locks{
		Item:              true,
		AllElementsExcept: []string{"security"},
		Attributes:        []string{"sendTimeout", "openTimeout"},
	}
	want := []svcconfig.Attr{
		{Name: "lockAttributes", Value: "sendTimeout,openTimeout"},
		{Name: "lockAllElementsExcept", Value: "security"},
		{Name: "lockItem", Value: "true"},
	}
	if diff := cmp.Diff(want, l.Attrs()); diff != "" {
		t.Fatalf("attrs (-want +got):\n%s", diff)
	}
	if l.IsZero() || !(svcconfig.Locks{}).IsZero() {
		t.Fatalf("IsZero mismatch")
	}
	if !svcconfig.IsLockAttr("lockItem") || svcconfig.IsLockAttr("name") {
		t.Fatalf("IsLockAttr mismatch")
	}
}

func TestSplitLockList(t *testing.T) {
	got := svcconfig.SplitLockList(" a, b;c:: ,d ")
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, got); diff != "" {
		t.Fatalf("split (-want +got):\n%s", diff)
	}
	if got := svcconfig.SplitLockList(" , "); len(got) != 0 {
		t.Fatalf("blank list should be empty, got %q", got)
	}
}

func TestElementInfo_MarkSetDoesNotAlias(t *testing.T) {
	orig := svcconfig.ElementInfo{Set: make([]string, 0, 4)}
	orig.MarkSet("name")

	a, b := orig, orig
	a.MarkSet("sendTimeout")
	b.MarkSet("openTimeout")

	if diff := cmp.Diff([]string{"name"}, orig.Set); diff != "" {
		t.Fatalf("original changed (-want +got):\n%s", diff)
	}
	if !a.IsSet("sendTimeout") || a.IsSet("openTimeout") {
		t.Fatalf("copy a shares state: %v", a.Set)
	}
	if !b.IsSet("openTimeout") || b.IsSet("sendTimeout") {
		t.Fatalf("copy b shares state: %v", b.Set)
	}
}
