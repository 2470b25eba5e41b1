package codec

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	js "github.com/reoring/svcconfig/jsonschema"
)

// Infinite is the duration written as "Infinite".
const Infinite = time.Duration(math.MaxInt64)

// MaxTimeout is the largest finite timeout accepted by configuration
// validators: 24.20:31:23.6470000 (MaxInt32 milliseconds).
const MaxTimeout = time.Duration(math.MaxInt32) * time.Millisecond

// Tick is the resolution of timespan text (100ns).
const Tick = 100 * time.Nanosecond

// TimeSpan returns the codec for [-][d.]hh:mm[:ss[.fffffff]] text and
// "Infinite".
func TimeSpan() Codec[time.Duration] { return timeSpanCodec{} }

type timeSpanCodec struct{}

func (timeSpanCodec) Decode(_ context.Context, s string) (time.Duration, error) {
	d, err := ParseTimeSpan(s)
	if err != nil {
		return 0, invalidFormat("timespan", s, err)
	}
	return d, nil
}

func (timeSpanCodec) Encode(_ context.Context, d time.Duration) (string, error) {
	return FormatTimeSpan(d), nil
}

func (timeSpanCodec) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "timespan", Pattern: `^(Infinite|-?(\d+\.)?\d{1,2}:\d{1,2}(:\d{1,2}(\.\d{1,7})?)?|-?\d+)$`}, nil
}

var errTimeSpan = errors.New("timespan must look like [-][d.]hh:mm[:ss[.fffffff]]")

// ParseTimeSpan parses timespan text. A bare integer is a number of days.
func ParseTimeSpan(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "Infinite") {
		return Infinite, nil
	}
	if s == "" {
		return 0, errTimeSpan
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var days, hours, minutes, seconds, frac int64
	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		n, err := parseUint(s, 10675199)
		if err != nil {
			return 0, err
		}
		days = n
	} else {
		head := s[:colon]
		if dot := strings.IndexByte(head, '.'); dot >= 0 {
			n, err := parseUint(head[:dot], 10675199)
			if err != nil {
				return 0, err
			}
			days = n
			head = head[dot+1:]
		}
		parts := append([]string{head}, strings.Split(s[colon+1:], ":")...)
		if len(parts) > 3 {
			return 0, errTimeSpan
		}
		var err error
		if hours, err = parseUint(parts[0], 23); err != nil {
			return 0, err
		}
		if minutes, err = parseUint(parts[1], 59); err != nil {
			return 0, err
		}
		if len(parts) == 3 {
			sec := parts[2]
			if dot := strings.IndexByte(sec, '.'); dot >= 0 {
				digits := sec[dot+1:]
				if digits == "" || len(digits) > 7 {
					return 0, errTimeSpan
				}
				f, err := parseUint(digits, 9999999)
				if err != nil {
					return 0, err
				}
				for i := len(digits); i < 7; i++ {
					f *= 10
				}
				frac = f
				sec = sec[:dot]
			}
			if seconds, err = parseUint(sec, 59); err != nil {
				return 0, err
			}
		}
	}
	total := (((days*24+hours)*60+minutes)*60+seconds)*int64(time.Second/Tick) + frac
	if total > math.MaxInt64/int64(Tick) {
		return 0, errors.New("timespan out of range")
	}
	d := time.Duration(total) * Tick
	if neg {
		d = -d
	}
	return d, nil
}

func parseUint(s string, max int64) (int64, error) {
	if s == "" {
		return 0, errTimeSpan
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errTimeSpan
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n > max {
		return 0, errTimeSpan
	}
	return n, nil
}

// FormatTimeSpan renders d in constant form: [-][d.]hh:mm:ss[.fffffff].
func FormatTimeSpan(d time.Duration) string {
	if d == Infinite {
		return "Infinite"
	}
	var b strings.Builder
	ticks := int64(d / Tick)
	if ticks < 0 {
		b.WriteByte('-')
		ticks = -ticks
	}
	perSec := int64(time.Second / Tick)
	frac := ticks % perSec
	secs := ticks / perSec
	days := secs / 86400
	secs %= 86400
	if days > 0 {
		b.WriteString(strconv.FormatInt(days, 10))
		b.WriteByte('.')
	}
	pad2(&b, secs/3600)
	b.WriteByte(':')
	pad2(&b, secs%3600/60)
	b.WriteByte(':')
	pad2(&b, secs%60)
	if frac > 0 {
		f := strconv.FormatInt(frac, 10)
		b.WriteByte('.')
		b.WriteString(strings.Repeat("0", 7-len(f)))
		b.WriteString(f)
	}
	return b.String()
}

func pad2(b *strings.Builder, n int64) {
	if n < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(n, 10))
}
