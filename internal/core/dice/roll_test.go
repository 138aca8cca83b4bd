package dice

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/dicebot/internal/platform/errors"
	"github.com/louisbranch/dicebot/internal/random"
)

// sequence returns its values in order and records every requested range.
type sequence struct {
	values []int
	calls  [][2]int
}

func (s *sequence) IntRange(min, max int) (int, error) {
	s.calls = append(s.calls, [2]int{min, max})
	if max < min {
		return 0, random.ErrEmptyRange
	}
	if len(s.values) == 0 {
		return min, nil
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v, nil
}

// lockCounter counts Do calls around a sequence.
type lockCounter struct {
	src   *sequence
	calls int
}

func (l *lockCounter) Do(fn func(random.Source) error) error {
	l.calls++
	return fn(l.src)
}

func TestResolveRendering(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		draws   []int
		want    string
	}{
		{
			name:    "single die",
			request: Request{Count: 1, Dimension: 10},
			draws:   []int{7},
			want:    "7",
		},
		{
			name:    "single die with fix",
			request: Request{Count: 1, Dimension: 10, Fixes: []Fix{Add(3)}},
			draws:   []int{7},
			want:    "7 + 3 = 10",
		},
		{
			name:    "two dice no fix",
			request: Request{Count: 2, Dimension: 100},
			draws:   []int{42, 99},
			want:    "die #1: 42\ndie #2: 99",
		},
		{
			name:    "fix per die",
			request: Request{Count: 2, Dimension: 10, Fixes: []Fix{Add(3), Add(5)}},
			draws:   []int{1, 2},
			want:    "die #1: 1 + 3 = 4\ndie #2: 2 + 5 = 7",
		},
		{
			name:    "shared fix",
			request: Request{Count: 2, Dimension: 10, Fixes: []Fix{Sub(3)}},
			draws:   []int{1, 9},
			want:    "die #1: 1 - 3 = -2\ndie #2: 9 - 3 = 6",
		},
		{
			name:    "comment title",
			request: Request{Count: 3, Dimension: 10, Fixes: []Fix{Add(30), Sub(50), Add(40)}, Comment: "attack roll"},
			draws:   []int{5, 6, 7},
			want:    "<b>attack roll:</b>\n\ndie #1: 5 + 30 = 35\ndie #2: 6 - 50 = -44\ndie #3: 7 + 40 = 47",
		},
		{
			name:    "comment is escaped",
			request: Request{Count: 1, Dimension: 6, Comment: "<script> & co"},
			draws:   []int{2},
			want:    "<b>&lt;script&gt; &amp; co:</b>\n\n2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &sequence{values: tt.draws}
			result, err := Resolve(tt.request, src, nil)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if result.Text != tt.want {
				t.Fatalf("Resolve() text = %q, want %q", result.Text, tt.want)
			}
			if len(result.Outcomes) != tt.request.Count {
				t.Fatalf("got %d outcomes, want %d", len(result.Outcomes), tt.request.Count)
			}
			for _, call := range src.calls {
				if call != [2]int{1, tt.request.Dimension} {
					t.Fatalf("drew from %v, want [1 %d]", call, tt.request.Dimension)
				}
			}
		})
	}
}

func TestResolveOutcomes(t *testing.T) {
	request := Request{Count: 3, Dimension: 10, Fixes: []Fix{Add(30), Sub(50), Add(40)}}
	result, err := Resolve(request, &sequence{values: []int{5, 6, 7}}, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []Outcome{
		{Index: 1, Raw: 5, Fix: &Fix{Sign: FixAdd, Magnitude: 30}, Final: 35},
		{Index: 2, Raw: 6, Fix: &Fix{Sign: FixSub, Magnitude: 50}, Final: -44},
		{Index: 3, Raw: 7, Fix: &Fix{Sign: FixAdd, Magnitude: 40}, Final: 47},
	}
	for i, got := range result.Outcomes {
		if got.Index != want[i].Index || got.Raw != want[i].Raw || got.Final != want[i].Final || *got.Fix != *want[i].Fix {
			t.Fatalf("outcome %d = %+v, want %+v", i, got, want[i])
		}
	}
}

func TestResolveWithSeededSource(t *testing.T) {
	src := random.NewLocked(99)
	for count := 1; count <= MaxCount; count += 11 {
		for _, dimension := range []int{1, 2, 6, 10, 100, 1000} {
			result, err := Resolve(Request{Count: count, Dimension: dimension}, src, nil)
			if err != nil {
				t.Fatalf("Resolve(%dd%d) error = %v", count, dimension, err)
			}
			if len(result.Outcomes) != count {
				t.Fatalf("Resolve(%dd%d) outcomes = %d", count, dimension, len(result.Outcomes))
			}
			for _, o := range result.Outcomes {
				if o.Raw < 1 || o.Raw > dimension || o.Final != o.Raw || o.Fix != nil {
					t.Fatalf("Resolve(%dd%d) outcome = %+v", count, dimension, o)
				}
			}
			if got := strings.Count(result.Text, "\n") + 1; got != count {
				t.Fatalf("Resolve(%dd%d) rendered %d lines", count, dimension, got)
			}
		}
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		want    error
		kind    apperrors.Kind
	}{
		{name: "zero dimension", request: Request{Count: 1, Dimension: 0}, want: ErrResolution, kind: apperrors.KindResolution},
		{name: "zero count", request: Request{Count: 0, Dimension: 6}, want: ErrResolution, kind: apperrors.KindResolution},
		{name: "too many dice", request: Request{Count: 101, Dimension: 6}, want: ErrTooManyDice, kind: apperrors.KindValidation},
		{name: "fix mismatch", request: Request{Count: 3, Dimension: 6, Fixes: []Fix{Add(1), Add(2)}}, want: ErrFixMismatch, kind: apperrors.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.request, random.NewLocked(1), nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Resolve() error = %v, want %v", err, tt.want)
			}
			if got := apperrors.KindOf(err); got != tt.kind {
				t.Fatalf("KindOf() = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestResolveZeroDimensionKeepsSourceError(t *testing.T) {
	_, err := Resolve(Request{Count: 1, Dimension: 0}, random.NewLocked(1), nil)
	if !errors.Is(err, random.ErrEmptyRange) {
		t.Fatalf("Resolve() error = %v, want empty range cause", err)
	}
}

func TestResolveRequiresSource(t *testing.T) {
	if _, err := Resolve(Request{Count: 1, Dimension: 6}, nil, nil); err == nil {
		t.Fatal("expected missing source error")
	}
}

func TestRoll(t *testing.T) {
	locker := &lockCounter{src: &sequence{values: []int{4, 8}}}
	result, ok, err := Roll("2d10+1 fight", locker, nil)
	if err != nil || !ok {
		t.Fatalf("Roll() = ok %v, err %v", ok, err)
	}
	if locker.calls != 1 {
		t.Fatalf("expected one lock for the request, got %d", locker.calls)
	}
	want := "<b>fight:</b>\n\ndie #1: 4 + 1 = 5\ndie #2: 8 + 1 = 9"
	if result.Text != want {
		t.Fatalf("Roll() text = %q, want %q", result.Text, want)
	}
}

func TestRollSkipsSourceForNonDice(t *testing.T) {
	locker := &lockCounter{src: &sequence{}}
	if _, ok, err := Roll("hello", locker, nil); ok || err != nil {
		t.Fatalf("Roll(hello) = ok %v, err %v", ok, err)
	}
	if _, ok, err := Roll("200d10", locker, nil); !ok || !errors.Is(err, ErrTooManyDice) {
		t.Fatalf("Roll(200d10) = ok %v, err %v", ok, err)
	}
	if locker.calls != 0 {
		t.Fatalf("expected no lock for rejected input, got %d", locker.calls)
	}
}

func TestCatalogRenderer(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{locale: "zh-CN", want: "<b>攻击：</b>\n\n第1个骰子：3\n第2个骰子：5"},
		{locale: "en-US", want: "<b>攻击:</b>\n\ndie #1: 3\ndie #2: 5"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			renderer := NewCatalogRenderer(tt.locale)
			if renderer.Locale() != tt.locale {
				t.Fatalf("Locale() = %q", renderer.Locale())
			}
			result, err := Resolve(Request{Count: 2, Dimension: 6, Comment: "攻击"}, &sequence{values: []int{3, 5}}, renderer)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if result.Text != tt.want {
				t.Fatalf("Resolve() text = %q, want %q", result.Text, tt.want)
			}
		})
	}
}

func TestCatalogRendererFallsBackToBaseLocale(t *testing.T) {
	if got := NewCatalogRenderer("xx-YY").Locale(); got != "en-US" {
		t.Fatalf("Locale() = %q, want en-US", got)
	}
}

func TestPlainRenderer(t *testing.T) {
	var r Plain
	if got := r.Ordinal(7); got != "die #7: " {
		t.Fatalf("Ordinal() = %q", got)
	}
	if got := r.Title("a &amp; b"); got != "<b>a &amp; b:</b>" {
		t.Fatalf("Title() = %q", got)
	}
	if FixAdd.Symbol() != "+" || FixSub.Symbol() != "-" {
		t.Fatalf("symbols = %q %q", FixAdd.Symbol(), FixSub.Symbol())
	}
}
