package symbols

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"no dollar", "Buy AMZN now", []string{}},
		{"mixed case and duplicates", "Buy $AMZN now, not $tsla! $amzn again", []string{"AMZN", "TSLA"}},
		{"single", "$AMZN to the moon", []string{"AMZN"}},
		{"digit inside tag", "$AB1 and $X2Y", []string{}},
		{"underscore inside tag", "$AB_C", []string{}},
		{"bare dollar and amounts", "paid $ 5 and $100", []string{}},
		{"punctuation after tag", "($jakk), $GME.", []string{"GME", "JAKK"}},
		{"adjacent tags", "$AMZN$TSLA", []string{"AMZN", "TSLA"}},
		{"apostrophe", "$AAPL's earnings", []string{"AAPL"}},
		{"word tails", "$AB1 $CD_x $EF. $$GH $ $ijé", []string{"EF", "GH"}},
		{"accented tail", "$CAFé $TSLA", []string{"TSLA"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text).Sorted()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractNeverReturnsNil(t *testing.T) {
	if Extract("") == nil {
		t.Error("Extract(\"\") returned nil set")
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(" brk.b "); got != "BRK.B" {
		t.Errorf("Normalize() = %q, want BRK.B", got)
	}
}
