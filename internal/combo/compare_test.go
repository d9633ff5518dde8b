// internal/combo/compare_test.go
package combo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBombPowerOrdering(t *testing.T) {
	four := Classify(hand("5S", "5H", "5C", "5D"))
	five := Classify(hand("6S", "6H", "6C", "6D", "6S"))
	flush := Classify(hand("6H", "7H", "8H", "9H", "TH"))
	six := Classify(hand("3S", "3H", "3C", "3D", "3S", "3H"))

	require.Equal(t, 400, four.Power)
	require.Equal(t, 500, five.Power)
	require.Equal(t, 550, flush.Power)
	require.Equal(t, 600, six.Power)

	assert.True(t, CanBeat(five, &four))
	assert.True(t, CanBeat(flush, &five))
	assert.True(t, CanBeat(six, &flush))
	assert.False(t, CanBeat(flush, &six))
	assert.False(t, CanBeat(four, &five))
}

func TestCanBeat(t *testing.T) {
	tests := []struct {
		name string
		next Combination
		prev *Combination
		want bool
	}{
		{
			name: "anything leads an empty round",
			next: Classify(hand("3S")),
			prev: nil,
			want: true,
		},
		{
			name: "invalid never beats",
			next: Classify(hand("3S", "9D")),
			prev: nil,
			want: false,
		},
		{
			name: "higher single",
			next: Classify(hand("AS")),
			prev: ptr(Classify(hand("KD"))),
			want: true,
		},
		{
			name: "equal single does not beat",
			next: Classify(hand("KS")),
			prev: ptr(Classify(hand("KD"))),
			want: false,
		},
		{
			name: "big joker beats small joker",
			next: Classify(hand("BJ")),
			prev: ptr(Classify(hand("SJ"))),
			want: true,
		},
		{
			name: "pair cannot beat a triple",
			next: Classify(hand("AS", "AD")),
			prev: ptr(Classify(hand("3S", "3D", "3C"))),
			want: false,
		},
		{
			name: "tube cannot beat a plate of the same size",
			next: Classify(hand("TS", "TD", "JC", "JD", "QS", "QH")),
			prev: ptr(Classify(hand("3S", "3H", "3C", "4D", "4S", "4H"))),
			want: false,
		},
		{
			name: "higher straight",
			next: Classify(hand("4S", "5H", "6C", "7D", "8S")),
			prev: ptr(Classify(hand("3S", "4H", "5C", "6D", "7S"))),
			want: true,
		},
		{
			name: "bomb beats any ordinary play",
			next: Classify(hand("3S", "3H", "3C", "3D")),
			prev: ptr(Classify(hand("TS", "JH", "QC", "KD", "AS"))),
			want: true,
		},
		{
			name: "ordinary play cannot beat a bomb",
			next: Classify(hand("BJ")),
			prev: ptr(Classify(hand("3S", "3H", "3C", "3D"))),
			want: false,
		},
		{
			name: "same size bomb needs a higher rank",
			next: Classify(hand("8S", "8H", "8C", "8D")),
			prev: ptr(Classify(hand("7S", "7H", "7C", "7D"))),
			want: true,
		},
		{
			name: "same size bomb with equal rank does not beat",
			next: Classify(hand("7S", "7H", "7C", "W")),
			prev: ptr(Classify(hand("7S", "7H", "7C", "7D"))),
			want: false,
		},
		{
			name: "straight flush beats a four card bomb",
			next: Classify(hand("9C", "TC", "JC", "QC", "KC")),
			prev: ptr(Classify(hand("5S", "5H", "5C", "5D"))),
			want: true,
		},
		{
			name: "six card bomb beats a straight flush",
			next: Classify(hand("4S", "4H", "4C", "4D", "4S", "4H")),
			prev: ptr(Classify(hand("9C", "TC", "JC", "QC", "KC"))),
			want: true,
		},
		{
			name: "higher straight flush",
			next: Classify(hand("TC", "JC", "QC", "KC", "AC")),
			prev: ptr(Classify(hand("9D", "TD", "JD", "QD", "KD"))),
			want: true,
		},
		{
			name: "quad joker beats an eight card bomb",
			next: Classify(hand("SJ", "SJ", "BJ", "BJ")),
			prev: ptr(Classify(hand("2S", "2H", "2C", "2D", "2S", "2C", "2D", "W"))),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanBeat(tt.next, tt.prev))
		})
	}
}

func TestBeating(t *testing.T) {
	prev := Classify(hand("3S", "3H", "4C", "4D", "5S", "5H"))
	require.Equal(t, Tube, prev.Type)

	cards := hand("6S", "6H", "7C", "7D", "W", "W")

	got, ok := Beating(cards, Invalid, &prev)
	require.True(t, ok)
	assert.Equal(t, Tube, got.Type)

	_, ok = Beating(cards, Invalid, ptr(Classify(hand("AS", "AH", "AC", "KD", "KS", "KH"))))
	assert.False(t, ok)

	lead, ok := Beating(cards, Plate, nil)
	require.True(t, ok)
	assert.Equal(t, Plate, lead.Type)
	assert.Equal(t, 6, lead.Rank)
}

func ptr(c Combination) *Combination {
	return &c
}
