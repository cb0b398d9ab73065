package score

import (
	"reflect"
	"strings"
	"testing"
)

func scores(t *Table) map[string]int {
	out := make(map[string]int)
	for _, name := range t.Names() {
		out[name], _ = t.Get(name)
	}
	return out
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]int
	}{
		{
			name: "explicit participant lines",
			text: "Summary...\nParticipant: alice - Score: 850\nParticipant: bob - Score: 720",
			want: map[string]int{"alice": 850, "bob": 720},
		},
		{
			name: "bold markup",
			text: "Participant: **alice** - Score: **900**",
			want: map[string]int{"alice": 900},
		},
		{
			name: "colon and dash",
			text: "alice: 600\nbob - 450",
			want: map[string]int{"alice": 600, "bob": 450},
		},
		{
			name: "russian units",
			text: "Иван набрал 700 баллов\nПётр получает 650 очков",
			want: map[string]int{"Иван": 700, "Пётр": 650},
		},
		{
			name: "points",
			text: "carol earns 999 points",
			want: map[string]int{"carol": 999},
		},
		{
			name: "out of range dropped",
			text: "alice: 1500\nbob: 300",
			want: map[string]int{"bob": 300},
		},
		{
			name: "nothing",
			text: "No evaluation was produced.",
			want: map[string]int{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := scores(Extract(tc.text)); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Extract() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExtract_DuplicateKeepsMax(t *testing.T) {
	text := "alice: 400\nParticipant: alice - Score: 800\nalice: 600"
	got, _ := Extract(text).Get("alice")
	if got != 800 {
		t.Errorf("alice = %d, want 800", got)
	}
}

func TestExtract_Bounds(t *testing.T) {
	text := "a1: 0\nb2: 1000\nc3: 1001\nd4: 9999\ne5 - 50"
	tbl := Extract(text)
	for _, name := range tbl.Names() {
		s, _ := tbl.Get(name)
		if s < MinScore || s > MaxScore {
			t.Errorf("%s has out-of-range score %d", name, s)
		}
	}
	if _, ok := tbl.Get("c3"); ok {
		t.Error("1001 must be rejected")
	}
	if s, _ := tbl.Get("b2"); s != 1000 {
		t.Errorf("b2 = %d, want 1000", s)
	}
}

func TestExtract_StopWordsNeverNames(t *testing.T) {
	tbl := Extract("Score: 500\nОценка: 700\nParticipant: dave - Score: 300")
	for _, name := range tbl.Names() {
		if stopWords[strings.ToLower(name)] {
			t.Errorf("stop word %q extracted as a name", name)
		}
	}
	if s, _ := tbl.Get("dave"); s != 300 {
		t.Errorf("dave = %d, want 300", s)
	}
}

func TestExtract_Fallback(t *testing.T) {
	text := "Итоги\nalice заслуживает 850\nScore 100 here\nbob 12 and 930"
	got := scores(Extract(text))
	want := map[string]int{"alice": 850, "bob": 930}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fallback = %v, want %v", got, want)
	}
}

func TestTable_Add(t *testing.T) {
	tbl := NewTable()
	if !tbl.Add("x", 10) || tbl.Add("x", 5) || !tbl.Add("x", 20) {
		t.Error("Add should only raise scores")
	}
	if tbl.Add("y", -1) || tbl.Add("y", 1001) || tbl.Add("", 5) {
		t.Error("Add accepted an invalid entry")
	}
	if tbl.Len() != 1 {
		t.Errorf("Len() = %d", tbl.Len())
	}
}

func TestRank_StableTies(t *testing.T) {
	tbl := NewTable()
	tbl.Add("first", 500)
	tbl.Add("second", 900)
	tbl.Add("third", 500)
	tbl.Add("fourth", 900)

	want := []Entry{{"second", 900}, {"fourth", 900}, {"first", 500}, {"third", 500}}
	if got := Rank(tbl); !reflect.DeepEqual(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
}

func TestFormatScoreboard(t *testing.T) {
	tbl := NewTable()
	tbl.Add("bob", 720)
	tbl.Add("alice", 850)
	tbl.Add("carol", 300)
	tbl.Add("dave", 100)

	want := "**🏆 Scoreboard:**\n\n" +
		"🥇 **alice**: 850 points\n" +
		"🥈 **bob**: 720 points\n" +
		"🥉 **carol**: 300 points\n" +
		"   **dave**: 100 points\n" +
		"\n**🎉 Winner: alice** with 850 points!"
	if got := FormatScoreboard(tbl); got != want {
		t.Errorf("FormatScoreboard() =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatScoreboard_Empty(t *testing.T) {
	if got := FormatScoreboard(NewTable()); got != EmptyScoreboard {
		t.Errorf("got %q", got)
	}
}
