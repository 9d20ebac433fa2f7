package model

// Clone returns a deep copy of the match document. Commits mutate a copy and
// install it only on success, so a failed delivery leaves no trace; readers
// get snapshots that writers can never touch.
func (m *Match) Clone() *Match {
	if m == nil {
		return nil
	}
	out := *m
	if m.Toss != nil {
		t := *m.Toss
		out.Toss = &t
	}
	out.Squads = cloneStringListMap(m.Squads)
	out.PlayingXI = cloneStringListMap(m.PlayingXI)
	if m.Leadership != nil {
		out.Leadership = make(map[string]Leadership, len(m.Leadership))
		for k, v := range m.Leadership {
			out.Leadership[k] = v
		}
	}
	out.Innings = make([]Innings, len(m.Innings))
	for i := range m.Innings {
		out.Innings[i] = *m.Innings[i].Clone()
	}
	if m.Result != nil {
		r := *m.Result
		out.Result = &r
	}
	if m.Awards != nil {
		a := *m.Awards
		if m.Awards.ManOfTheMatch != nil {
			mom := *m.Awards.ManOfTheMatch
			a.ManOfTheMatch = &mom
		}
		if m.Awards.SixerKing != nil {
			six := *m.Awards.SixerKing
			a.SixerKing = &six
		}
		if m.Awards.BestBowler != nil {
			bb := *m.Awards.BestBowler
			a.BestBowler = &bb
		}
		out.Awards = &a
	}
	return &out
}

// Clone returns a deep copy of one innings.
func (i *Innings) Clone() *Innings {
	if i == nil {
		return nil
	}
	out := *i
	out.Batters = make(map[string]*BatterLine, len(i.Batters))
	for k, v := range i.Batters {
		line := *v
		out.Batters[k] = &line
	}
	out.Bowlers = make(map[string]*BowlerLine, len(i.Bowlers))
	for k, v := range i.Bowlers {
		line := *v
		out.Bowlers[k] = &line
	}
	out.Balls = make([]Ball, len(i.Balls))
	for n, b := range i.Balls {
		if b.Wicket != nil {
			w := *b.Wicket
			b.Wicket = &w
		}
		out.Balls[n] = b
	}
	out.FallOfWickets = append([]FallOfWicket(nil), i.FallOfWickets...)
	if i.Opening != nil {
		op := *i.Opening
		out.Opening = &op
	}
	return &out
}

func cloneStringListMap(in map[string][]string) map[string][]string {
	if in == nil {
		return nil
	}
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}
