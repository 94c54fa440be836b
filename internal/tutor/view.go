package tutor

// ItemView is the display state of one active item.
type ItemView struct {
	ID          ItemID
	Name        string
	TargetName  string
	Romanized   string
	Image       string
	Video       string
	Score       float64
	Suppressed  bool
	Highlighted bool
	Correct     bool
	Introducing bool
}

// View is a read-only snapshot of the session for rendering.
type View struct {
	Prompt   string
	Items    []ItemView
	// Pending is the Nepali name asked for, PendingID the item it names.
	Pending   string
	PendingID ItemID
	Attempts  int
	Auto     bool
	Phase    PacePhase
	Playing  bool
	Active   int
	Total    int
	Stats    Stats
}

// View returns the current observable state.
func (e *Engine) View() View {
	v := View{
		Prompt:   e.prompt,
		Attempts: e.attempts,
		Auto:     e.AutoMode(),
		Phase:    e.phase,
		Playing:  e.play != nil,
		Active:   len(e.active),
		Total:    len(e.catalog),
		Stats:    e.stats,
		Items:    make([]ItemView, len(e.active)),
	}
	if it := e.pendingItem(); it != nil {
		v.Pending, v.PendingID = it.TargetName, it.ID
	}
	for i, it := range e.active {
		v.Items[i] = ItemView{
			ID:          it.ID,
			Name:        it.Name,
			TargetName:  it.TargetName,
			Romanized:   it.Romanized,
			Image:       it.Image,
			Video:       it.Video,
			Score:       ComputeScore(it),
			Suppressed:  e.suppressed[it.ID],
			Highlighted: e.highlighted == it.ID,
			Correct:     e.answered == it.ID,
			Introducing: e.introducing == it.ID,
		}
	}
	return v
}
