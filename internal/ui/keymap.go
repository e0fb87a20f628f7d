package ui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	Quit        tea.Key
	Help        tea.Key
	AppLogs     tea.Key
	NextTab     tea.Key
	PrevTab     tea.Key
	Dashboard   tea.Key
	Businesses  tea.Key
	Users       tea.Key
	SignOut     tea.Key
	Search      tea.Key
	Status      tea.Key
	Sort        tea.Key
	Move        tea.Key
	ColLeft     tea.Key
	ColRight    tea.Key
	NextPage    tea.Key
	PrevPage    tea.Key
	PageSize    tea.Key
	Reload      tea.Key
	New         tea.Key
	Edit        tea.Key
	Toggle      tea.Key
	Delete      tea.Key
	CopyCode    tea.Key
	Export      tea.Key
	Filter      tea.Key
	ClearFilter tea.Key
	Save        tea.Key
	StepBack    tea.Key
	NextField   tea.Key
	PrevField   tea.Key
	AddAddress  tea.Key
	DelAddress  tea.Key
	ToggleAddr  tea.Key
	NextAddr    tea.Key
	PrevAddr    tea.Key
	Recovery    tea.Key
	Back        tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
		Help:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
		AppLogs:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		NextTab:     tea.Key{Type: tea.KeyTab},
		PrevTab:     tea.Key{Type: tea.KeyShiftTab},
		Dashboard:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'1'}},
		Businesses:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'2'}},
		Users:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'3'}},
		SignOut:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'O'}},
		Search:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		Status:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'t'}},
		Sort:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'s'}},
		Move:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'m'}},
		ColLeft:     tea.Key{Type: tea.KeyLeft},
		ColRight:    tea.Key{Type: tea.KeyRight},
		NextPage:    tea.Key{Type: tea.KeyRunes, Runes: []rune{']'}},
		PrevPage:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'['}},
		PageSize:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'z'}},
		Reload:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'r'}},
		New:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'n'}},
		Edit:        tea.Key{Type: tea.KeyEnter},
		Toggle:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'x'}},
		Delete:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'d'}},
		CopyCode:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'c'}},
		Export:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		Filter:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'f'}},
		ClearFilter: tea.Key{Type: tea.KeyRunes, Runes: []rune{'F'}},
		Save:        tea.Key{Type: tea.KeyCtrlS},
		StepBack:    tea.Key{Type: tea.KeyCtrlB},
		NextField:   tea.Key{Type: tea.KeyTab},
		PrevField:   tea.Key{Type: tea.KeyShiftTab},
		AddAddress:  tea.Key{Type: tea.KeyCtrlN},
		DelAddress:  tea.Key{Type: tea.KeyCtrlX},
		ToggleAddr:  tea.Key{Type: tea.KeyCtrlT},
		NextAddr:    tea.Key{Type: tea.KeyPgDown},
		PrevAddr:    tea.Key{Type: tea.KeyPgUp},
		Recovery:    tea.Key{Type: tea.KeyCtrlR},
		Back:        tea.Key{Type: tea.KeyEsc},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}
