package config

// LoadedPrompts holds prompt contents read from files
type LoadedPrompts struct {
	System string
	User   string
}

// AllLoadedPrompts holds the global prompt files and the per-operation ones
type AllLoadedPrompts struct {
	Global    LoadedPrompts
	Summarize LoadedPrompts
}

// forOperation fills gaps in an operation's loaded prompts from the global ones
func (a AllLoadedPrompts) forOperation(op LoadedPrompts) LoadedPrompts {
	if op.System == "" {
		op.System = a.Global.System
	}
	if op.User == "" {
		op.User = a.Global.User
	}
	return op
}

// count reports how many prompts were loaded from files
func (a AllLoadedPrompts) count() int {
	n := 0
	for _, p := range []string{a.Global.System, a.Global.User, a.Summarize.System, a.Summarize.User} {
		if p != "" {
			n++
		}
	}
	return n
}
